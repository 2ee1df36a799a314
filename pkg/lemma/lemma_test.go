package lemma

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sentence(toks ...Token) []Token {
	for i := range toks {
		toks[i].Index = i
	}
	return toks
}

func TestNormalize_CasingAndFilter(t *testing.T) {
	n := ForLanguage("de", nil)
	toks := sentence(
		Token{Text: "Der", Lemma: "der", POS: "DET", Head: 1},
		Token{Text: "ARZT", Lemma: "ARZT", POS: Noun, Head: 2},
		Token{Text: "arbeitet", Lemma: "Arbeiten", POS: Verb, Head: 2},
		Token{Text: "sehr", Lemma: "sehr", POS: Adverb, Head: 4},
		Token{Text: "Schnell", Lemma: "Schnell", POS: Adjective, Head: 2},
		Token{Text: "2024", Lemma: "2024", POS: Noun, Head: 2},
		Token{Text: ".", Lemma: ".", POS: "PUNCT", Head: 2},
	)

	got := n.Normalize(toks)

	assert.Equal(t, []string{"Arzt", "arbeiten", "schnell", "sehr"}, got.Sorted())
}

func TestNormalize_SeparableVerb(t *testing.T) {
	n := ForLanguage("de", nil)
	// "Der Zug kommt morgen an."
	toks := sentence(
		Token{Text: "Der", Lemma: "der", POS: "DET", Head: 1},
		Token{Text: "Zug", Lemma: "Zug", POS: Noun, Head: 2},
		Token{Text: "kommt", Lemma: "kommen", POS: Verb, Head: 2},
		Token{Text: "morgen", Lemma: "morgen", POS: Adverb, Head: 2},
		Token{Text: "an", Lemma: "an", POS: "ADP", Head: 2},
		Token{Text: ".", Lemma: ".", POS: "PUNCT", Head: 2},
	)

	got := n.Normalize(toks)

	assert.True(t, got.Has("ankommen"))
	assert.False(t, got.Has("kommen"))
	assert.False(t, got.Has("an"))
	assert.Equal(t, []string{"Zug", "ankommen", "morgen"}, got.Sorted())
}

func TestNormalize_ParticleIncludedByPOS(t *testing.T) {
	// When the particle itself passes the POS filter it is still removed.
	n := ForLanguage("de", []string{Verb, Adverb})
	toks := sentence(
		Token{Text: "Ich", Lemma: "ich", POS: "PRON", Head: 1},
		Token{Text: "räume", Lemma: "räumen", POS: Verb, Head: 1},
		Token{Text: "auf", Lemma: "auf", POS: Adverb, Head: 1},
	)

	assert.Equal(t, []string{"aufräumen"}, n.Normalize(toks).Sorted())
}

func TestNormalize_RemovalIsByValue(t *testing.T) {
	n := ForLanguage("de", nil)
	// "kommen" appears as an independent verb as well; it is removed anyway.
	toks := sentence(
		Token{Text: "Sie", Lemma: "sie", POS: "PRON", Head: 1},
		Token{Text: "kommt", Lemma: "kommen", POS: Verb, Head: 1},
		Token{Text: "an", Lemma: "an", POS: "ADP", Head: 1},
		Token{Text: "und", Lemma: "und", POS: "CCONJ", Head: 4},
		Token{Text: "kommen", Lemma: "kommen", POS: Verb, Head: 1},
	)

	got := n.Normalize(toks)

	assert.Equal(t, []string{"ankommen"}, got.Sorted())
}

func TestNormalize_CapitalizedPrepositionNotFused(t *testing.T) {
	n := ForLanguage("de", nil)
	// "An der Ecke wartet er."
	toks := sentence(
		Token{Text: "An", Lemma: "an", POS: "ADP", Head: 3},
		Token{Text: "der", Lemma: "der", POS: "DET", Head: 2},
		Token{Text: "Ecke", Lemma: "Ecke", POS: Noun, Head: 0},
		Token{Text: "wartet", Lemma: "warten", POS: Verb, Head: 3},
		Token{Text: "er", Lemma: "er", POS: "PRON", Head: 3},
		Token{Text: ".", Lemma: ".", POS: "PUNCT", Head: 3},
	)

	assert.Equal(t, []string{"Ecke", "warten"}, n.Normalize(toks).Sorted())
}

func TestNormalize_ParticleHeadNotVerb(t *testing.T) {
	n := ForLanguage("de", nil)
	toks := sentence(
		Token{Text: "Haus", Lemma: "Haus", POS: Noun, Head: 0},
		Token{Text: "an", Lemma: "an", POS: "ADP", Head: 2},
		Token{Text: "Straße", Lemma: "Straße", POS: Noun, Head: 0},
	)

	assert.Equal(t, []string{"Haus", "Straße"}, n.Normalize(toks).Sorted())
}

func TestNormalize_RootParticleIgnored(t *testing.T) {
	n := ForLanguage("de", nil)
	toks := sentence(
		Token{Text: "Ab", Lemma: "ab", POS: "ADV", Head: 0},
	)
	assert.Equal(t, []string{"ab"}, n.Normalize(toks).Sorted())

	unknownHead := sentence(
		Token{Text: "los", Lemma: "los", POS: "ADV", Head: -1},
		Token{Text: "gehen", Lemma: "gehen", POS: Verb, Head: 1},
	)
	assert.Equal(t, []string{"gehen", "los"}, n.Normalize(unknownHead).Sorted())
}

func TestNormalize_NoParticlesForLanguage(t *testing.T) {
	n := ForLanguage("en", nil)
	toks := sentence(
		Token{Text: "come", Lemma: "come", POS: Verb, Head: 0},
		Token{Text: "an", Lemma: "an", POS: "DET", Head: 0},
	)
	assert.Equal(t, []string{"come"}, n.Normalize(toks).Sorted())
}

func TestCapitalize(t *testing.T) {
	n := NewNormalizer("de", nil, nil)
	tests := []struct {
		in, want string
	}{
		{"straße", "Straße"},
		{"ÄRZTIN", "Ärztin"},
		{"e-mail", "E-mail"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, n.Capitalize(tt.in), tt.in)
	}
}

func TestSetOperations(t *testing.T) {
	s := Set{}
	s.Add("b")
	s.Add("a")
	other := Set{"c": {}, "a": {}}
	s.Merge(other)
	assert.Equal(t, []string{"a", "b", "c"}, s.Sorted())
	s.Remove(Set{"a": {}})
	assert.Equal(t, []string{"b", "c"}, s.Sorted())
}
