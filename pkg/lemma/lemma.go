// Package lemma turns tokens produced by an NLP engine into dictionary lookup
// keys.
package lemma

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Universal part-of-speech tags the normalizer cares about.
const (
	Noun      = "NOUN"
	Verb      = "VERB"
	Adjective = "ADJ"
	Adverb    = "ADV"
)

// DefaultPOS is the part-of-speech filter used when none is configured.
var DefaultPOS = []string{Noun, Verb, Adjective, Adverb}

// Token is a single analyzed word of one sentence.
type Token struct {
	Index int    // position in the sentence
	Text  string // surface form as it appears
	Lemma string // dictionary form reported by the engine
	POS   string // universal part-of-speech tag
	// Head is the Index of the syntactic head. The sentence root points to
	// itself; -1 means the engine did not report a head.
	Head int
}

// IsRoot reports whether the token has no head within its sentence.
func (t Token) IsRoot(sentenceLen int) bool {
	return t.Head == t.Index || t.Head < 0 || t.Head >= sentenceLen
}

// Set is an unordered collection of unique lemmas.
type Set map[string]struct{}

// Add inserts l into the set.
func (s Set) Add(l string) { s[l] = struct{}{} }

// Has reports whether l is in the set.
func (s Set) Has(l string) bool {
	_, ok := s[l]
	return ok
}

// Merge adds every lemma of other to s.
func (s Set) Merge(other Set) {
	for l := range other {
		s[l] = struct{}{}
	}
}

// Remove deletes every lemma of other from s.
func (s Set) Remove(other Set) {
	for l := range other {
		delete(s, l)
	}
}

// Sorted returns the lemmas in byte-wise lexicographic order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// Normalizer converts token streams into lemma sets.
type Normalizer struct {
	include   map[string]bool
	particles map[string]bool
	lang      language.Tag
}

// NewNormalizer creates a Normalizer for the given source language.
// pos is the part-of-speech filter (DefaultPOS when empty) and particles is
// the closed list of separable verb particles (may be empty), matched
// against the surface text exactly.
func NewNormalizer(lang string, pos []string, particles []string) *Normalizer {
	if len(pos) == 0 {
		pos = DefaultPOS
	}
	n := &Normalizer{
		include:   make(map[string]bool, len(pos)),
		particles: make(map[string]bool, len(particles)),
		lang:      language.Make(lang),
	}
	for _, p := range pos {
		n.include[strings.ToUpper(strings.TrimSpace(p))] = true
	}
	for _, p := range particles {
		n.particles[p] = true
	}
	return n
}

// ForLanguage returns a Normalizer with the particle list known for lang.
func ForLanguage(lang string, pos []string) *Normalizer {
	return NewNormalizer(lang, pos, Particles(lang))
}

// Normalize extracts the lemmas of one sentence.
//
// A particle whose head is a verb is fused with it ("an" + "kommen" becomes
// "ankommen") and both parts are dropped from the result. The removal is by
// value, so an unrelated token with the same lemma is dropped as well.
func (n *Normalizer) Normalize(tokens []Token) Set {
	lemmas := make(Set)
	parts := make(Set)
	lower := cases.Lower(n.lang)

	for _, tok := range tokens {
		if n.include[tok.POS] && startsWithLetter(tok.Text) {
			if tok.POS == Noun {
				lemmas.Add(n.Capitalize(tok.Lemma))
			} else {
				lemmas.Add(lower.String(tok.Lemma))
			}
		}

		// exact surface match; a capitalized "An" is a preposition
		if !n.particles[tok.Text] || tok.IsRoot(len(tokens)) {
			continue
		}
		head := tokens[tok.Head]
		if head.POS != Verb {
			continue
		}
		prefix := lower.String(tok.Lemma)
		verb := lower.String(head.Lemma)
		parts.Add(prefix)
		parts.Add(verb)
		lemmas.Add(prefix + verb)
	}

	lemmas.Remove(parts)
	return lemmas
}

// Capitalize lower-cases s and upper-cases its first letter.
func (n *Normalizer) Capitalize(s string) string {
	s = cases.Lower(n.lang).String(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToTitle(r)) + s[size:]
}

func startsWithLetter(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && unicode.IsLetter(r)
}
