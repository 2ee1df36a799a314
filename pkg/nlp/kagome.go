package nlp

import (
	"context"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/japaniel/vocabbuilder/pkg/lemma"
)

// IPA dictionary feature layout: 0 POS, 1-3 sub-POS, 4 conjugation type,
// 5 conjugation form, 6 base form, 7 reading, 8 pronunciation.
const (
	featPOS      = 0
	featBaseForm = 6
)

var ipaPOS = map[string]string{
	"名詞":  lemma.Noun,
	"動詞":  lemma.Verb,
	"形容詞": lemma.Adjective,
	"副詞":  lemma.Adverb,
	"記号":  "PUNCT",
}

// Kagome tokenizes Japanese with the IPA dictionary. Japanese has no
// dependency heads in this model, so every token is its own root.
type Kagome struct {
	t *tokenizer.Tokenizer
}

// NewKagome loads the IPA dictionary.
func NewKagome() (*Kagome, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Kagome{t: t}, nil
}

// Tokenize implements Engine.
func (k *Kagome) Tokenize(ctx context.Context, sentence string) ([]lemma.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []lemma.Token
	for _, tok := range k.t.Tokenize(sentence) {
		if tok.Class == tokenizer.DUMMY || strings.TrimSpace(tok.Surface) == "" {
			continue
		}
		features := tok.Features()

		base := tok.Surface
		if len(features) > featBaseForm && features[featBaseForm] != "*" {
			base = features[featBaseForm]
		}
		pos := "X"
		if len(features) > featPOS {
			if p, ok := ipaPOS[features[featPOS]]; ok {
				pos = p
			}
		}

		i := len(out)
		out = append(out, lemma.Token{
			Index: i,
			Text:  tok.Surface,
			Lemma: base,
			POS:   pos,
			Head:  i,
		})
	}
	return out, nil
}
