// Package nlp provides the tokenizers that feed the lemma normalizer: an HTTP
// client for a spaCy parse service and an in-process Japanese analyzer.
package nlp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/japaniel/vocabbuilder/pkg/lemma"
)

// Engine splits one sentence into tagged tokens. Token heads index into the
// returned slice.
type Engine interface {
	Tokenize(ctx context.Context, sentence string) ([]lemma.Token, error)
}

const (
	EngineSpacy  = "spacy"
	EngineKagome = "kagome"
)

// Options selects and configures an engine.
type Options struct {
	Engine string
	URL    string
	Model  string
}

// New builds the engine named by opts.Engine.
func New(opts Options, logger *slog.Logger) (Engine, error) {
	switch strings.ToLower(opts.Engine) {
	case "", EngineSpacy:
		return NewSpacyClient(opts.URL, opts.Model, logger), nil
	case EngineKagome:
		return NewKagome()
	default:
		return nil, fmt.Errorf("unknown nlp engine %q", opts.Engine)
	}
}
