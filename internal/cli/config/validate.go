package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/japaniel/vocabbuilder/pkg/nlp"
	"github.com/japaniel/vocabbuilder/pkg/vocab"
)

// ErrInvalid is returned for empty or unknown configuration values.
var ErrInvalid = errors.New("invalid configuration")

var (
	logLevels  = []string{"debug", "info", "warn", "warning", "error"}
	logFormats = []string{"text", "json"}
)

// Validate checks the values a build needs. File existence is checked later
// by the build itself.
func (c *Config) Validate() error {
	if !slices.Contains(vocab.Methods, vocab.Method(c.Method)) {
		return fmt.Errorf("%w: method must be one of dictcc, argos, coalesce, append; got %q", ErrInvalid, c.Method)
	}
	if c.Number < 1 {
		return fmt.Errorf("%w: number must be at least 1, got %d", ErrInvalid, c.Number)
	}
	if strings.TrimSpace(c.From) == "" || strings.TrimSpace(c.To) == "" {
		return fmt.Errorf("%w: from and to languages are required", ErrInvalid)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalid)
	}
	switch strings.ToLower(c.NLP.Engine) {
	case nlp.EngineSpacy, nlp.EngineKagome:
	default:
		return fmt.Errorf("%w: unknown nlp engine %q", ErrInvalid, c.NLP.Engine)
	}
	return c.validateLog()
}

func (c *Config) validateLog() error {
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.Log.Level)
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// ToOptions converts the configuration into build options.
func (c *Config) ToOptions() vocab.Options {
	return vocab.Options{
		Input:            c.Input,
		Output:           c.Output,
		Exclude:          c.Exclude,
		OrganizeExcludes: c.OrganizeExcludes,
		Method:           vocab.Method(c.Method),
		Order:            c.Order,
		Dictionaries:     c.Dictionaries,
		Number:           c.Number,
		From:             c.From,
		To:               c.To,
		POS:              c.POS,
		Workers:          c.Workers,
	}
}

// NLPOptions selects the tokenizer for the source language.
func (c *Config) NLPOptions() nlp.Options {
	return nlp.Options{Engine: c.NLP.Engine, URL: c.NLP.URL, Model: c.NLP.Model}
}
