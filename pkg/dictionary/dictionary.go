// Package dictionary provides offline dictionaries usable as translation
// sources: dict.cc style tab separated word lists and jmdict-simplified JSON.
package dictionary

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Defaults applied to zero Options fields.
const (
	DefaultLimit     = 1
	DefaultSeparator = ", "
)

// Options configure how lookups are rendered.
type Options struct {
	// Limit is the number of candidate translations joined per lookup.
	Limit int
	// Separator joins candidate translations.
	Separator string
}

func (o Options) withDefaults() Options {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Separator == "" {
		o.Separator = DefaultSeparator
	}
	return o
}

// Dictionary is an offline dictionary loaded into memory.
type Dictionary interface {
	Translate(ctx context.Context, word string) (string, bool, error)
	TranslateN(word string, limit int) (string, bool)
	Len() int
}

// Load opens path and parses it with the loader matching its extension:
// ".json" (optionally ".json.gz") is read as jmdict-simplified, anything else
// as a tab separated word list.
func Load(ctx context.Context, path string, opts Options) (Dictionary, error) {
	name := strings.TrimSuffix(strings.ToLower(path), ".gz")
	if filepath.Ext(name) == ".json" {
		return LoadJMdict(ctx, path, opts)
	}
	return LoadTabular(ctx, path, opts)
}

// open returns a reader for path, transparently decompressing ".gz" files.
func open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	return &gzipFile{Reader: gz, f: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	gzErr := g.Reader.Close()
	if err := g.f.Close(); err != nil {
		return err
	}
	return gzErr
}
