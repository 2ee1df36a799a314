// Package translate defines the translation source abstraction and the
// combinators that compose several sources into one.
package translate

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultSeparator separates candidate translations inside one result.
const DefaultSeparator = ", "

// Source answers "what is the translation of this text?".
//
// ok is false when the source has no result, which is distinct from a present
// empty string. Implementations must be safe to call sequentially from one
// goroutine; they are never mutated after construction.
type Source interface {
	Translate(ctx context.Context, text string) (result string, ok bool, err error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, text string) (string, bool, error)

// Translate calls f.
func (f SourceFunc) Translate(ctx context.Context, text string) (string, bool, error) {
	return f(ctx, text)
}

// Named attaches a name to a source for error messages and cache keys.
type Named struct {
	Name string
	Source
}

// coalesce returns the first non-empty result.
type coalesce struct {
	sources []Source
}

// Coalesce returns a Source that queries sources in order and returns the
// first present, non-empty result. It reports absence when every source is
// absent or empty.
func Coalesce(sources ...Source) Source {
	return &coalesce{sources: append([]Source(nil), sources...)}
}

func (c *coalesce) Translate(ctx context.Context, text string) (string, bool, error) {
	for i, src := range c.sources {
		res, ok, err := src.Translate(ctx, text)
		if err != nil {
			return "", false, fmt.Errorf("source %s: %w", sourceName(src, i), err)
		}
		if ok && res != "" {
			return res, true, nil
		}
	}
	return "", false, nil
}

// union merges the candidates of all sources.
type union struct {
	sources []Source
	sep     string
	lang    language.Tag
}

// Append returns a Source that queries every source, lower-cases each
// present, non-empty result, splits it on DefaultSeparator and joins the
// distinct candidates with sep. Candidates keep source order, then their
// order inside each result. An empty sep means DefaultSeparator.
func Append(sep string, sources ...Source) Source {
	if sep == "" {
		sep = DefaultSeparator
	}
	return &union{
		sources: append([]Source(nil), sources...),
		sep:     sep,
		lang:    language.Und,
	}
}

func (u *union) Translate(ctx context.Context, text string) (string, bool, error) {
	lower := cases.Lower(u.lang)
	seen := make(map[string]bool)
	var candidates []string

	for i, src := range u.sources {
		res, ok, err := src.Translate(ctx, text)
		if err != nil {
			return "", false, fmt.Errorf("source %s: %w", sourceName(src, i), err)
		}
		if !ok || res == "" {
			continue
		}
		for _, c := range strings.Split(lower.String(res), DefaultSeparator) {
			if seen[c] {
				continue
			}
			seen[c] = true
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return "", false, nil
	}
	return strings.Join(candidates, u.sep), true, nil
}

func sourceName(src Source, i int) string {
	if n, ok := src.(Named); ok && n.Name != "" {
		return n.Name
	}
	if n, ok := src.(*Named); ok && n.Name != "" {
		return n.Name
	}
	return fmt.Sprintf("#%d", i)
}
