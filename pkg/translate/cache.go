package translate

import (
	"context"
	"fmt"
)

// Cache stores translation results per source. Absent results are cached too,
// so a known miss is not asked again.
type Cache interface {
	// Get reports hit == false when nothing is stored for (source, text).
	Get(ctx context.Context, source, text string) (result string, ok bool, hit bool, err error)
	Put(ctx context.Context, source, text, result string, ok bool) error
}

type cached struct {
	name  string
	src   Source
	cache Cache
}

// Cached wraps src so that results are read from and written to cache under
// the given source name.
func Cached(name string, src Source, cache Cache) Source {
	return Named{Name: name, Source: &cached{name: name, src: src, cache: cache}}
}

func (c *cached) Translate(ctx context.Context, text string) (string, bool, error) {
	res, ok, hit, err := c.cache.Get(ctx, c.name, text)
	if err != nil {
		return "", false, fmt.Errorf("cache lookup: %w", err)
	}
	if hit {
		return res, ok, nil
	}

	res, ok, err = c.src.Translate(ctx, text)
	if err != nil {
		return "", false, err
	}
	if err := c.cache.Put(ctx, c.name, text, res, ok); err != nil {
		return "", false, fmt.Errorf("cache store: %w", err)
	}
	return res, ok, nil
}
