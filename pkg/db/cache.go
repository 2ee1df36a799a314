package db

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"
)

type cacheKey struct{ source, text string }

// TranslationCache is a persistent translation cache. Writes go through a
// BatchWriter; until they are committed they are answered from memory.
type TranslationCache struct {
	db     *sql.DB
	writer *BatchWriter
	log    *slog.Logger

	mu      sync.RWMutex
	pending map[cacheKey]Translation
	hits    int
	misses  int
}

// NewTranslationCache creates a cache on an initialized database.
func NewTranslationCache(conn *sql.DB, logger *slog.Logger) *TranslationCache {
	c := &TranslationCache{
		db:      conn,
		writer:  NewBatchWriter(conn, 64, time.Second),
		log:     logger.With("component", "translation-cache"),
		pending: make(map[cacheKey]Translation),
	}
	c.writer.OnError = func(err error) {
		c.log.Error("cache write failed", slog.String("error", err.Error()))
	}
	return c
}

// Get returns the cached result of source for text; hit is false when there is none.
func (c *TranslationCache) Get(ctx context.Context, source, text string) (result string, ok bool, hit bool, err error) {
	c.mu.RLock()
	t, found := c.pending[cacheKey{source, text}]
	c.mu.RUnlock()

	if !found {
		t, found, err = GetTranslation(ctx, c.db, source, text)
		if err != nil {
			return "", false, false, err
		}
	}

	c.mu.Lock()
	if found {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()

	return t.Result, t.Present, found, nil
}

// Put stores the result of source for text.
func (c *TranslationCache) Put(_ context.Context, source, text, result string, ok bool) error {
	t := Translation{Source: source, Text: text, Result: result, Present: ok, UpdatedAt: time.Now().UTC()}

	c.mu.Lock()
	c.pending[cacheKey{source, text}] = t
	c.mu.Unlock()

	return c.writer.Submit(func(ctx context.Context, tx *sql.Tx) error {
		return PutTranslation(ctx, tx, t)
	})
}

// Stats returns the number of lookups answered and not answered by the cache.
func (c *TranslationCache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Close commits all pending writes.
func (c *TranslationCache) Close() error {
	err := c.writer.Close()
	hits, misses := c.Stats()
	writes, batches := c.writer.Committed()
	c.log.Debug("translation cache closed",
		slog.Int("hits", hits),
		slog.Int("misses", misses),
		slog.Int("writes", writes),
		slog.Int("batches", batches),
	)
	return err
}
