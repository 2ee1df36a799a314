package dictionary

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// JMdictEntry matches the structure of jmdict-simplified entries.
type JMdictEntry struct {
	ID    string          `json:"id"`
	Kanji []JMdictElement `json:"kanji"`
	Kana  []JMdictElement `json:"kana"`
	Sense []JMdictSense   `json:"sense"`
}

type JMdictElement struct {
	Text   string   `json:"text"`
	Common bool     `json:"common"`
	Tags   []string `json:"tags"`
}

type JMdictSense struct {
	PartOfSpeech []string      `json:"partOfSpeech"`
	Gloss        []JMdictGloss `json:"gloss"`
}

type JMdictGloss struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

// Glosses flattens the glosses of all senses in order.
func (e JMdictEntry) Glosses() []string {
	var out []string
	for _, s := range e.Sense {
		for _, g := range s.Gloss {
			out = append(out, g.Text)
		}
	}
	return out
}

// JMdict is a Japanese dictionary indexed by kanji and kana spellings.
type JMdict struct {
	opts  Options
	index map[string][]JMdictEntry
}

// LoadJMdict reads a jmdict-simplified JSON file, either the release object
// {"words": [...]} or a bare array of entries.
func LoadJMdict(ctx context.Context, path string, opts Options) (*JMdict, error) {
	r, err := open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := decodeJMdict(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return NewJMdict(entries, opts), nil
}

func decodeJMdict(data []byte) ([]JMdictEntry, error) {
	var wrapper struct {
		Words []JMdictEntry `json:"words"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && len(wrapper.Words) > 0 {
		return wrapper.Words, nil
	}
	var entries []JMdictEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary as object or array: %w", err)
	}
	return entries, nil
}

// NewJMdict indexes entries by every kanji and kana spelling.
func NewJMdict(entries []JMdictEntry, opts Options) *JMdict {
	d := &JMdict{
		opts:  opts.withDefaults(),
		index: make(map[string][]JMdictEntry),
	}
	for _, e := range entries {
		seen := make(map[string]bool)
		add := func(key string) {
			if key == "" || seen[key] {
				return
			}
			seen[key] = true
			d.index[key] = append(d.index[key], e)
		}
		for _, k := range e.Kanji {
			add(k.Text)
		}
		for _, k := range e.Kana {
			add(ToHiragana(k.Text))
		}
	}
	return d
}

// Len returns the number of indexed spellings.
func (d *JMdict) Len() int { return len(d.index) }

// Lookup returns the entries matching word, ordered by entry id.
func (d *JMdict) Lookup(word string) []JMdictEntry {
	found := make(map[string]JMdictEntry)
	for _, key := range []string{word, ToHiragana(word)} {
		for _, e := range d.index[key] {
			found[e.ID] = e
		}
	}
	out := make([]JMdictEntry, 0, len(found))
	for _, e := range found {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b JMdictEntry) int { return compareIDs(a.ID, b.ID) })
	return out
}

// compareIDs orders numeric ids by value and anything else as text after
// the numeric ones.
func compareIDs(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}

// TranslateN joins up to limit glosses of the best matching entry.
func (d *JMdict) TranslateN(word string, limit int) (string, bool) {
	if limit <= 0 {
		limit = d.opts.Limit
	}
	matches := d.Lookup(word)
	if len(matches) == 0 {
		return "", false
	}
	glosses := matches[0].Glosses()
	if len(glosses) > limit {
		glosses = glosses[:limit]
	}
	return strings.Join(glosses, d.opts.Separator), true
}

// Translate looks word up with the dictionary default limit.
func (d *JMdict) Translate(_ context.Context, word string) (string, bool, error) {
	s, ok := d.TranslateN(word, 0)
	return s, ok, nil
}

// ToHiragana converts Katakana to Hiragana.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
