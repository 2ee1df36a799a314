package dictionary

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// maxLineSize bounds a single dictionary line.
const maxLineSize = 1 << 20

var (
	reBracket = regexp.MustCompile(`\[[^\]]+\]`)
	reGender  = regexp.MustCompile(`\{([fmnpl]{1,2})\}`)
	reSpaces  = regexp.MustCompile(`\s+`)
)

// Entry is one sense of a tabular dictionary line.
type Entry struct {
	Word        string
	Translation string
	POS         string
	Gender      string // m, f, n, pl or a two letter combination; empty if unknown
	Tags        string
}

// Tabular is a word list of "word<TAB>translation<TAB>pos[<TAB>tags]" lines,
// as distributed by dict.cc. Entries keep file order, which is the order of
// preference.
type Tabular struct {
	opts    Options
	index   map[string][]Entry
	entries int
}

// LoadTabular reads a tabular dictionary file. Files ending in ".gz" are
// decompressed on the fly.
func LoadTabular(ctx context.Context, path string, opts Options) (*Tabular, error) {
	r, err := open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	d, err := ParseTabular(ctx, r, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return d, nil
}

// ParseTabular builds a dictionary from r. Lines with fewer than three tab
// separated fields are skipped.
func ParseTabular(ctx context.Context, r io.Reader, opts Options) (*Tabular, error) {
	d := &Tabular{
		opts:  opts.withDefaults(),
		index: make(map[string][]Entry),
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		line := sc.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		e, ok := ParseLine(line)
		if !ok {
			continue
		}
		d.index[e.Word] = append(d.index[e.Word], e)
		d.entries++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
	}
	return d, nil
}

// ParseLine parses a single dictionary line. It reports false for lines that
// do not carry at least word, translation and part of speech.
func ParseLine(line string) (Entry, bool) {
	parts := strings.Split(line, "\t")
	if len(parts) < 3 {
		return Entry{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	e := Entry{
		Word:        clean(parts[0]),
		Translation: clean(parts[1]),
		POS:         parts[2],
	}
	if len(parts) > 3 {
		e.Tags = parts[3]
	}
	if e.POS == "noun" {
		e.Word, e.Gender = extractGender(e.Word)
	}
	e.Word = norm.NFC.String(e.Word)
	return e, true
}

// clean drops bracketed glosses such as "[eines Richtfests]".
func clean(s string) string {
	s = reBracket.ReplaceAllString(s, "")
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

// extractGender removes every "{m}", "{f}", "{n}", "{pl}" marker from word and
// returns the first one found.
func extractGender(word string) (string, string) {
	m := reGender.FindStringSubmatch(word)
	if m == nil {
		return word, ""
	}
	word = reGender.ReplaceAllString(word, "")
	return strings.TrimSpace(reSpaces.ReplaceAllString(word, " ")), m[1]
}

// Len returns the number of distinct headwords.
func (d *Tabular) Len() int { return len(d.index) }

// Entries returns the number of parsed entries.
func (d *Tabular) Entries() int { return d.entries }

// Lookup returns all entries for word in preference order.
func (d *Tabular) Lookup(word string) []Entry {
	return d.index[norm.NFC.String(word)]
}

// TranslateN joins the translations of the first limit entries for word. The
// gender of the first entry, if any, is prepended. A limit <= 0 uses the
// dictionary default.
func (d *Tabular) TranslateN(word string, limit int) (string, bool) {
	if limit <= 0 {
		limit = d.opts.Limit
	}
	entries := d.Lookup(word)
	if len(entries) == 0 {
		return "", false
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	translations := make([]string, len(entries))
	for i, e := range entries {
		translations[i] = e.Translation
	}
	joined := strings.Join(translations, d.opts.Separator)
	if g := entries[0].Gender; g != "" {
		return g + " " + joined, true
	}
	return joined, true
}

// Translate looks word up with the dictionary default limit.
func (d *Tabular) Translate(_ context.Context, word string) (string, bool, error) {
	s, ok := d.TranslateN(word, 0)
	return s, ok, nil
}
