// Package document reads vocabulary input files and yields the lines worth
// tokenizing.
package document

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"
)

// MinLineLength is the shortest line, in characters, that is tokenized.
const MinLineLength = 4

// Document is the text content of an input file.
type Document struct {
	Path  string
	Title string
	Text  string
}

// Read loads path. HTML files (.html, .htm) are reduced to their article text
// with readability after ruby annotations are stripped; everything else is
// read as UTF-8 text.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return fromHTML(path, data)
	default:
		return &Document{Path: path, Text: strings.TrimPrefix(string(data), "\ufeff")}, nil
	}
}

func fromHTML(path string, data []byte) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	pageURL := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}

	article, err := readability.FromReader(bytes.NewReader(SanitizeRuby(data)), pageURL)
	if err != nil {
		return nil, fmt.Errorf("extract article from %s: %w", path, err)
	}
	return &Document{Path: path, Title: article.Title, Text: article.TextContent}, nil
}

var (
	reRT = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRP = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
)

// SanitizeRuby removes <rt> and <rp> elements so that readability does not
// glue furigana onto the base text ("漢字" becoming "漢字かんじ").
func SanitizeRuby(content []byte) []byte {
	cleaned := reRT.ReplaceAll(content, nil)
	return reRP.ReplaceAll(cleaned, nil)
}

// Lines splits text into lines and drops the ones that are not prose:
// comments starting with '#', bare http(s) links and lines shorter than
// MinLineLength characters.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if Skip(line) {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Skip reports whether a single line is dropped by Lines.
func Skip(line string) bool {
	switch {
	case strings.HasPrefix(line, "#"),
		strings.HasPrefix(line, "http://"),
		strings.HasPrefix(line, "https://"):
		return true
	}
	return utf8.RuneCountInString(line) < MinLineLength
}

// Lines returns the tokenizable lines of the document.
func (d *Document) Lines() []string {
	return Lines(d.Text)
}
