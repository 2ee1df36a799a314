package vocab

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/japaniel/vocabbuilder/pkg/lemma"
)

// ReadWordSet reads a word list: one word per line, '#' lines are comments,
// surrounding whitespace is trimmed and blank lines are ignored.
func ReadWordSet(path string) (lemma.Set, error) {
	words, _, err := readWordList(path)
	return words, err
}

func readWordList(path string) (lemma.Set, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	words := make(lemma.Set)
	var comments []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "#") {
			comments = append(comments, line)
			continue
		}
		if w := strings.TrimSpace(line); w != "" {
			words.Add(w)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return words, comments, nil
}

// OrganizeWordList rewrites a word list sorted and without duplicates.
// Comment lines are kept at the top in their original order. It returns the
// words of the list.
func OrganizeWordList(path string) (lemma.Set, error) {
	words, comments, err := readWordList(path)
	if err != nil {
		return nil, err
	}
	lines := append(comments, words.Sorted()...)
	if err := WriteLines(path, lines); err != nil {
		return nil, err
	}
	return words, nil
}

// WriteLines writes each line followed by a newline, replacing path.
func WriteLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, l := range lines {
		if _, err := w.WriteString(l + "\n"); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
