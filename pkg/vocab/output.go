package vocab

import (
	"fmt"
	"unicode/utf8"

	"github.com/japaniel/vocabbuilder/pkg/lemma"
)

// FormatLine renders one vocabulary entry. A miss keeps the line with an
// empty translation.
func FormatLine(word, translation string) string {
	return word + ": " + translation
}

// SectionHeader is the line introducing entries starting with r.
func SectionHeader(r rune) string {
	return fmt.Sprintf("%c ---- %c ----", r, r)
}

// Section deduplicates and sorts lines and adds one header per distinct first
// character. Headers interleave with the entries by plain byte order.
func Section(lines []string) []string {
	set := make(lemma.Set, len(lines))
	headers := make(lemma.Set)
	for _, l := range lines {
		set.Add(l)
		if r, _ := utf8.DecodeRuneInString(l); r != utf8.RuneError {
			headers.Add(SectionHeader(r))
		}
	}
	set.Merge(headers)
	return set.Sorted()
}
