package glossary

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NormalizeName returns the canonical stored form of a word name: trimmed and
// lower-cased. Every lookup by name goes through this.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DisplayName title-cases a stored name for presentation only.
func DisplayName(name string) string {
	return cases.Title(language.Spanish).String(name)
}

// SortWords orders words alphabetically (Spanish collation) and each word's
// signs newest-first. The slice is sorted in place.
func SortWords(words []*Word) {
	col := collate.New(language.Spanish)
	sort.SliceStable(words, func(i, j int) bool {
		return col.CompareString(words[i].Name, words[j].Name) < 0
	})
	for _, w := range words {
		SortSigns(w.Signs)
	}
}

// SortSigns orders signs by creation time, newest first.
func SortSigns(signs []Sign) {
	sort.SliceStable(signs, func(i, j int) bool {
		return signs[i].CreatedAt.After(signs[j].CreatedAt)
	})
}
