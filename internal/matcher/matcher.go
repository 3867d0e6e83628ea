// Package matcher turns a free-text query into an ordered list of found and
// missing words against a repository snapshot.
package matcher

import (
	"strings"

	"github.com/glosario-lsc/glosario/internal/glossary"
)

// Kind tells whether a token matched a word.
type Kind int

const (
	Found Kind = iota
	Missing
)

func (k Kind) String() string {
	if k == Found {
		return "found"
	}
	return "missing"
}

// Item is the result for one query token. Word is set for Found items; Token
// is always the lower-cased token.
type Item struct {
	Kind  Kind
	Token string
	Word  *glossary.Word
}

// Result is the outcome of matching a query. When Active is false the query
// was blank and the caller should show the full listing instead.
type Result struct {
	Active            bool
	Items             []Item
	HasFoundAny       bool
	HasMissingAny     bool
	IsMultiWordPhrase bool
}

// Tokenize splits a query on whitespace runs and lower-cases each term.
func Tokenize(query string) []string {
	fields := strings.Fields(query)
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}
	return fields
}

// Match maps each token of query, in input order, to Found(word) or
// Missing(token). Repeated tokens are emitted repeatedly. Words must have
// unique lower-cased names; on a violation the later word wins.
func Match(query string, words []*glossary.Word) Result {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return Result{}
	}

	lookup := make(map[string]*glossary.Word, len(words))
	for _, w := range words {
		lookup[strings.ToLower(w.Name)] = w
	}

	res := Result{
		Active:            true,
		Items:             make([]Item, 0, len(tokens)),
		IsMultiWordPhrase: len(tokens) > 1,
	}
	for _, tok := range tokens {
		if w, ok := lookup[tok]; ok {
			res.Items = append(res.Items, Item{Kind: Found, Token: tok, Word: w})
			res.HasFoundAny = true
			continue
		}
		res.Items = append(res.Items, Item{Kind: Missing, Token: tok})
		res.HasMissingAny = true
	}
	return res
}

// Found returns the matched words in query order, repeats included.
func (r Result) Found() []*glossary.Word {
	var out []*glossary.Word
	for _, it := range r.Items {
		if it.Kind == Found {
			out = append(out, it.Word)
		}
	}
	return out
}

// MissingTokens returns the unmatched tokens in query order. Each one is a
// ready-made name for the add-word flow.
func (r Result) MissingTokens() []string {
	var out []string
	for _, it := range r.Items {
		if it.Kind == Missing {
			out = append(out, it.Token)
		}
	}
	return out
}
