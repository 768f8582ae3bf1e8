package matching

import (
	"fmt"
	"strings"
	"unicode/utf8"

	fuzzysearch "github.com/lithammer/fuzzysearch/fuzzy"
)

// Similarity scores a candidate text against a query in [0,1]. It must be symmetric.
type Similarity func(query, candidate string) float64

// TokenOverlap is the Jaccard index of the lower-cased whitespace tokens of both texts.
func TokenOverlap(query, candidate string) float64 {
	a := tokenSet(query)
	b := tokenSet(candidate)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// EditSimilarity is one minus the Levenshtein distance over the longer text's rune length.
func EditSimilarity(query, candidate string) float64 {
	a := strings.ToLower(strings.TrimSpace(query))
	b := strings.ToLower(strings.TrimSpace(candidate))
	if a == "" || b == "" {
		return 0
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	d := fuzzysearch.LevenshteinDistance(a, b)
	return 1 - float64(d)/float64(longest)
}

// SimilarityByName resolves the names accepted on the command line and in config.
func SimilarityByName(name string) (Similarity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "token", "jaccard":
		return TokenOverlap, nil
	case "edit", "levenshtein":
		return EditSimilarity, nil
	default:
		return nil, fmt.Errorf("unknown similarity %q (want token or edit)", name)
	}
}
