// Package preference turns free-form user input into validated preference values.
package preference

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"

	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/domain"
)

// ErrUnknownValue is returned for input that names no value of the axis.
var ErrUnknownValue = errors.New("unknown preference value")

// Raw is unparsed preference input, one string per axis.
type Raw struct {
	Length     string
	Age        string
	Rating     string
	Popularity string
	Language   string
}

// Choices lists the accepted canonical values per axis, "none" last.
var Choices = map[string][]string{
	"length":     {"short", "medium", "long", "none"},
	"age":        {"new", "older", "retro", "none"},
	"rating":     {"excellent", "good", "average", "bad", "none"},
	"popularity": {"blockbuster", "average", "unknown", "none"},
	"language":   append(append([]string{}, domain.LanguageCodes...), domain.LanguageNone),
}

// aliases maps accepted spellings to canonical values. Empty input always means none.
var aliases = map[string]map[string]string{
	"length": {
		"s": "short", "m": "medium", "l": "long",
	},
	"age": {
		"recent": "new", "old": "older", "classic": "retro",
	},
	"rating": {
		"high": "excellent", "top": "excellent", "ok": "average", "low": "bad", "poor": "bad",
	},
	"popularity": {
		"popular": "blockbuster", "hit": "blockbuster", "niche": "unknown", "obscure": "unknown",
	},
	"language": {
		"english": "en", "french": "fr", "german": "de", "spanish": "es", "italian": "it",
		"japanese": "ja", "korean": "ko", "chinese": "zh", "russian": "ru", "portuguese": "pt",
		"hindi": "hi", "swedish": "sv", "slovak": "sk", "czech": "cs",
	},
}

var noneWords = map[string]bool{"": true, "none": true, "any": true, "-": true, "no": true}

func canonical(axis, input string) (string, error) {
	v := cases.Fold().String(strings.TrimSpace(input))
	if noneWords[v] {
		return "none", nil
	}
	for _, c := range Choices[axis] {
		if c == v {
			return c, nil
		}
	}
	if a, ok := aliases[axis][v]; ok {
		return a, nil
	}
	return "none", errors.Wrapf(ErrUnknownValue, "%s %q (want one of %s)", axis, input, strings.Join(Choices[axis], ", "))
}

func ParseLength(s string) (domain.Length, error) {
	v, err := canonical("length", s)
	return domain.Length(v), err
}

func ParseAge(s string) (domain.Age, error) {
	v, err := canonical("age", s)
	return domain.Age(v), err
}

func ParseRating(s string) (domain.Rating, error) {
	v, err := canonical("rating", s)
	return domain.Rating(v), err
}

func ParsePopularity(s string) (domain.Popularity, error) {
	v, err := canonical("popularity", s)
	return domain.Popularity(v), err
}

func ParseLanguage(s string) (string, error) {
	return canonical("language", s)
}

// Parse converts every axis of r. Axes that fail are set to none and reported
// together in err; the returned preferences are always usable.
func Parse(r Raw) (p domain.Preferences, err error) {
	var bad []string
	check := func(axis, input string) string {
		v, e := canonical(axis, input)
		if e != nil {
			bad = append(bad, axis+"="+strconv.Quote(input))
		}
		return v
	}

	p.Length = domain.Length(check("length", r.Length))
	p.Age = domain.Age(check("age", r.Age))
	p.Rating = domain.Rating(check("rating", r.Rating))
	p.Popularity = domain.Popularity(check("popularity", r.Popularity))
	p.Language = check("language", r.Language)

	if len(bad) > 0 {
		err = errors.Wrap(ErrUnknownValue, strings.Join(bad, ", "))
	}
	return p, err
}
