package domain

import "strings"

// Item is one catalog row. Numeric attributes are nullable; an item missing a
// required attribute cannot be scored and is dropped before ranking.
type Item struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Runtime          *float64 `json:"runtime"`
	ReleaseYear      *int     `json:"release_year"`
	VoteAverage      *float64 `json:"vote_average"`
	VoteCount        *int     `json:"vote_count"`
	Popularity       *float64 `json:"popularity"`
	SpokenLanguages  string   `json:"spoken_languages"`
	OriginalLanguage string   `json:"original_language"`
	Adult            *bool    `json:"adult"`
}

// HasCoreAttributes reports whether runtime, rating, popularity and release year are all present.
func (it Item) HasCoreAttributes() bool {
	return it.Runtime != nil && it.VoteAverage != nil && it.Popularity != nil && it.ReleaseYear != nil
}

// IsAdult treats a missing flag as false.
func (it Item) IsAdult() bool {
	return it.Adult != nil && *it.Adult
}

type Length string

const (
	LengthNone   Length = "none"
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

type Age string

const (
	AgeNone  Age = "none"
	AgeNew   Age = "new"
	AgeOlder Age = "older"
	AgeRetro Age = "retro"
)

type Rating string

const (
	RatingNone      Rating = "none"
	RatingExcellent Rating = "excellent"
	RatingGood      Rating = "good"
	RatingAverage   Rating = "average"
	RatingBad       Rating = "bad"
)

type Popularity string

const (
	PopularityNone        Popularity = "none"
	PopularityBlockbuster Popularity = "blockbuster"
	PopularityAverage     Popularity = "average"
	PopularityUnknown     Popularity = "unknown"
)

// LanguageNone disables the language axis. Any other value must be one of LanguageCodes.
const LanguageNone = "none"

// LanguageCodes is the fixed set of language codes a caller may ask for.
var LanguageCodes = []string{"en", "fr", "de", "es", "it", "ja", "ko", "zh", "ru", "pt", "hi", "sv", "sk", "cs"}

// IsLanguageCode reports whether code is one of LanguageCodes.
func IsLanguageCode(code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, c := range LanguageCodes {
		if c == code {
			return true
		}
	}
	return false
}

// Preferences is one query against the catalog.
type Preferences struct {
	Length       Length     `json:"length"`
	Age          Age        `json:"age"`
	Rating       Rating     `json:"rating"`
	Popularity   Popularity `json:"popularity"`
	Language     string     `json:"language"`
	Text         string     `json:"text,omitempty"`
	IncludeAdult bool       `json:"include_adult"`
	TopN         int        `json:"top_n"`
	CurrentYear  int        `json:"current_year"`
	Verbose      bool       `json:"-"`
}

// Memberships holds the membership of one item for the preferred set of each axis,
// plus the three popularity sets for diagnostics.
type Memberships struct {
	Length     float64 `json:"mu_len_pref"`
	Age        float64 `json:"mu_age_pref"`
	Rating     float64 `json:"mu_rating_pref"`
	Popularity float64 `json:"mu_pop_pref"`
	Language   float64 `json:"mu_lang_pref"`

	PopularityUnknown     float64 `json:"mu_pop_unknown"`
	PopularityAverage     float64 `json:"mu_pop_average"`
	PopularityBlockbuster float64 `json:"mu_pop_blockbuster"`
}

// RankedItem is one row of a ranking result.
type RankedItem struct {
	Item        Item        `json:"item"`
	Memberships Memberships `json:"memberships"`
	BaseScore   float64     `json:"base_score"`
	TextScore   *float64    `json:"mu_text,omitempty"`
	FuzzyScore  float64     `json:"fuzzy_score"`
}
