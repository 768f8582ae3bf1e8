package matching

import (
	"testing"

	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/domain"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/fuzzy"
)

func TestShippedSetsAreValid(t *testing.T) {
	check := func(name string, tr fuzzy.Trap) {
		t.Helper()
		if err := tr.Validate(); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
	for k, tr := range LengthSets {
		check("length/"+string(k), tr)
	}
	for k, tr := range AgeSets {
		check("age/"+string(k), tr)
	}
	for k, tr := range RatingSets {
		check("rating/"+string(k), tr)
	}
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights: %v", err)
	}
}

func TestNormalizePreferences(t *testing.T) {
	p := NormalizePreferences(domain.Preferences{
		Length:     " SHORT ",
		Age:        "ancient",
		Rating:     "Excellent",
		Popularity: "viral",
		Language:   "EN",
		Text:       "  space  ",
	}, 2025)

	if p.Length != domain.LengthShort {
		t.Fatalf("length=%q", p.Length)
	}
	if p.Age != domain.AgeNone {
		t.Fatalf("unknown age must become none, got %q", p.Age)
	}
	if p.Rating != domain.RatingExcellent {
		t.Fatalf("rating=%q", p.Rating)
	}
	if p.Popularity != domain.PopularityNone {
		t.Fatalf("unknown popularity must become none, got %q", p.Popularity)
	}
	if p.Language != "en" {
		t.Fatalf("language=%q", p.Language)
	}
	if p.Text != "space" {
		t.Fatalf("text=%q", p.Text)
	}
	if p.TopN != DefaultTopN || p.CurrentYear != 2025 {
		t.Fatalf("defaults: top_n=%d year=%d", p.TopN, p.CurrentYear)
	}

	again := NormalizePreferences(p, 1999)
	if again != p {
		t.Fatalf("normalize is not idempotent: %+v vs %+v", again, p)
	}
}

func TestLanguageMatch(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		spoken   string
		original string
		want     bool
	}{
		{"spoken list", "fr", "en, fr", "en", true},
		{"original only", "ja", "", "ja", true},
		{"case folded", "de", "EN, DE", "", true},
		{"absent", "ko", "en, fr", "en", false},
		{"substring of a word", "en", "French", "", true},
		{"none disables", domain.LanguageNone, "none", "none", false},
		{"empty code", "", "en", "en", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LanguageMatch(tt.code, tt.spoken, tt.original); got != tt.want {
				t.Fatalf("LanguageMatch(%q,%q,%q)=%v want=%v", tt.code, tt.spoken, tt.original, got, tt.want)
			}
		})
	}
}

func TestEligible(t *testing.T) {
	full := movie("m", 100, 2020, 7, 500, 10)

	noVotes := full
	noVotes.VoteCount = nil

	noRuntime := full
	noRuntime.Runtime = nil

	none := allNone()
	rated := allNone()
	rated.Rating = domain.RatingGood

	if !eligible(full, none) || !eligible(full, rated) {
		t.Fatal("complete item must be eligible")
	}
	if eligible(noRuntime, none) {
		t.Fatal("missing runtime must be dropped")
	}
	if !eligible(noVotes, none) {
		t.Fatal("vote count is only needed when rating is active")
	}
	if eligible(noVotes, rated) {
		t.Fatal("missing vote count must be dropped when rating is active")
	}
}

func TestSoftThresholds(t *testing.T) {
	p := allNone()
	p.Age = domain.AgeNew
	p.Rating = domain.RatingExcellent
	sets := Analyze([]float64{1}).PopularitySets()

	hard := newEvaluator(p, sets, false)
	soft := newEvaluator(p, sets, true)

	// five years old sits on the new set's falling edge and the sigmoid midpoint
	if got := hard.age(5); got < 0.33 || got > 0.34 {
		t.Fatalf("hard age(5)=%v", got)
	}
	if got := soft.age(5); got != 0.5 {
		t.Fatalf("soft age(5)=%v want=0.5", got)
	}
	if got := hard.rating(7); got != 0 {
		t.Fatalf("hard rating(7)=%v want=0", got)
	}
	if got := soft.rating(7); got != 0.5 {
		t.Fatalf("soft rating(7)=%v want=0.5", got)
	}
}
