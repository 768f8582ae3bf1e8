package matching

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/domain"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/fuzzy"
)

// MinVoteCount is the evidence needed before the rating axis vouches for an item.
const MinVoteCount = 100

// LengthSets are evaluated on runtime in minutes.
var LengthSets = map[domain.Length]fuzzy.Trap{
	domain.LengthShort:  {A: 0, B: 60, C: 90, D: 110},
	domain.LengthMedium: {A: 80, B: 100, C: 120, D: 140},
	domain.LengthLong:   {A: 120, B: 140, C: 180, D: 260},
}

// AgeSets are evaluated on current year minus release year.
var AgeSets = map[domain.Age]fuzzy.Trap{
	domain.AgeNew:   {A: -1, B: 0, C: 3, D: 6},
	domain.AgeOlder: {A: 4, B: 8, C: 15, D: 30},
	domain.AgeRetro: {A: 20, B: 30, C: 60, D: 120},
}

// RatingSets are evaluated on the 0-10 vote average.
var RatingSets = map[domain.Rating]fuzzy.Trap{
	domain.RatingExcellent: {A: 7.5, B: 8.5, C: 10, D: 11},
	domain.RatingGood:      {A: 6, B: 7, C: 8, D: 9},
	domain.RatingAverage:   {A: 4.5, B: 5.5, C: 6.5, D: 7.5},
	domain.RatingBad:       {A: -1, B: 0, C: 4.5, D: 6},
}

// Soft-threshold shapes used when Options.SoftThresholds is set.
const (
	softNewMidpoint       = 5.0
	softNewSteepness      = 1.0
	softExcellentMidpoint = 7.0
	softExcellentSteep    = 1.2
)

// NormalizePreferences maps every unrecognised or empty axis value to "none"
// and fills TopN and CurrentYear defaults.
func NormalizePreferences(p domain.Preferences, currentYear int) domain.Preferences {
	p.Length = domain.Length(strings.ToLower(strings.TrimSpace(string(p.Length))))
	if _, ok := LengthSets[p.Length]; !ok {
		p.Length = domain.LengthNone
	}
	p.Age = domain.Age(strings.ToLower(strings.TrimSpace(string(p.Age))))
	if _, ok := AgeSets[p.Age]; !ok {
		p.Age = domain.AgeNone
	}
	p.Rating = domain.Rating(strings.ToLower(strings.TrimSpace(string(p.Rating))))
	if _, ok := RatingSets[p.Rating]; !ok {
		p.Rating = domain.RatingNone
	}
	p.Popularity = domain.Popularity(strings.ToLower(strings.TrimSpace(string(p.Popularity))))
	switch p.Popularity {
	case domain.PopularityUnknown, domain.PopularityAverage, domain.PopularityBlockbuster:
	default:
		p.Popularity = domain.PopularityNone
	}
	p.Language = strings.ToLower(strings.TrimSpace(p.Language))
	if !domain.IsLanguageCode(p.Language) {
		p.Language = domain.LanguageNone
	}
	p.Text = strings.TrimSpace(p.Text)
	if p.TopN <= 0 {
		p.TopN = DefaultTopN
	}
	if p.CurrentYear == 0 {
		p.CurrentYear = currentYear
	}
	return p
}

// eligible reports whether the item carries every attribute the active axes need.
func eligible(it domain.Item, p domain.Preferences) bool {
	if !it.HasCoreAttributes() {
		return false
	}
	if p.Rating != domain.RatingNone && it.VoteCount == nil {
		return false
	}
	return true
}

// columns is the attribute table of the scored collection, one entry per item.
type columns struct {
	runtime    []float64
	age        []float64
	rating     []float64
	votes      []float64
	popularity []float64
	languages  []string
	titles     []string
}

func newColumns(items []domain.Item, currentYear int) columns {
	n := len(items)
	c := columns{
		runtime:    make([]float64, n),
		age:        make([]float64, n),
		rating:     make([]float64, n),
		votes:      make([]float64, n),
		popularity: make([]float64, n),
		languages:  make([]string, n),
		titles:     make([]string, n),
	}
	for i, it := range items {
		c.runtime[i] = *it.Runtime
		c.age[i] = float64(currentYear - *it.ReleaseYear)
		c.rating[i] = *it.VoteAverage
		if it.VoteCount != nil {
			c.votes[i] = float64(*it.VoteCount)
		}
		c.popularity[i] = *it.Popularity
		c.languages[i] = it.SpokenLanguages + " " + it.OriginalLanguage
		c.titles[i] = it.Title
	}
	return c
}

// vectors holds one membership column per axis plus the popularity diagnostics.
type vectors struct {
	length, age, rating, popularity, language []float64

	popUnknown, popAverage, popBlockbuster []float64
}

func newVectors(n int) vectors {
	return vectors{
		length:         make([]float64, n),
		age:            make([]float64, n),
		rating:         make([]float64, n),
		popularity:     make([]float64, n),
		language:       make([]float64, n),
		popUnknown:     make([]float64, n),
		popAverage:     make([]float64, n),
		popBlockbuster: make([]float64, n),
	}
}

func (v vectors) memberships(i int) domain.Memberships {
	return domain.Memberships{
		Length:                v.length[i],
		Age:                   v.age[i],
		Rating:                v.rating[i],
		Popularity:            v.popularity[i],
		Language:              v.language[i],
		PopularityUnknown:     v.popUnknown[i],
		PopularityAverage:     v.popAverage[i],
		PopularityBlockbuster: v.popBlockbuster[i],
	}
}

// evaluator selects one fuzzy set per axis. A nil set means the axis is "none"
// and its column stays all-zero.
type evaluator struct {
	length     fuzzy.Func
	age        fuzzy.Func
	rating     fuzzy.Func
	popularity fuzzy.Func
	language   string
	popSets    PopularitySets
}

func newEvaluator(p domain.Preferences, pop PopularitySets, soft bool) evaluator {
	ev := evaluator{popSets: pop, popularity: pop.Set(p.Popularity)}
	if t, ok := LengthSets[p.Length]; ok {
		ev.length = t.Degree
	}
	if t, ok := AgeSets[p.Age]; ok {
		ev.age = t.Degree
	}
	if t, ok := RatingSets[p.Rating]; ok {
		ev.rating = t.Degree
	}
	if soft {
		if p.Age == domain.AgeNew {
			ev.age = func(age float64) float64 {
				return 1 - fuzzy.Sigmoid(age, softNewMidpoint, softNewSteepness)
			}
		}
		if p.Rating == domain.RatingExcellent {
			ev.rating = func(score float64) float64 {
				return fuzzy.Sigmoid(score, softExcellentMidpoint, softExcellentSteep)
			}
		}
	}
	if p.Language != domain.LanguageNone {
		ev.language = p.Language
	}
	return ev
}

// evaluateRange fills rows [lo,hi) of out. Ranges of concurrent calls must not overlap.
func (ev evaluator) evaluateRange(c columns, out vectors, lo, hi int) {
	if ev.length != nil {
		copy(out.length[lo:hi], fuzzy.Apply(c.runtime[lo:hi], ev.length))
	}
	if ev.age != nil {
		copy(out.age[lo:hi], fuzzy.Apply(c.age[lo:hi], ev.age))
	}
	if ev.rating != nil {
		copy(out.rating[lo:hi], fuzzy.Apply(c.rating[lo:hi], ev.rating))
		for i := lo; i < hi; i++ {
			if c.votes[i] < MinVoteCount {
				out.rating[i] = 0
			}
		}
	}

	pop := c.popularity[lo:hi]
	copy(out.popUnknown[lo:hi], fuzzy.Apply(pop, ev.popSets.Unknown))
	copy(out.popAverage[lo:hi], fuzzy.Apply(pop, ev.popSets.Average))
	copy(out.popBlockbuster[lo:hi], fuzzy.Apply(pop, ev.popSets.Blockbuster))
	if ev.popularity != nil {
		copy(out.popularity[lo:hi], fuzzy.Apply(pop, ev.popularity))
	}

	if ev.language != "" {
		fold := cases.Fold()
		for i := lo; i < hi; i++ {
			if containsFold(fold, c.languages[i], ev.language) {
				out.language[i] = 1
			}
		}
	}
}

// LanguageMatch reports whether code occurs, case-insensitively, in the spoken or
// original language fields of an item.
func LanguageMatch(code, spoken, original string) bool {
	if code == "" || code == domain.LanguageNone {
		return false
	}
	return containsFold(cases.Fold(), spoken+" "+original, code)
}

// containsFold is not safe for concurrent use of the same Caser.
func containsFold(fold cases.Caser, hay, needle string) bool {
	return strings.Contains(fold.String(hay), fold.String(needle))
}
