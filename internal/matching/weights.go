package matching

import "github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/domain"

// Axis identifies one additive scoring criterion. Text is not an axis here: it
// modulates the additive score instead of taking a weight share.
type Axis int

const (
	AxisLength Axis = iota
	AxisAge
	AxisRating
	AxisPopularity
	AxisLanguage

	axisCount = 5
)

func (a Axis) String() string {
	switch a {
	case AxisLength:
		return "length"
	case AxisAge:
		return "age"
	case AxisRating:
		return "rating"
	case AxisPopularity:
		return "popularity"
	case AxisLanguage:
		return "language"
	default:
		return "unknown"
	}
}

// WeightVector holds one weight per axis, indexed by Axis.
type WeightVector [axisCount]float64

// Sum returns the total of all weights.
func (v WeightVector) Sum() float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

// Normalize returns a copy scaled to sum to 1. An all-zero vector becomes uniform.
func (v WeightVector) Normalize() WeightVector {
	sum := v.Sum()
	var out WeightVector
	if sum == 0 {
		for i := range out {
			out[i] = 1.0 / axisCount
		}
		return out
	}
	for i, x := range v {
		out[i] = x / sum
	}
	return out
}

// Raw picks the active or inactive weight of every axis from normalized preferences.
func (w Weights) Raw(p domain.Preferences) WeightVector {
	active := [axisCount]bool{
		AxisLength:     p.Length != domain.LengthNone,
		AxisAge:        p.Age != domain.AgeNone,
		AxisRating:     p.Rating != domain.RatingNone,
		AxisPopularity: p.Popularity != domain.PopularityNone,
		AxisLanguage:   p.Language != domain.LanguageNone,
	}
	var out WeightVector
	for axis, aw := range w.byAxis() {
		if active[axis] {
			out[axis] = aw.Active
		} else {
			out[axis] = aw.Inactive
		}
	}
	return out
}

// Resolve returns the normalized weight vector for normalized preferences.
func (w Weights) Resolve(p domain.Preferences) WeightVector {
	return w.Raw(p).Normalize()
}
