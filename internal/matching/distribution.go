package matching

import (
	"math"
	"sort"

	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/domain"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/fuzzy"
)

// Distribution summarises one attribute over the current item collection.
type Distribution struct {
	N   int
	Min float64
	Max float64
	Q33 float64
	Q66 float64
}

// Analyze computes min, max and the 33rd/66th percentiles of values.
// Percentiles interpolate linearly between closest ranks.
func Analyze(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return Distribution{
		N:   len(sorted),
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		Q33: quantile(sorted, 0.33),
		Q66: quantile(sorted, 0.66),
	}
}

func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Constant reports whether every value was the same.
func (d Distribution) Constant() bool {
	return d.Max == d.Min
}

// PopularitySets are the data-driven fuzzy sets of the popularity axis.
type PopularitySets struct {
	Unknown     fuzzy.Func
	Average     fuzzy.Func
	Blockbuster fuzzy.Func
}

// PopularitySets derives the unknown/average/blockbuster sets from d. A constant
// attribute cannot be split, so everything is "average".
func (d Distribution) PopularitySets() PopularitySets {
	if d.Constant() {
		return PopularitySets{
			Unknown:     fuzzy.Const(0),
			Average:     fuzzy.Const(1),
			Blockbuster: fuzzy.Const(0),
		}
	}
	return PopularitySets{
		Unknown:     fuzzy.Trap{A: d.Min - 1, B: d.Min, C: d.Q33, D: d.Q66}.Degree,
		Average:     fuzzy.Trap{A: 0.8 * d.Q33, B: d.Q33, C: d.Q66, D: 1.2 * d.Q66}.Degree,
		Blockbuster: fuzzy.Trap{A: d.Q66, B: 1.05 * d.Q66, C: d.Max, D: 1.05 * d.Max}.Degree,
	}
}

// Set returns the popularity set selected by name, or nil for "none".
func (s PopularitySets) Set(p domain.Popularity) fuzzy.Func {
	switch p {
	case domain.PopularityUnknown:
		return s.Unknown
	case domain.PopularityAverage:
		return s.Average
	case domain.PopularityBlockbuster:
		return s.Blockbuster
	default:
		return nil
	}
}
