package matching

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// AxisWeight is the raw importance of one axis when its preference is set (Active)
// and when it is "none" (Inactive).
type AxisWeight struct {
	Active   float64 `json:"active"`
	Inactive float64 `json:"inactive"`
}

// Weights defines raw coefficients for each additive axis. They are normalized per query.
type Weights struct {
	Length     AxisWeight `json:"length"`
	Age        AxisWeight `json:"age"`
	Rating     AxisWeight `json:"rating"`
	Popularity AxisWeight `json:"popularity"`
	Language   AxisWeight `json:"language"`
}

// DefaultWeights returns the shipped raw weights. Language has no baseline: an unused
// language axis contributes nothing.
func DefaultWeights() Weights {
	return Weights{
		Length:     AxisWeight{Active: 0.20, Inactive: 0.05},
		Age:        AxisWeight{Active: 0.20, Inactive: 0.05},
		Rating:     AxisWeight{Active: 0.25, Inactive: 0.05},
		Popularity: AxisWeight{Active: 0.15, Inactive: 0.05},
		Language:   AxisWeight{Active: 0.15, Inactive: 0.0},
	}
}

// Validate rejects negative raw weights.
func (w Weights) Validate() error {
	for axis, aw := range w.byAxis() {
		if aw.Active < 0 || aw.Inactive < 0 {
			return fmt.Errorf("%s weight must be non-negative: %+v", Axis(axis), aw)
		}
	}
	return nil
}

func (w Weights) byAxis() [axisCount]AxisWeight {
	return [axisCount]AxisWeight{
		AxisLength:     w.Length,
		AxisAge:        w.Age,
		AxisRating:     w.Rating,
		AxisPopularity: w.Popularity,
		AxisLanguage:   w.Language,
	}
}

// LoadWeightsFromFile loads weights from JSON file. Axes missing from the file keep their defaults.
func LoadWeightsFromFile(path string) (Weights, error) {
	w := DefaultWeights()
	b, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("read weights file: %w", err)
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return DefaultWeights(), fmt.Errorf("unmarshal weights: %w", err)
	}
	if err := w.Validate(); err != nil {
		return DefaultWeights(), fmt.Errorf("validate weights: %w", err)
	}
	return w, nil
}
