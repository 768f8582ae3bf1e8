package matching

import (
	"math"
	"testing"
)

func TestTokenOverlap(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"space odyssey", "2001: A Space Odyssey", 2.0 / 4.0},
		{"Alien", "alien", 1},
		{"alien", "heat", 0},
		{"", "heat", 0},
		{"the the matrix", "matrix", 0.5},
	}
	for _, tt := range tests {
		if got := TokenOverlap(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("TokenOverlap(%q,%q)=%v want=%v", tt.a, tt.b, got, tt.want)
		}
		if TokenOverlap(tt.a, tt.b) != TokenOverlap(tt.b, tt.a) {
			t.Fatalf("TokenOverlap(%q,%q) is not symmetric", tt.a, tt.b)
		}
	}
}

func TestEditSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"heat", "heat", 1},
		{"Heat", "heat ", 1},
		{"heat", "beat", 0.75},
		{"abc", "xyz", 0},
		{"", "heat", 0},
	}
	for _, tt := range tests {
		if got := EditSimilarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("EditSimilarity(%q,%q)=%v want=%v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSimilarityByName(t *testing.T) {
	for _, name := range []string{"", "token", "Jaccard", "edit", "levenshtein"} {
		if _, err := SimilarityByName(name); err != nil {
			t.Fatalf("SimilarityByName(%q): %v", name, err)
		}
	}
	if _, err := SimilarityByName("cosine"); err == nil {
		t.Fatal("expected error for unknown similarity")
	}
}
