package store

import (
	"testing"
)

func TestTrigramSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want func(float64) bool
	}{
		{"identical", "Main Street", "Main Street", func(s float64) bool { return s == 1.0 }},
		{"identical ignoring case", "MAIN STREET", "main street", func(s float64) bool { return s == 1.0 }},
		{"typo stays similar", "Main Street", "Main Stret", func(s float64) bool { return s > 0.5 }},
		{"unrelated stays low", "Main Street", "Zebra Crossing", func(s float64) bool { return s < 0.2 }},
		{"empty query", "", "Main Street", func(s float64) bool { return s == 0 }},
		{"both empty", "", "", func(s float64) bool { return s == 0 }},
		{"punctuation ignored", "Main-Street", "Main Street", func(s float64) bool { return s == 1.0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrigramSimilarity(tt.a, tt.b)
			if got < 0 || got > 1 {
				t.Fatalf("TrigramSimilarity(%q, %q) = %v, out of [0,1]", tt.a, tt.b, got)
			}
			if !tt.want(got) {
				t.Errorf("TrigramSimilarity(%q, %q) = %v, unexpected", tt.a, tt.b, got)
			}
		})
	}
}

func TestTrigramSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"Main Street", "Main Stret"},
		{"Oak Avenue", "Oak Av"},
		{"Broadway", "Brodway"},
	}
	for _, p := range pairs {
		ab := TrigramSimilarity(p[0], p[1])
		ba := TrigramSimilarity(p[1], p[0])
		if ab != ba {
			t.Errorf("similarity not symmetric for %q/%q: %v != %v", p[0], p[1], ab, ba)
		}
	}
}
