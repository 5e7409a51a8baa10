package services

import (
	"math"
	"testing"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical", a: "daft punk", b: "daft punk", want: 1.0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "one empty", a: "daft punk", b: "", want: 0.0},
		{name: "disjoint", a: "abc", b: "xyz", want: 0.0},
		{name: "dropped letter", a: "daft punk", b: "daft pnk", want: 16.0 / 17.0},
		{name: "half overlap", a: "abcd", b: "abxy", want: 0.5},
		{name: "multibyte runes", a: "sigur rós", b: "sigur ros", want: 16.0 / 18.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Similarity(%q, %q): got %.6f, want %.6f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarity_Bounded(t *testing.T) {
	pairs := [][2]string{
		{"daft punk", "daft pnk"},
		{"the chemical brothers", "chemical brothers"},
		{"fred again..", "fred again"},
		{"bicep", "biscuit"},
		{"aphex twin", "twin peaks"},
		{"lcd soundsystem", "lcd sound system"},
	}

	for _, p := range pairs {
		for _, got := range []float64{Similarity(p[0], p[1]), Similarity(p[1], p[0])} {
			if got < 0 || got > 1 {
				t.Errorf("out of range for %q/%q: %.6f", p[0], p[1], got)
			}
		}
	}
}

// The matcher anchors on the first string, so swapping arguments can change
// the ratio. The resolver always passes the query first.
func TestSimilarity_DependsOnArgumentOrder(t *testing.T) {
	if got := Similarity("tide", "diet"); math.Abs(got-0.25) > 1e-9 {
		t.Fatalf("Similarity(tide, diet): got %.6f, want 0.25", got)
	}
	if got := Similarity("diet", "tide"); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("Similarity(diet, tide): got %.6f, want 0.5", got)
	}
}
