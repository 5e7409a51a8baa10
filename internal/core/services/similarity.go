package services

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultSimilarityThreshold is the minimum ratio for accepting a catalog
// candidate. It is calibrated against Similarity specifically.
const DefaultSimilarityThreshold = 0.85

// Similarity returns the Ratcliff-Obershelp ratio 2*M/T of a and b, where M
// is the number of characters in matching blocks and T the combined length.
// Comparison is per rune and case-sensitive; callers lower-case first.
func Similarity(a, b string) float64 {
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}
