package ports

import (
	"fmt"

	"github.com/ewilliams-labs/lineup/internal/core/domain"
)

// NoConfidentMatchError describes a query whose best candidate scored below the threshold.
type NoConfidentMatchError struct {
	Query      string
	Best       string
	Similarity float64
	Threshold  float64
}

func (e *NoConfidentMatchError) Error() string {
	if e.Best == "" {
		return domain.ErrBelowSimilarityThreshold.Error()
	}
	return fmt.Sprintf("query %q: best match %q (similarity %.2f) below threshold %.2f", e.Query, e.Best, e.Similarity, e.Threshold)
}

func (e *NoConfidentMatchError) Is(target error) bool {
	return target == domain.ErrBelowSimilarityThreshold
}
