package domain

import "errors"

var (
	ErrUnsupportedMediaType     = errors.New("domain: unsupported media type")
	ErrExtractionParse          = errors.New("domain: extraction parse failure")
	ErrNoCandidateFound         = errors.New("domain: no candidate found")
	ErrBelowSimilarityThreshold = errors.New("domain: best candidate below similarity threshold")
	ErrCollaboratorUnavailable  = errors.New("domain: collaborator unavailable")

	ErrInvalidArgument = errors.New("domain: invalid argument")
	ErrUnauthenticated = errors.New("domain: unauthenticated")
	ErrNotFound        = errors.New("domain: not found")
)
