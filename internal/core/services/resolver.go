package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/lineup/internal/core/domain"
	"github.com/ewilliams-labs/lineup/internal/core/ports"
	"github.com/ewilliams-labs/lineup/internal/logging"
)

const searchCandidateLimit = 3

// ArtistResolver matches one poster artist name to a catalog artist.
type ArtistResolver struct {
	catalog   ports.ArtistCatalog
	threshold float64
	logger    zerolog.Logger
}

// ResolverOption customises an ArtistResolver.
type ResolverOption func(*ArtistResolver)

// WithThreshold overrides DefaultSimilarityThreshold.
func WithThreshold(threshold float64) ResolverOption {
	return func(r *ArtistResolver) {
		r.threshold = threshold
	}
}

// NewArtistResolver constructs an ArtistResolver over catalog.
func NewArtistResolver(catalog ports.ArtistCatalog, logger zerolog.Logger, opts ...ResolverOption) *ArtistResolver {
	r := &ArtistResolver{
		catalog:   catalog,
		threshold: DefaultSimilarityThreshold,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the catalog artist for name, or ok=false when there is no
// confident match or a catalog call failed.
func (r *ArtistResolver) Resolve(ctx context.Context, name string) (domain.ResolvedArtist, bool) {
	log := logging.FromContext(ctx, r.logger).With().Str("query", name).Logger()

	artist, err := r.resolve(ctx, name, log)
	if err != nil {
		log.Warn().Err(err).Msg("artist skipped")
		return domain.ResolvedArtist{}, false
	}

	log.Info().
		Str("artist_id", artist.ID).
		Str("artist_name", artist.DisplayName).
		Int("tracks", len(artist.Tracks)).
		Msg("artist resolved")
	return artist, true
}

func (r *ArtistResolver) resolve(ctx context.Context, name string, log zerolog.Logger) (domain.ResolvedArtist, error) {
	// 1. Search for candidates
	hits, err := r.catalog.SearchArtists(ctx, name, searchCandidateLimit)
	if err != nil {
		return domain.ResolvedArtist{}, fmt.Errorf("service: search artists: %w: %w", domain.ErrCollaboratorUnavailable, err)
	}
	if len(hits) == 0 {
		return domain.ResolvedArtist{}, fmt.Errorf("service: %w for %q", domain.ErrNoCandidateFound, name)
	}

	// 2. Score and pick the best
	best, ok := r.bestCandidate(name, hits, log)
	if !ok {
		return domain.ResolvedArtist{}, fmt.Errorf("service: %w", &ports.NoConfidentMatchError{
			Query:      name,
			Best:       best.DisplayName,
			Similarity: best.Similarity,
			Threshold:  r.threshold,
		})
	}

	// 3. Details, then top tracks
	detail, err := r.catalog.GetArtistDetail(ctx, best.ID)
	if err != nil {
		return domain.ResolvedArtist{}, fmt.Errorf("service: artist detail %s: %w: %w", best.ID, domain.ErrCollaboratorUnavailable, err)
	}

	tracks, err := r.catalog.GetTopTracks(ctx, best.ID)
	if err != nil {
		return domain.ResolvedArtist{}, fmt.Errorf("service: top tracks %s: %w: %w", best.ID, domain.ErrCollaboratorUnavailable, err)
	}
	if len(tracks) > domain.MaxTracksPerArtist {
		tracks = tracks[:domain.MaxTracksPerArtist]
	}

	genres := detail.Genres
	if genres == nil {
		genres = []string{}
	}

	return domain.ResolvedArtist{
		ID:          best.ID,
		DisplayName: best.DisplayName,
		Genres:      genres,
		Followers:   detail.Followers,
		Tracks:      append([]domain.Track{}, tracks...),
	}, nil
}

// bestCandidate returns the highest scoring hit; earlier hits win ties.
// ok is false when the best score is below the threshold.
func (r *ArtistResolver) bestCandidate(name string, hits []domain.CatalogArtist, log zerolog.Logger) (domain.CandidateArtist, bool) {
	query := strings.ToLower(name)

	var best domain.CandidateArtist
	found := false
	for _, hit := range hits {
		score := Similarity(query, strings.ToLower(hit.Name))
		log.Debug().Str("candidate", hit.Name).Float64("similarity", score).Msg("scored candidate")
		if !found || score > best.Similarity {
			best = domain.CandidateArtist{ID: hit.ID, DisplayName: hit.Name, Similarity: score}
			found = true
		}
	}

	return best, found && best.Similarity >= r.threshold
}
