package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/lineup/internal/core/domain"
	"github.com/ewilliams-labs/lineup/internal/core/ports"
	"github.com/ewilliams-labs/lineup/internal/logging"
)

// PlaylistService publishes festival playlists and hands them to the ledger.
type PlaylistService struct {
	recorder ports.PlaylistRecorder
	logger   zerolog.Logger
	now      func() time.Time
}

// NewPlaylistService constructs a PlaylistService.
func NewPlaylistService(recorder ports.PlaylistRecorder, logger zerolog.Logger) *PlaylistService {
	return &PlaylistService{
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateFestivalPlaylist creates a public playlist of the requested tracks
// for the catalog's current user and returns its external URL.
func (s *PlaylistService) CreateFestivalPlaylist(ctx context.Context, catalog ports.PlaylistCatalog, req domain.PlaylistRequest) (string, error) {
	// 1. Validate the request
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("service: %w", err)
	}

	// 2. Find out who we are creating it for
	userID, err := catalog.CurrentUserID(ctx)
	if err != nil {
		return "", fmt.Errorf("service: failed to load current user: %w: %w", domain.ErrCollaboratorUnavailable, err)
	}

	// 3. Create the playlist with its tracks
	name := req.PlaylistName()
	url, err := catalog.CreatePlaylist(ctx, userID, name, req.TrackIDs)
	if err != nil {
		return "", fmt.Errorf("service: failed to create playlist: %w: %w", domain.ErrCollaboratorUnavailable, err)
	}

	logging.FromContext(ctx, s.logger).Info().
		Str("user_id", userID).
		Str("playlist", name).
		Int("tracks", len(req.TrackIDs)).
		Msg("playlist created")

	// 4. Queue the ledger entry
	s.recorder.Record(domain.PlaylistRecord{
		UserID:       userID,
		FestivalName: req.FestivalName,
		FestivalGeo:  req.FestivalGeo,
		FestivalYear: req.FestivalYear,
		PlaylistURL:  url,
		UserIP:       req.UserIP,
		CreatedAt:    s.now(),
	})

	return url, nil
}
