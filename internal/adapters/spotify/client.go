package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"

	"github.com/ewilliams-labs/lineup/internal/core/domain"
	"github.com/ewilliams-labs/lineup/internal/core/ports"
)

// addTracksChunk is the most track ids the playlist endpoint accepts per call.
const addTracksChunk = 100

// Client adapts a user-scoped Spotify Web API client to the catalog ports.
type Client struct {
	api    *spotify.Client
	market string
}

// compile-time interface assertion
var _ ports.Catalog = (*Client)(nil)

// NewClient constructs a new Spotify catalog client. market is the country
// code used for top tracks.
func NewClient(api *spotify.Client, market string) *Client {
	if market == "" {
		market = "US"
	}
	return &Client{api: api, market: market}
}

// SearchArtists runs an artist-field search and returns up to limit hits in
// catalog order.
func (c *Client) SearchArtists(ctx context.Context, name string, limit int) ([]domain.CatalogArtist, error) {
	res, err := c.api.Search(ctx, "artist:"+name, spotify.SearchTypeArtist, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: search %q: %w", name, err)
	}
	if res.Artists == nil {
		return []domain.CatalogArtist{}, nil
	}
	return mapArtistHits(res.Artists.Artists, limit), nil
}

// GetArtistDetail loads genres and follower count for an artist.
func (c *Client) GetArtistDetail(ctx context.Context, artistID string) (domain.ArtistDetail, error) {
	artist, err := c.api.GetArtist(ctx, spotify.ID(artistID))
	if err != nil {
		return domain.ArtistDetail{}, fmt.Errorf("spotify adapter: artist %s: %w", artistID, err)
	}
	return mapArtistDetail(artist), nil
}

// GetTopTracks returns the artist's top tracks for the configured market.
func (c *Client) GetTopTracks(ctx context.Context, artistID string) ([]domain.Track, error) {
	tracks, err := c.api.GetArtistsTopTracks(ctx, spotify.ID(artistID), c.market)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: top tracks %s: %w", artistID, err)
	}
	return mapTracks(tracks), nil
}

// CurrentUserID returns the id of the token's owner.
func (c *Client) CurrentUserID(ctx context.Context) (string, error) {
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("spotify adapter: current user: %w", err)
	}
	return user.ID, nil
}

// CreatePlaylist creates a public playlist, adds the tracks in batches and
// returns its open.spotify.com URL.
func (c *Client) CreatePlaylist(ctx context.Context, userID, name string, trackIDs []string) (string, error) {
	playlist, err := c.api.CreatePlaylistForUser(ctx, userID, name, "", true, false)
	if err != nil {
		return "", fmt.Errorf("spotify adapter: create playlist: %w", err)
	}

	ids := make([]spotify.ID, 0, len(trackIDs))
	for _, id := range trackIDs {
		ids = append(ids, spotify.ID(id))
	}
	for start := 0; start < len(ids); start += addTracksChunk {
		end := min(start+addTracksChunk, len(ids))
		if _, err := c.api.AddTracksToPlaylist(ctx, playlist.ID, ids[start:end]...); err != nil {
			return "", fmt.Errorf("spotify adapter: add tracks to %s: %w", playlist.ID, err)
		}
	}

	url := playlist.ExternalURLs["spotify"]
	if url == "" {
		return "", fmt.Errorf("spotify adapter: playlist %s has no external url", playlist.ID)
	}
	return url, nil
}
