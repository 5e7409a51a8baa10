package ports

import (
	"context"

	"github.com/ewilliams-labs/lineup/internal/core/domain"
	"golang.org/x/oauth2"
)

// ArtistCatalog is the read side of the music catalog used to resolve names.
type ArtistCatalog interface {
	SearchArtists(ctx context.Context, name string, limit int) ([]domain.CatalogArtist, error)
	GetArtistDetail(ctx context.Context, artistID string) (domain.ArtistDetail, error)
	GetTopTracks(ctx context.Context, artistID string) ([]domain.Track, error)
}

// PlaylistCatalog creates playlists on behalf of the signed-in user.
type PlaylistCatalog interface {
	CurrentUserID(ctx context.Context) (string, error)
	// CreatePlaylist returns the playlist's shareable external URL.
	CreatePlaylist(ctx context.Context, userID, name string, trackIDs []string) (string, error)
}

// Catalog is a catalog client bound to one user's token.
type Catalog interface {
	ArtistCatalog
	PlaylistCatalog
}

// CatalogFactory builds a Catalog for a user token.
type CatalogFactory interface {
	ForToken(ctx context.Context, token *oauth2.Token) Catalog
}
