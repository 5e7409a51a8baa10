package ports

import (
	"context"

	"github.com/ewilliams-labs/lineup/internal/core/domain"
	"golang.org/x/oauth2"
)

// FestivalCache memoises extraction results by poster key.
// Get reports a miss for absent or unreadable entries.
type FestivalCache interface {
	Get(key string) (domain.FestivalInfo, bool)
	Put(key string, info domain.FestivalInfo) error
}

// PlaylistLog is the append-only ledger of created playlists.
type PlaylistLog interface {
	AppendRow(ctx context.Context, fields []string) error
}

// SessionStore keeps OAuth tokens per browser session.
// GetToken returns domain.ErrNotFound when the session has no token.
type SessionStore interface {
	GetToken(ctx context.Context, sessionID string) (*oauth2.Token, error)
	SaveToken(ctx context.Context, sessionID string, token *oauth2.Token) error
	DeleteToken(ctx context.Context, sessionID string) error
}

// TokenRefresher exchanges and refreshes catalog OAuth tokens.
type TokenRefresher interface {
	Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error)
}

// GeoLocator turns an IP address into a human-readable location.
// It never fails; unknown addresses yield "Unknown".
type GeoLocator interface {
	Lookup(ctx context.Context, ip string) string
}

// PlaylistRecorder accepts finished playlists for ledger bookkeeping.
// Record must not block the caller.
type PlaylistRecorder interface {
	Record(rec domain.PlaylistRecord)
}
