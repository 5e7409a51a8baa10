package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/ewilliams-labs/lineup/internal/core/domain"
	"github.com/ewilliams-labs/lineup/internal/core/ports"
)

// tokenRefreshWindow is how close to expiry a token gets refreshed.
const tokenRefreshWindow = 60 * time.Second

// TokenKeeper hands out a session's catalog token, refreshing it when it
// is about to expire.
type TokenKeeper struct {
	store     ports.SessionStore
	refresher ports.TokenRefresher
	now       func() time.Time
}

// NewTokenKeeper constructs a TokenKeeper.
func NewTokenKeeper(store ports.SessionStore, refresher ports.TokenRefresher) *TokenKeeper {
	return &TokenKeeper{store: store, refresher: refresher, now: time.Now}
}

// Token returns a usable token for sessionID or domain.ErrUnauthenticated.
func (k *TokenKeeper) Token(ctx context.Context, sessionID string) (*oauth2.Token, error) {
	if sessionID == "" {
		return nil, domain.ErrUnauthenticated
	}

	tok, err := k.store.GetToken(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("service: load session token: %w", err)
	}

	if tok.Expiry.IsZero() || tok.Expiry.Sub(k.now()) >= tokenRefreshWindow {
		return tok, nil
	}

	refreshed, err := k.refresher.Refresh(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("service: refresh token: %w: %w", domain.ErrUnauthenticated, err)
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = tok.RefreshToken
	}
	if err := k.store.SaveToken(ctx, sessionID, refreshed); err != nil {
		return nil, fmt.Errorf("service: save refreshed token: %w", err)
	}
	return refreshed, nil
}

// Store saves a freshly exchanged token for sessionID.
func (k *TokenKeeper) Store(ctx context.Context, sessionID string, tok *oauth2.Token) error {
	if sessionID == "" || tok == nil {
		return fmt.Errorf("service: %w: session and token are required", domain.ErrInvalidArgument)
	}
	if err := k.store.SaveToken(ctx, sessionID, tok); err != nil {
		return fmt.Errorf("service: save token: %w", err)
	}
	return nil
}
