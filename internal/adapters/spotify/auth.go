package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/ewilliams-labs/lineup/internal/core/ports"
)

// Authenticator runs the authorization-code flow against Spotify accounts and
// builds catalog clients for the resulting user tokens.
type Authenticator struct {
	config  *oauth2.Config
	apiOpts []spotify.ClientOption
	market  string
}

// AuthOption customises an Authenticator.
type AuthOption func(*Authenticator)

// WithEndpoint overrides the accounts service endpoints.
func WithEndpoint(endpoint oauth2.Endpoint) AuthOption {
	return func(a *Authenticator) {
		a.config.Endpoint = endpoint
	}
}

// WithAPIOptions adds options to every Web API client the factory builds.
func WithAPIOptions(opts ...spotify.ClientOption) AuthOption {
	return func(a *Authenticator) {
		a.apiOpts = append(a.apiOpts, opts...)
	}
}

var (
	_ ports.TokenRefresher = (*Authenticator)(nil)
	_ ports.CatalogFactory = (*Authenticator)(nil)
)

// NewAuthenticator constructs an Authenticator for the app credentials.
func NewAuthenticator(clientID, clientSecret, redirectURI, market string, opts ...AuthOption) *Authenticator {
	a := &Authenticator{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes: []string{
				spotifyauth.ScopePlaylistModifyPublic,
				spotifyauth.ScopePlaylistModifyPrivate,
				spotifyauth.ScopeUserLibraryRead,
			},
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyauth.AuthURL,
				TokenURL: spotifyauth.TokenURL,
			},
		},
		apiOpts: []spotify.ClientOption{spotify.WithRetry(true)},
		market:  market,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AuthURL is the consent page URL carrying state back to the callback.
func (a *Authenticator) AuthURL(state string) string {
	return a.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for a user token.
func (a *Authenticator) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: exchange code: %w", err)
	}
	return tok, nil
}

// Refresh always goes to the token endpoint, even if the access token has
// not expired yet.
func (a *Authenticator) Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	if token == nil || token.RefreshToken == "" {
		return nil, fmt.Errorf("spotify adapter: refresh: no refresh token")
	}
	tok, err := a.config.TokenSource(ctx, &oauth2.Token{RefreshToken: token.RefreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: refresh: %w", err)
	}
	return tok, nil
}

// ForToken returns a catalog client authorised as the token's user.
func (a *Authenticator) ForToken(ctx context.Context, token *oauth2.Token) ports.Catalog {
	api := spotify.New(a.config.Client(ctx, token), a.apiOpts...)
	return NewClient(api, a.market)
}
