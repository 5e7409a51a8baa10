package spotify_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	zspotify "github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"

	"github.com/ewilliams-labs/lineup/internal/adapters/spotify"
)

func newTokenServer(t *testing.T, grants *[]url.Values) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		*grants = append(*grants, r.PostForm)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access-2","token_type":"Bearer","refresh_token":"refresh-2","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthenticator_AuthURL(t *testing.T) {
	a := spotify.NewAuthenticator("client-id", "secret", "http://127.0.0.1:5001/spotify_auth", "US")

	raw := a.AuthURL("session-123")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "accounts.spotify.com", u.Host)
	q := u.Query()
	assert.Equal(t, "session-123", q.Get("state"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "http://127.0.0.1:5001/spotify_auth", q.Get("redirect_uri"))
	assert.Contains(t, q.Get("scope"), "playlist-modify-public")
}

func TestAuthenticator_ExchangeAndRefresh(t *testing.T) {
	var grants []url.Values
	srv := newTokenServer(t, &grants)

	a := spotify.NewAuthenticator("client-id", "secret", "http://127.0.0.1/cb", "US",
		spotify.WithEndpoint(oauth2.Endpoint{AuthURL: srv.URL + "/authorize", TokenURL: srv.URL + "/api/token"}))

	tok, err := a.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "access-2", tok.AccessToken)
	require.Len(t, grants, 1)
	assert.Equal(t, "authorization_code", grants[0].Get("grant_type"))
	assert.Equal(t, "the-code", grants[0].Get("code"))

	refreshed, err := a.Refresh(context.Background(), &oauth2.Token{AccessToken: "still-valid", RefreshToken: "refresh-1"})
	require.NoError(t, err)
	assert.Equal(t, "access-2", refreshed.AccessToken)
	require.Len(t, grants, 2)
	assert.Equal(t, "refresh_token", grants[1].Get("grant_type"))
	assert.Equal(t, "refresh-1", grants[1].Get("refresh_token"))
}

func TestAuthenticator_RefreshWithoutRefreshToken(t *testing.T) {
	a := spotify.NewAuthenticator("client-id", "secret", "http://127.0.0.1/cb", "US")

	_, err := a.Refresh(context.Background(), &oauth2.Token{AccessToken: "a"})
	assert.Error(t, err)
}

func TestAuthenticator_ForTokenSendsBearer(t *testing.T) {
	var gotAuth string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "user-9"}`))
	}))
	t.Cleanup(api.Close)

	a := spotify.NewAuthenticator("client-id", "secret", "http://127.0.0.1/cb", "US",
		spotify.WithAPIOptions(zspotify.WithBaseURL(api.URL+"/")))

	catalog := a.ForToken(context.Background(), &oauth2.Token{AccessToken: "user-token", TokenType: "Bearer"})
	id, err := catalog.CurrentUserID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-9", id)
	assert.Equal(t, "Bearer user-token", gotAuth)
}
