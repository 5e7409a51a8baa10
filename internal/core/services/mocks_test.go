package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/ewilliams-labs/lineup/internal/core/domain"
)

// --- Mocks ---

// mockReader is a lightweight mock of the poster reader.
type mockReader struct {
	reply string
	err   error

	calls           int
	gotInstruction  string
	gotMimeType     string
	gotImageByteLen int
}

func (m *mockReader) ReadPoster(ctx context.Context, instruction string, image []byte, mimeType string) (string, error) {
	m.calls++
	m.gotInstruction = instruction
	m.gotMimeType = mimeType
	m.gotImageByteLen = len(image)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

// mockCache is an in-memory FestivalCache.
type mockCache struct {
	entries map[string]domain.FestivalInfo
	putErr  error
	puts    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string]domain.FestivalInfo{}}
}

func (m *mockCache) Get(key string) (domain.FestivalInfo, bool) {
	info, ok := m.entries[key]
	return info, ok
}

func (m *mockCache) Put(key string, info domain.FestivalInfo) error {
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.entries[key] = info
	return nil
}

// mockCatalog serves canned search results keyed by query name.
type mockCatalog struct {
	mu sync.Mutex

	search    map[string][]domain.CatalogArtist
	searchErr map[string]error
	details   map[string]domain.ArtistDetail
	detailErr error
	tracks    map[string][]domain.Track
	tracksErr error
	delay     time.Duration

	searchCalls []string
	detailCalls []string
	trackCalls  []string

	userID    string
	userErr   error
	createErr error
	created   []createdPlaylist
}

type createdPlaylist struct {
	userID   string
	name     string
	trackIDs []string
}

func (m *mockCatalog) SearchArtists(ctx context.Context, name string, limit int) ([]domain.CatalogArtist, error) {
	m.mu.Lock()
	m.searchCalls = append(m.searchCalls, name)
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := m.searchErr[name]; err != nil {
		return nil, err
	}
	hits := m.search[name]
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (m *mockCatalog) GetArtistDetail(ctx context.Context, artistID string) (domain.ArtistDetail, error) {
	m.mu.Lock()
	m.detailCalls = append(m.detailCalls, artistID)
	m.mu.Unlock()
	if m.detailErr != nil {
		return domain.ArtistDetail{}, m.detailErr
	}
	return m.details[artistID], nil
}

func (m *mockCatalog) GetTopTracks(ctx context.Context, artistID string) ([]domain.Track, error) {
	m.mu.Lock()
	m.trackCalls = append(m.trackCalls, artistID)
	m.mu.Unlock()
	if m.tracksErr != nil {
		return nil, m.tracksErr
	}
	return m.tracks[artistID], nil
}

func (m *mockCatalog) CurrentUserID(ctx context.Context) (string, error) {
	if m.userErr != nil {
		return "", m.userErr
	}
	return m.userID, nil
}

func (m *mockCatalog) CreatePlaylist(ctx context.Context, userID, name string, trackIDs []string) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	m.created = append(m.created, createdPlaylist{userID: userID, name: name, trackIDs: trackIDs})
	return "https://open.spotify.com/playlist/pl-1", nil
}

// mockRecorder captures ledger records.
type mockRecorder struct {
	records []domain.PlaylistRecord
}

func (m *mockRecorder) Record(rec domain.PlaylistRecord) {
	m.records = append(m.records, rec)
}

// mockSessions is an in-memory SessionStore.
type mockSessions struct {
	tokens  map[string]*oauth2.Token
	getErr  error
	saveErr error
	saved   int
}

func (m *mockSessions) GetToken(ctx context.Context, sessionID string) (*oauth2.Token, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	tok, ok := m.tokens[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return tok, nil
}

func (m *mockSessions) SaveToken(ctx context.Context, sessionID string, token *oauth2.Token) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved++
	if m.tokens == nil {
		m.tokens = map[string]*oauth2.Token{}
	}
	m.tokens[sessionID] = token
	return nil
}

func (m *mockSessions) DeleteToken(ctx context.Context, sessionID string) error {
	delete(m.tokens, sessionID)
	return nil
}

// mockRefresher returns a fixed refreshed token.
type mockRefresher struct {
	token *oauth2.Token
	err   error
	calls int
}

func (m *mockRefresher) Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.token, nil
}

var errBoom = errors.New("boom")
