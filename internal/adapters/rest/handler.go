package rest

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/ewilliams-labs/lineup/internal/core/ports"
	"github.com/ewilliams-labs/lineup/internal/core/services"
)

// Authenticator runs the catalog's authorization-code flow.
type Authenticator interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// Deps are the collaborators the HTTP adapter drives.
type Deps struct {
	Extractor *services.PosterExtractor
	Assembler *services.LineupAssembler
	Playlists *services.PlaylistService
	Tokens    *services.TokenKeeper
	Auth      Authenticator
	Catalogs  ports.CatalogFactory
	Logger    zerolog.Logger

	AllowedOrigins []string
	Limits         Limits
	SecureCookies  bool
}

// Handler manages the HTTP interface for our application.
type Handler struct {
	extractor *services.PosterExtractor
	assembler *services.LineupAssembler
	playlists *services.PlaylistService
	tokens    *services.TokenKeeper
	auth      Authenticator
	catalogs  ports.CatalogFactory
	logger    zerolog.Logger

	secureCookies bool
	limiter       *rateLimiter
	router        *mux.Router
	handler       http.Handler
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(deps Deps) *Handler {
	limits := deps.Limits
	if limits == (Limits{}) {
		limits = DefaultLimits()
	}

	h := &Handler{
		extractor:     deps.Extractor,
		assembler:     deps.Assembler,
		playlists:     deps.Playlists,
		tokens:        deps.Tokens,
		auth:          deps.Auth,
		catalogs:      deps.Catalogs,
		logger:        deps.Logger,
		secureCookies: deps.SecureCookies,
		limiter:       newRateLimiter(),
		router:        mux.NewRouter(),
	}

	// Register Routes
	h.routes(limits)

	h.handler = h.requestLogging(h.recovery(h.router))
	// No configured origins means no cross-origin access at all.
	if len(deps.AllowedOrigins) > 0 {
		c := cors.New(cors.Options{
			AllowedOrigins:   deps.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", "Accept", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
		})
		h.handler = c.Handler(h.handler)
	}

	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes(limits Limits) {
	limit := func(route string, rl Rate, fn http.HandlerFunc) http.Handler {
		return h.limiter.middleware(route, rl, fn)
	}

	// Health Check
	h.router.Handle("/health", limit("health", limits.Default, h.HealthCheck)).Methods(http.MethodGet)

	// Catalog sign-in
	h.router.Handle("/login", limit("login", limits.Default, h.Login)).Methods(http.MethodGet)
	h.router.Handle("/spotify_auth", limit("spotify_auth", limits.Default, h.SpotifyCallback)).Methods(http.MethodGet)

	// Poster to playlist
	h.router.Handle("/process_poster", limit("process_poster", limits.Poster, h.ProcessPoster)).Methods(http.MethodPost)
	h.router.Handle("/get_artist_data", limit("get_artist_data", limits.Artists, h.GetArtistData)).Methods(http.MethodPost)
	h.router.Handle("/create_playlist", limit("create_playlist", limits.Playlist, h.CreatePlaylist)).Methods(http.MethodPost)

	h.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorWithCode(w, http.StatusNotFound, codeNotFound, "not found")
	})
	h.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorWithCode(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
