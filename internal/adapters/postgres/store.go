// Package postgres provides a Postgres-backed session store and playlist ledger.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/oauth2"

	"github.com/ewilliams-labs/lineup/internal/core/domain"
	"github.com/ewilliams-labs/lineup/internal/core/ports"
)

const ledgerColumns = 9

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

var (
	_ ports.SessionStore = (*Store)(nil)
	_ ports.PlaylistLog  = (*Store)(nil)
)

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	access_token TEXT NOT NULL,
	token_type TEXT NOT NULL DEFAULT '',
	refresh_token TEXT NOT NULL DEFAULT '',
	expiry TIMESTAMPTZ,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS playlist_log (
	id BIGSERIAL PRIMARY KEY,
	user_id TEXT NOT NULL,
	festival_name TEXT NOT NULL,
	festival_year TEXT NOT NULL DEFAULT '',
	festival_geo TEXT NOT NULL,
	playlist_url TEXT NOT NULL,
	created_at TEXT NOT NULL,
	user_ip TEXT NOT NULL,
	user_geo TEXT NOT NULL,
	created_date TEXT NOT NULL
);
`

// GetToken loads the token stored for a session.
func (s *Store) GetToken(ctx context.Context, sessionID string) (*oauth2.Token, error) {
	var (
		tok    oauth2.Token
		expiry sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT access_token, token_type, refresh_token, expiry
		FROM sessions
		WHERE id = $1
	`, sessionID).Scan(&tok.AccessToken, &tok.TokenType, &tok.RefreshToken, &expiry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if expiry.Valid {
		tok.Expiry = expiry.Time
	}
	return &tok, nil
}

// SaveToken upserts the session token.
func (s *Store) SaveToken(ctx context.Context, sessionID string, token *oauth2.Token) error {
	var expiry sql.NullTime
	if !token.Expiry.IsZero() {
		expiry = sql.NullTime{Time: token.Expiry.UTC(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, access_token, token_type, refresh_token, expiry, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			token_type = EXCLUDED.token_type,
			refresh_token = EXCLUDED.refresh_token,
			expiry = EXCLUDED.expiry,
			updated_at = NOW()
	`, sessionID, token.AccessToken, token.TokenType, token.RefreshToken, expiry)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// DeleteToken forgets a session.
func (s *Store) DeleteToken(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// AppendRow stores one ledger row in column order.
func (s *Store) AppendRow(ctx context.Context, fields []string) error {
	if len(fields) != ledgerColumns {
		return fmt.Errorf("%w: ledger row has %d fields, want %d", domain.ErrInvalidArgument, len(fields), ledgerColumns)
	}
	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = f
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO playlist_log (
			user_id, festival_name, festival_year, festival_geo, playlist_url,
			created_at, user_ip, user_geo, created_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, args...)
	if err != nil {
		return fmt.Errorf("append playlist log row: %w", err)
	}
	return nil
}
