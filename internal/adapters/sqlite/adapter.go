// Package sqlite provides a SQLite-backed session store and playlist ledger.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously
	"golang.org/x/oauth2"

	"github.com/ewilliams-labs/lineup/internal/core/domain"
	"github.com/ewilliams-labs/lineup/internal/core/ports"
)

// ledgerColumns is the number of fields in a playlist ledger row.
const ledgerColumns = 9

// Adapter implements the session store and playlist log ports for SQLite
type Adapter struct {
	db *sql.DB
}

var (
	_ ports.SessionStore = (*Adapter)(nil)
	_ ports.PlaylistLog  = (*Adapter)(nil)
)

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// :memory: databases are per connection.
	if strings.Contains(storagePath, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	return newAdapter(db)
}

// newAdapter verifies db and migrates it. db is closed on failure.
func newAdapter(db *sql.DB) (*Adapter, error) {
	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}

	// Auto-migrate on startup
	if err := adapter.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) GetToken(ctx context.Context, sessionID string) (*oauth2.Token, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT access_token, token_type, refresh_token, expiry
		FROM sessions WHERE id = ?
	`, sessionID)

	var tok oauth2.Token
	var expiry sql.NullInt64
	if err := row.Scan(&tok.AccessToken, &tok.TokenType, &tok.RefreshToken, &expiry); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if expiry.Valid && expiry.Int64 > 0 {
		tok.Expiry = time.Unix(expiry.Int64, 0)
	}
	return &tok, nil
}

func (a *Adapter) SaveToken(ctx context.Context, sessionID string, token *oauth2.Token) error {
	var expiry sql.NullInt64
	if !token.Expiry.IsZero() {
		expiry = sql.NullInt64{Int64: token.Expiry.Unix(), Valid: true}
	}

	query := `
		INSERT INTO sessions (id, access_token, token_type, refresh_token, expiry, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			access_token=excluded.access_token,
			token_type=excluded.token_type,
			refresh_token=excluded.refresh_token,
			expiry=excluded.expiry,
			updated_at=CURRENT_TIMESTAMP;
	`
	if _, err := a.db.ExecContext(ctx, query, sessionID, token.AccessToken, token.TokenType, token.RefreshToken, expiry); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (a *Adapter) DeleteToken(ctx context.Context, sessionID string) error {
	if _, err := a.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// AppendRow stores one ledger row in column order.
func (a *Adapter) AppendRow(ctx context.Context, fields []string) error {
	if len(fields) != ledgerColumns {
		return fmt.Errorf("%w: ledger row has %d fields, want %d", domain.ErrInvalidArgument, len(fields), ledgerColumns)
	}

	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = f
	}
	query := `
		INSERT INTO playlist_log (
			user_id, festival_name, festival_year, festival_geo, playlist_url,
			created_at, user_ip, user_geo, created_date
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to append playlist log row: %w", err)
	}
	return nil
}

// Rows returns every ledger row, oldest first.
func (a *Adapter) Rows(ctx context.Context) ([][]string, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT user_id, festival_name, festival_year, festival_geo, playlist_url,
			created_at, user_ip, user_geo, created_date
		FROM playlist_log
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load playlist log: %w", err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		row := make([]string, ledgerColumns)
		dest := make([]any, ledgerColumns)
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan playlist log row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate playlist log: %w", err)
	}
	return out, nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		access_token TEXT NOT NULL,
		token_type TEXT NOT NULL DEFAULT '',
		refresh_token TEXT NOT NULL DEFAULT '',
		expiry INTEGER,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS playlist_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
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
	_, err := a.db.Exec(query)
	return err
}
