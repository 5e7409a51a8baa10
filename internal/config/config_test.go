package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SPOTIFY_CLIENT_ID", "client-id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "client-secret")
	t.Setenv("GOOGLE_API_KEY", "api-key")
	t.Setenv("GOOGLE_SHEET_ID", "sheet-id")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON_PATH", "sa.json")
}

func TestFromEnv_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 5001 {
		t.Errorf("port: got %d, want 5001", cfg.Server.Port)
	}
	if cfg.Addr() != ":5001" {
		t.Errorf("addr: got %q", cfg.Addr())
	}
	if cfg.Spotify.Concurrency != 4 {
		t.Errorf("concurrency: got %d, want 4", cfg.Spotify.Concurrency)
	}
	if cfg.Spotify.Market != "US" {
		t.Errorf("market: got %q", cfg.Spotify.Market)
	}
	if cfg.Vision.Provider != "gemini" {
		t.Errorf("vision provider: got %q", cfg.Vision.Provider)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Ledger.Driver != "sheets" {
		t.Errorf("drivers: got storage %q ledger %q", cfg.Storage.Driver, cfg.Ledger.Driver)
	}
	if cfg.Ledger.Timeout != 15*time.Second {
		t.Errorf("ledger timeout: got %v", cfg.Ledger.Timeout)
	}
	if cfg.Cache.Dir != "cache" {
		t.Errorf("cache dir: got %q", cfg.Cache.Dir)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("VISION_PROVIDER", "OLLAMA")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("LEDGER_DRIVER", "sqlite")
	t.Setenv("CATALOG_CONCURRENCY", "8")
	t.Setenv("LEDGER_TIMEOUT", "3s")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port: got %d", cfg.Server.Port)
	}
	wantOrigins := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.Server.AllowedOrigins, wantOrigins) {
		t.Errorf("origins: got %v, want %v", cfg.Server.AllowedOrigins, wantOrigins)
	}
	if cfg.Vision.Provider != "ollama" {
		t.Errorf("vision provider: got %q", cfg.Vision.Provider)
	}
	if cfg.Spotify.Concurrency != 8 {
		t.Errorf("concurrency: got %d", cfg.Spotify.Concurrency)
	}
	if cfg.Ledger.Timeout != 3*time.Second {
		t.Errorf("timeout: got %v", cfg.Ledger.Timeout)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantMsg string
	}{
		{
			name:    "missing spotify credentials",
			env:     map[string]string{"SPOTIFY_CLIENT_ID": ""},
			wantMsg: "SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required",
		},
		{
			name:    "non numeric port",
			env:     map[string]string{"PORT": "eighty"},
			wantMsg: "invalid PORT",
		},
		{
			name:    "unknown vision provider",
			env:     map[string]string{"VISION_PROVIDER": "tesseract"},
			wantMsg: "VISION_PROVIDER must be one of",
		},
		{
			name:    "postgres without url",
			env:     map[string]string{"STORAGE_DRIVER": "postgres"},
			wantMsg: "DATABASE_URL is required when STORAGE_DRIVER=postgres",
		},
		{
			name:    "sheets without sheet id",
			env:     map[string]string{"GOOGLE_SHEET_ID": ""},
			wantMsg: "GOOGLE_SHEET_ID and GOOGLE_SERVICE_ACCOUNT_JSON_PATH are required",
		},
		{
			name:    "bad log level",
			env:     map[string]string{"LOG_LEVEL": "verbose"},
			wantMsg: "LOG_LEVEL must be one of",
		},
		{
			name:    "zero concurrency",
			env:     map[string]string{"CATALOG_CONCURRENCY": "0"},
			wantMsg: "CATALOG_CONCURRENCY must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := FromEnv()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantMsg)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}
