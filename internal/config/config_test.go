package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Search.MinSimilarity != 0.3 {
		t.Errorf("min similarity = %v, want 0.3", cfg.Search.MinSimilarity)
	}
	if cfg.Server.Addr() != "0.0.0.0:8000" {
		t.Errorf("addr = %q", cfg.Server.Addr())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
debug: true
server:
  host: 127.0.0.1
  port: 9000
database:
  dsn: postgres://localhost/lightspun
search:
  min_similarity: 0.5
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Debug || cfg.Server.Port != 9000 || cfg.Search.MinSimilarity != 0.5 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	// Untouched keys keep defaults.
	if cfg.Search.SoundexBoost != 0.8 {
		t.Errorf("soundex boost = %v, want default 0.8", cfg.Search.SoundexBoost)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LIGHTSPUN_PORT", "7777")
	t.Setenv("DATABASE_URL", "postgres://db/override")
	t.Setenv("LIGHTSPUN_MIN_SIMILARITY", "0.6")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("port = %d, want env override 7777", cfg.Server.Port)
	}
	if cfg.Database.DSN != "postgres://db/override" {
		t.Errorf("dsn = %q", cfg.Database.DSN)
	}
	if cfg.Search.MinSimilarity != 0.6 {
		t.Errorf("min similarity = %v", cfg.Search.MinSimilarity)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("LIGHTSPUN_MIN_SIMILARITY", "1.5")
	if _, err := Load(""); err == nil {
		t.Error("expected error for out-of-range min_similarity")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}
