package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Server.Address != ":8080" {
		t.Errorf("Server.Address = %q, want :8080", cfg.Server.Address)
	}
	if cfg.Source.Driver != DriverFile {
		t.Errorf("Source.Driver = %q, want file", cfg.Source.Driver)
	}
	if cfg.Ranking.TopN != 20 || cfg.Ranking.TextCandidates != 5000 || cfg.Ranking.MaxRows != 50000 {
		t.Errorf("Ranking = %+v", cfg.Ranking)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
server:
  address: ":9000"
source:
  driver: sqlite
  sqlite_path: /tmp/movies.db
ranking:
  top_n: 5
  similarity: edit
logging:
  format: console
`
	if err := os.WriteFile(path, []byte(yml), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("TOP_N", "7")
	t.Setenv("RANK_WORKERS", "4")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Address != ":9000" {
		t.Errorf("Server.Address = %q, want :9000", cfg.Server.Address)
	}
	if cfg.Source.Driver != DriverSQLite || cfg.Source.SQLitePath != "/tmp/movies.db" {
		t.Errorf("Source = %+v", cfg.Source)
	}
	if cfg.Ranking.TopN != 7 {
		t.Errorf("env must override file: TopN = %d, want 7", cfg.Ranking.TopN)
	}
	if cfg.Ranking.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Ranking.Workers)
	}
	if cfg.Ranking.Similarity != "edit" {
		t.Errorf("Similarity = %q, want edit", cfg.Ranking.Similarity)
	}
	if cfg.Ranking.TextCandidates != 5000 {
		t.Errorf("unset values keep defaults: TextCandidates = %d", cfg.Ranking.TextCandidates)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(*Config) {}, ""},
		{"postgres without url", func(c *Config) { c.Source.Driver = DriverPostgres }, "database_url"},
		{"postgres with url", func(c *Config) {
			c.Source.Driver = DriverPostgres
			c.Source.DatabaseURL = "postgres://localhost/movies"
		}, ""},
		{"unknown driver", func(c *Config) { c.Source.Driver = "mongo" }, "Driver"},
		{"file without path", func(c *Config) { c.Source.ItemsPath = "" }, "items_path"},
		{"seed without items", func(c *Config) {
			c.Source.Driver = DriverSQLite
			c.Source.Seed = true
			c.Source.ItemsPath = ""
		}, "items_path"},
		{"zero top_n", func(c *Config) { c.Ranking.TopN = 0 }, "TopN"},
		{"bad similarity", func(c *Config) { c.Ranking.Similarity = "cosine" }, "Similarity"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "Format"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "Level"},
		{"warning level", func(c *Config) { c.Logging.Level = "WARNING" }, ""},
		{"empty address", func(c *Config) { c.Server.Address = "" }, "Address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"API_ADDRESS":  "server.address",
		"DATABASE_URL": "source.database_url",
		"ITEMS_PATH":   "source.items_path",
		"LOG_FORMAT":   "logging.format",
		"HOME":         "",
		"PATH":         "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}
