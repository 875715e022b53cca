package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nissyi-gh/timecards/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_NotFound(t *testing.T) {
	t.Setenv(config.DataDirEnv, "")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("expected default backend sqlite, got %q", cfg.Storage.Backend)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default level info, got %q", cfg.Log.Level)
	}
	if cfg.StoragePath() != "" {
		t.Errorf("expected empty storage path, got %q", cfg.StoragePath())
	}
}

func TestLoad_Full(t *testing.T) {
	path := writeConfig(t, `
[storage]
backend = "JSON"
path = "/tmp/timecards-data"

[log]
level = "debug"
file = "/tmp/timecards.log"

[display]
timezone = "UTC"
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Storage.Backend != "json" {
		t.Errorf("expected backend json, got %q", cfg.Storage.Backend)
	}
	if cfg.StoragePath() != "/tmp/timecards-data" {
		t.Errorf("unexpected storage path %q", cfg.StoragePath())
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected level debug, got %q", cfg.Log.Level)
	}
	logPath, err := cfg.LogPath()
	if err != nil || logPath != "/tmp/timecards.log" {
		t.Errorf("unexpected log path %q (%v)", logPath, err)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "UTC" {
		t.Errorf("unexpected location %v (%v)", loc, err)
	}
}

func TestLoad_DataDirEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.DataDirEnv, dir)

	cfg, err := config.Load(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := cfg.StoragePath(), filepath.Join(dir, "timecards.db"); got != want {
		t.Errorf("StoragePath() = %q, want %q", got, want)
	}
	if got, _ := cfg.LogPath(); got != filepath.Join(dir, "timecards.log") {
		t.Errorf("unexpected log path %q", got)
	}

	cfg.Storage.Backend = "json"
	if got := cfg.StoragePath(); got != dir {
		t.Errorf("StoragePath() for json = %q, want %q", got, dir)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown key":    "[storage]\nbackend = \"sqlite\"\ncolor = \"red\"\n",
		"bad backend":    "[storage]\nbackend = \"redis\"\n",
		"bad timezone":   "[display]\ntimezone = \"Mars/Olympus\"\n",
		"malformed toml": "[storage\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := config.Load(writeConfig(t, content)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
