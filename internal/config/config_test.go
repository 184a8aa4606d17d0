package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelog/internal/config"
)

func TestLoadDefaultConfigUsesEnvTokenAndExpandsPaths(t *testing.T) {
	t.Setenv("REELOG_BOT_TOKEN", "42:secret")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "reelog")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Telegram.Token != "42:secret" {
		t.Fatalf("expected token from env, got %q", cfg.Telegram.Token)
	}
	if cfg.Telegram.BaseURL != "https://api.telegram.org" {
		t.Fatalf("unexpected telegram base url: %q", cfg.Telegram.BaseURL)
	}
	if cfg.Diary.AutoFilmMinutes != 120 || cfg.Diary.AutoSeriesMinutes != 45 {
		t.Fatalf("unexpected auto durations: %+v", cfg.Diary)
	}
	if cfg.Diary.ProgressWindowDays != 30 {
		t.Fatalf("unexpected progress window: %d", cfg.Diary.ProgressWindowDays)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "reelog.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
}

func TestLoadReadsTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[telegram]",
		`token = "99:abc"`,
		`base_url = "https://example.test/"`,
		"",
		"[diary]",
		"auto_film_minutes = 90",
		"",
		"[logging]",
		`format = "json"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to be loaded, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Telegram.Token != "99:abc" {
		t.Fatalf("unexpected token: %q", cfg.Telegram.Token)
	}
	if cfg.Telegram.BaseURL != "https://example.test" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Telegram.BaseURL)
	}
	if cfg.Diary.AutoFilmMinutes != 90 {
		t.Fatalf("unexpected auto_film_minutes: %d", cfg.Diary.AutoFilmMinutes)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "fancy"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for bad log format")
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"verbose\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected Load to fail on bad log level")
	}
}

func TestValidateTelegram(t *testing.T) {
	cfg := config.Default()
	if err := cfg.ValidateTelegram(); err == nil {
		t.Fatal("expected error when token missing")
	}

	cfg.Telegram.Token = "notatoken"
	if err := cfg.ValidateTelegram(); err == nil {
		t.Fatal("expected error for malformed token")
	}

	cfg.Telegram.Token = "123456:ABC-DEF"
	if err := cfg.ValidateTelegram(); err != nil {
		t.Fatalf("unexpected error for valid token: %v", err)
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[telegram]") {
		t.Fatal("sample config missing telegram section")
	}
}
