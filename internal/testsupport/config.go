package testsupport

import (
	"path/filepath"
	"testing"

	"reelog/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Catalog.SeedPath = filepath.Join(base, "imdb.csv")
	cfg.Telegram.Token = "12345:test-token"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithToken sets the Telegram token on the test config.
func WithToken(token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Telegram.Token = token
	}
}

// WithSeedPath overrides the catalog seed file location.
func WithSeedPath(path string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Catalog.SeedPath = path
	}
}
