package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable by the CLI and daemon alike.
// The Telegram token is checked separately by ValidateTelegram because
// offline CLI commands operate without one.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateDiary(); err != nil {
		return err
	}
	return nil
}

// ValidateTelegram ensures the bot transport credentials are present and
// well-formed. The daemon refuses to start without them.
func (c *Config) ValidateTelegram() error {
	token := strings.TrimSpace(c.Telegram.Token)
	if token == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/reelog/config.toml"
		}
		return fmt.Errorf("telegram.token is required. Set REELOG_BOT_TOKEN env var or edit %s (create with 'reelog config init')", defaultPath)
	}
	parts := strings.Split(token, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return errors.New("telegram.token must look like <bot id>:<secret>")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateDiary() error {
	if c.Diary.ProgressWindowDays < 1 {
		return errors.New("diary.progress_window_days must be at least 1")
	}
	if c.Diary.LastLimit < 1 || c.Diary.RecommendLimit < 1 {
		return errors.New("diary limits must be at least 1")
	}
	return nil
}
