package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTelegram(); err != nil {
		return err
	}
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	c.normalizeDiary()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTelegram() error {
	if c.Telegram.Token == "" {
		if value, ok := os.LookupEnv("REELOG_BOT_TOKEN"); ok {
			c.Telegram.Token = strings.TrimSpace(value)
		}
	}
	c.Telegram.Token = strings.TrimSpace(c.Telegram.Token)
	c.Telegram.BaseURL = strings.TrimRight(strings.TrimSpace(c.Telegram.BaseURL), "/")
	if c.Telegram.BaseURL == "" {
		c.Telegram.BaseURL = defaultTelegramBaseURL
	}
	if c.Telegram.PollTimeout <= 0 {
		c.Telegram.PollTimeout = defaultTelegramPollTimeout
	}
	if c.Telegram.RequestTimeout <= 0 {
		c.Telegram.RequestTimeout = defaultTelegramReqTimeout
	}
	return nil
}

func (c *Config) normalizeCatalog() error {
	var err error
	if strings.TrimSpace(c.Catalog.SeedPath) == "" {
		c.Catalog.SeedPath = defaultCatalogSeedPath
	}
	if c.Catalog.SeedPath, err = expandPath(c.Catalog.SeedPath); err != nil {
		return fmt.Errorf("catalog.seed_path: %w", err)
	}
	if c.Catalog.FuzzyLimit <= 0 {
		c.Catalog.FuzzyLimit = defaultCatalogFuzzyLimit
	}
	return nil
}

func (c *Config) normalizeDiary() {
	if c.Diary.AutoFilmMinutes <= 0 {
		c.Diary.AutoFilmMinutes = defaultAutoFilmMinutes
	}
	if c.Diary.AutoSeriesMinutes <= 0 {
		c.Diary.AutoSeriesMinutes = defaultAutoSeriesMinutes
	}
	if c.Diary.LastLimit <= 0 {
		c.Diary.LastLimit = defaultLastLimit
	}
	if c.Diary.RecommendLimit <= 0 {
		c.Diary.RecommendLimit = defaultRecommendLimit
	}
	if c.Diary.ProgressWindowDays <= 0 {
		c.Diary.ProgressWindowDays = defaultProgressWindowDays
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
