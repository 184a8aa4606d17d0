package config

const (
	defaultDataDir             = "~/.local/share/reelog"
	defaultLogDir              = "~/.local/share/reelog/logs"
	defaultTelegramBaseURL     = "https://api.telegram.org"
	defaultTelegramPollTimeout = 30
	defaultTelegramReqTimeout  = 40
	defaultCatalogSeedPath     = "~/.config/reelog/imdb.csv"
	defaultCatalogFuzzyLimit   = 5
	defaultAutoFilmMinutes     = 120
	defaultAutoSeriesMinutes   = 45
	defaultLastLimit           = 5
	defaultRecommendLimit      = 5
	defaultProgressWindowDays  = 30
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Telegram: Telegram{
			BaseURL:        defaultTelegramBaseURL,
			PollTimeout:    defaultTelegramPollTimeout,
			RequestTimeout: defaultTelegramReqTimeout,
		},
		Catalog: Catalog{
			SeedPath:   defaultCatalogSeedPath,
			FuzzyLimit: defaultCatalogFuzzyLimit,
		},
		Diary: Diary{
			AutoFilmMinutes:    defaultAutoFilmMinutes,
			AutoSeriesMinutes:  defaultAutoSeriesMinutes,
			LastLimit:          defaultLastLimit,
			RecommendLimit:     defaultRecommendLimit,
			ProgressWindowDays: defaultProgressWindowDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
