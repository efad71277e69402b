package config

const (
	defaultKarakeepBaseURL      = "http://localhost:3000/api/v1"
	defaultKarakeepTimeout      = 30
	defaultKarakeepRateInterval = 1
	defaultKarakeepRetries      = 3
	defaultFuzzyTitleThreshold  = 0.95
	defaultDuplicateThreshold   = 0.92
	defaultSelfURLPrefix        = "https://omnivore.app"
	defaultLocatorStepFactor    = 500
	defaultCacheDir             = "~/.cache/bookferry"
	defaultNotifyTimeout        = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Karakeep: Karakeep{
			BaseURL:             defaultKarakeepBaseURL,
			TimeoutSeconds:      defaultKarakeepTimeout,
			RateIntervalSeconds: defaultKarakeepRateInterval,
			Retries:             defaultKarakeepRetries,
		},
		Matcher: Matcher{
			FuzzyTitleThreshold: defaultFuzzyTitleThreshold,
			DuplicateThreshold:  defaultDuplicateThreshold,
			SelfURLPrefixes:     []string{defaultSelfURLPrefix},
		},
		Locator: Locator{
			StepFactor:    defaultLocatorStepFactor,
			CaseSensitive: true,
		},
		Cache: Cache{
			Enabled: true,
			Dir:     defaultCacheDir,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Migration:      true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
