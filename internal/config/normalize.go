package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeKarakeep(); err != nil {
		return err
	}
	c.normalizeMatcher()
	c.normalizeLocator()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	if err := c.normalizeExports(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeKarakeep() error {
	c.Karakeep.BaseURL = strings.TrimSpace(c.Karakeep.BaseURL)
	if value, ok := os.LookupEnv("BOOKFERRY_BASE_URL"); ok && strings.TrimSpace(value) != "" {
		c.Karakeep.BaseURL = strings.TrimSpace(value)
	}
	if c.Karakeep.BaseURL == "" {
		c.Karakeep.BaseURL = defaultKarakeepBaseURL
	}
	c.Karakeep.BaseURL = strings.TrimRight(c.Karakeep.BaseURL, "/")

	c.Karakeep.APIKey = strings.TrimSpace(c.Karakeep.APIKey)
	if c.Karakeep.APIKey == "" {
		if value, ok := os.LookupEnv("BOOKFERRY_API_KEY"); ok {
			c.Karakeep.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("KARAKEEP_API_KEY"); ok {
			c.Karakeep.APIKey = strings.TrimSpace(value)
		}
	}

	if c.Karakeep.TimeoutSeconds <= 0 {
		c.Karakeep.TimeoutSeconds = defaultKarakeepTimeout
	}
	if c.Karakeep.RateIntervalSeconds < 0 {
		c.Karakeep.RateIntervalSeconds = defaultKarakeepRateInterval
	}
	if c.Karakeep.Retries <= 0 {
		c.Karakeep.Retries = defaultKarakeepRetries
	}
	return nil
}

func (c *Config) normalizeMatcher() {
	if c.Matcher.FuzzyTitleThreshold == 0 {
		c.Matcher.FuzzyTitleThreshold = defaultFuzzyTitleThreshold
	}
	if c.Matcher.DuplicateThreshold == 0 {
		c.Matcher.DuplicateThreshold = defaultDuplicateThreshold
	}
	if c.Matcher.SelfURLPrefixes == nil {
		c.Matcher.SelfURLPrefixes = []string{defaultSelfURLPrefix}
	}
	prefixes := c.Matcher.SelfURLPrefixes[:0]
	for _, prefix := range c.Matcher.SelfURLPrefixes {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" {
			prefixes = append(prefixes, trimmed)
		}
	}
	c.Matcher.SelfURLPrefixes = prefixes
	if c.Matcher.Workers < 0 {
		c.Matcher.Workers = 0
	}
}

func (c *Config) normalizeLocator() {
	if c.Locator.StepFactor <= 0 {
		c.Locator.StepFactor = defaultLocatorStepFactor
	}
	if c.Locator.Workers < 0 {
		c.Locator.Workers = 0
	}
}

func (c *Config) normalizeCache() error {
	var err error
	if strings.TrimSpace(c.Cache.Dir) == "" {
		c.Cache.Dir = defaultCacheDir
	}
	if c.Cache.Dir, err = expandPath(c.Cache.Dir); err != nil {
		return fmt.Errorf("cache.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeExports() error {
	var err error
	if strings.TrimSpace(c.Exports.OmnivoreDir) != "" {
		if c.Exports.OmnivoreDir, err = expandPath(c.Exports.OmnivoreDir); err != nil {
			return fmt.Errorf("exports.omnivore_dir: %w", err)
		}
	}
	if strings.TrimSpace(c.Exports.PocketCSV) != "" {
		if c.Exports.PocketCSV, err = expandPath(c.Exports.PocketCSV); err != nil {
			return fmt.Errorf("exports.pocket_csv: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
}
