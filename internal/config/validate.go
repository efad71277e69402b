package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateKarakeep(); err != nil {
		return err
	}
	if err := c.validateMatcher(); err != nil {
		return err
	}
	if err := c.validateLocator(); err != nil {
		return err
	}
	return c.validateNotifications()
}

func (c *Config) validateKarakeep() error {
	if c.Karakeep.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/bookferry/config.toml"
		}
		return fmt.Errorf("karakeep.api_key is required. Set BOOKFERRY_API_KEY env var or edit %s (create with 'bookferry config init')", defaultPath)
	}
	if c.Karakeep.BaseURL == "" {
		return errors.New("karakeep.base_url must be set")
	}
	return nil
}

func (c *Config) validateMatcher() error {
	if c.Matcher.FuzzyTitleThreshold <= 0 || c.Matcher.FuzzyTitleThreshold > 1 {
		return errors.New("matcher.fuzzy_title_threshold must be in (0, 1]")
	}
	if c.Matcher.DuplicateThreshold <= 0 || c.Matcher.DuplicateThreshold > 1 {
		return errors.New("matcher.duplicate_threshold must be in (0, 1]")
	}
	return nil
}

func (c *Config) validateLocator() error {
	if c.Locator.StepFactor < 1 {
		return errors.New("locator.step_factor must be >= 1")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}
