package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"

	"bookferry/internal/bookmarkcache"
	"bookferry/internal/bookmarkmatch"
	"bookferry/internal/config"
	"bookferry/internal/karakeep"
	"bookferry/internal/logging"
	"bookferry/internal/migrate"
	"bookferry/internal/notifications"
	"bookferry/internal/textlocate"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	notifier notifications.Service
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:    cfg.Logging.Level,
			Format:   cfg.Logging.Format,
			FilePath: cfg.Logging.File,
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) ensureNotifier() (notifications.Service, error) {
	if c.notifier != nil {
		return c.notifier, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.notifier = notifications.NewService(cfg)
	return c.notifier, nil
}

func (c *commandContext) newClient() (*karakeep.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return karakeep.New(cfg.Karakeep.BaseURL, cfg.Karakeep.APIKey,
		karakeep.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Karakeep.TimeoutSeconds) * time.Second}),
		karakeep.WithRateInterval(time.Duration(cfg.Karakeep.RateIntervalSeconds)*time.Second),
		karakeep.WithRetries(cfg.Karakeep.Retries),
	)
}

// newRunner assembles a migration runner from the resolved configuration.
func (c *commandContext) newRunner(dryRun bool, failureLog string) (*migrate.Runner, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	client, err := c.newClient()
	if err != nil {
		return nil, err
	}
	matcher, err := bookmarkmatch.NewMatcher(cfg.Matcher.FuzzyTitleThreshold, cfg.Matcher.SelfURLPrefixes)
	if err != nil {
		return nil, err
	}
	notifier, err := c.ensureNotifier()
	if err != nil {
		return nil, err
	}

	return migrate.NewRunner(client, matcher, notifier, logger, migrate.Options{
		DryRun:  dryRun,
		Workers: cfg.Matcher.Workers,
		Locator: textlocate.Options{
			CaseSensitive: cfg.Locator.CaseSensitive,
			StepFactor:    cfg.Locator.StepFactor,
			Workers:       cfg.Locator.Workers,
		},
		FailureLog:   failureLog,
		LockPath:     filepath.Join(cfg.Cache.Dir, "bookferry.lock"),
		ShowProgress: stdoutIsTerminal(),
	}), nil
}

// populateCache refreshes the store from the API and announces the new
// cache size. Notification failures never fail the refresh.
func (c *commandContext) populateCache(ctx context.Context, store *bookmarkcache.Store, client bookmarkcache.Fetcher, opts bookmarkcache.PopulateOptions) (int, error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return 0, err
	}
	notifier, err := c.ensureNotifier()
	if err != nil {
		return 0, err
	}
	count, err := store.Populate(ctx, client, logger, opts)
	if err != nil {
		return 0, err
	}
	_ = notifier.NotifyCachePopulated(ctx, count)
	return count, nil
}

// loadCandidates returns the match candidate set, preferring the local
// cache when it is enabled. An empty cache is populated first.
func (c *commandContext) loadCandidates(ctx context.Context) ([]bookmarkmatch.Candidate, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Cache.Enabled {
		return c.fetchCandidates(ctx)
	}

	store, err := bookmarkcache.Open(cfg.Cache.Dir)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	count, err := store.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		client, err := c.newClient()
		if err != nil {
			return nil, err
		}
		if _, err := c.populateCache(ctx, store, client, bookmarkcache.PopulateOptions{
			ShowProgress: stdoutIsTerminal(),
		}); err != nil {
			return nil, fmt.Errorf("populate bookmark cache: %w", err)
		}
	}
	return store.Candidates(ctx)
}

// fetchCandidates pages the live collection without touching the cache.
func (c *commandContext) fetchCandidates(ctx context.Context) ([]bookmarkmatch.Candidate, error) {
	client, err := c.newClient()
	if err != nil {
		return nil, err
	}

	var candidates []bookmarkmatch.Candidate
	cursor := ""
	for {
		page, err := client.ListBookmarks(ctx, karakeep.ListBookmarksOptions{Cursor: cursor})
		if err != nil {
			return nil, fmt.Errorf("fetch bookmark page: %w", err)
		}
		for _, bookmark := range page.Bookmarks {
			candidates = append(candidates, bookmarkcache.Candidate(bookmark))
		}
		if page.NextCursor == nil || *page.NextCursor == "" {
			break
		}
		cursor = *page.NextCursor
	}
	return candidates, nil
}

func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
