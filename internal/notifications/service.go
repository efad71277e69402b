package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bookferry/internal/config"
)

const userAgent = "bookferry/0.1.0"

// Service defines the notification surface exposed to migration runs.
type Service interface {
	NotifyMigrationCompleted(ctx context.Context, operation string, processed, failed int, duration time.Duration) error
	NotifyMigrationFailed(ctx context.Context, operation string, err error) error
	NotifyCachePopulated(ctx context.Context, count int) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when
// configured. When no topic is configured, a noop implementation is
// returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	endpoint := topic
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://ntfy.sh/" + endpoint
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:     endpoint,
		client:       &http.Client{Timeout: timeout},
		sendProgress: cfg.Notifications.Migration,
		sendErrors:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint     string
	client       *http.Client
	sendProgress bool
	sendErrors   bool
}

func (n *ntfyService) NotifyMigrationCompleted(ctx context.Context, operation string, processed, failed int, duration time.Duration) error {
	if !n.sendProgress {
		return nil
	}
	operation = strings.TrimSpace(operation)
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	var title, message string
	if failed == 0 {
		title = "bookferry - " + operation + " complete"
		message = fmt.Sprintf("%s complete: %d records processed in %s", operation, processed, duration)
	} else {
		title = "bookferry - " + operation + " complete (with errors)"
		message = fmt.Sprintf("%s complete: %d succeeded, %d failed in %s", operation, processed, failed, duration)
	}

	return n.send(ctx, payload{
		title:   title,
		message: message,
		tags:    []string{"bookferry", "migration", "completed"},
	})
}

func (n *ntfyService) NotifyMigrationFailed(ctx context.Context, operation string, err error) error {
	if !n.sendErrors {
		return nil
	}
	operation = strings.TrimSpace(operation)
	message := operation + " failed"
	if err != nil {
		message += ": " + strings.TrimSpace(err.Error())
	}
	return n.send(ctx, payload{
		title:    "bookferry - " + operation + " failed",
		message:  message,
		tags:     []string{"bookferry", "migration", "error"},
		priority: "high",
	})
}

func (n *ntfyService) NotifyCachePopulated(ctx context.Context, count int) error {
	if !n.sendProgress {
		return nil
	}
	return n.send(ctx, payload{
		title:   "bookferry - cache populated",
		message: fmt.Sprintf("Bookmark cache refreshed with %d bookmarks", count),
		tags:    []string{"bookferry", "cache", "completed"},
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "bookferry - test",
		message:  "Notification system test",
		tags:     []string{"bookferry", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyMigrationCompleted(context.Context, string, int, int, time.Duration) error {
	return nil
}

func (noopService) NotifyMigrationFailed(context.Context, string, error) error { return nil }

func (noopService) NotifyCachePopulated(context.Context, int) error { return nil }

func (noopService) TestNotification(context.Context) error { return nil }
