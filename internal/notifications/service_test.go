package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookferry/internal/config"
	"bookferry/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyMigrationCompleted(context.Background(), "sync-archived", 10, 0, time.Minute); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

type captured struct {
	title    string
	tags     string
	priority string
	body     string
}

func newCapturingService(t *testing.T, mutate func(*config.Config)) (notifications.Service, *captured) {
	t.Helper()
	got := &captured{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.title = r.Header.Get("Title")
		got.tags = r.Header.Get("Tags")
		got.priority = r.Header.Get("Priority")
		body, _ := io.ReadAll(r.Body)
		got.body = string(body)
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	if mutate != nil {
		mutate(&cfg)
	}
	return notifications.NewService(&cfg), got
}

func TestNotifyMigrationCompleted(t *testing.T) {
	svc, got := newCapturingService(t, nil)

	err := svc.NotifyMigrationCompleted(context.Background(), "sync-archived", 120, 0, 90*time.Second)
	if err != nil {
		t.Fatalf("NotifyMigrationCompleted: %v", err)
	}
	if got.title != "bookferry - sync-archived complete" {
		t.Errorf("title = %q", got.title)
	}
	if got.body != "sync-archived complete: 120 records processed in 1m30s" {
		t.Errorf("body = %q", got.body)
	}
	if got.tags != "bookferry,migration,completed" {
		t.Errorf("tags = %q", got.tags)
	}
}

func TestNotifyMigrationCompletedWithFailures(t *testing.T) {
	svc, got := newCapturingService(t, nil)

	if err := svc.NotifyMigrationCompleted(context.Background(), "import-highlights", 8, 2, time.Second); err != nil {
		t.Fatal(err)
	}
	if got.title != "bookferry - import-highlights complete (with errors)" {
		t.Errorf("title = %q", got.title)
	}
	if got.body != "import-highlights complete: 8 succeeded, 2 failed in 1s" {
		t.Errorf("body = %q", got.body)
	}
}

func TestNotifyMigrationFailedUsesHighPriority(t *testing.T) {
	svc, got := newCapturingService(t, nil)

	if err := svc.NotifyMigrationFailed(context.Background(), "sync-archived", errors.New("api unreachable")); err != nil {
		t.Fatal(err)
	}
	if got.priority != "high" {
		t.Errorf("priority = %q", got.priority)
	}
	if got.body != "sync-archived failed: api unreachable" {
		t.Errorf("body = %q", got.body)
	}
}

func TestProgressNotificationsCanBeDisabled(t *testing.T) {
	svc, got := newCapturingService(t, func(cfg *config.Config) {
		cfg.Notifications.Migration = false
	})

	if err := svc.NotifyCachePopulated(context.Background(), 500); err != nil {
		t.Fatal(err)
	}
	if got.body != "" {
		t.Errorf("disabled progress notification still sent: %q", got.body)
	}
}

func TestTestNotification(t *testing.T) {
	svc, got := newCapturingService(t, nil)
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got.priority != "low" || got.title != "bookferry - test" {
		t.Errorf("title = %q priority = %q", got.title, got.priority)
	}
}
