package notify_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marquee/internal/config"
	"marquee/internal/notify"
)

func TestUnconfiguredServiceIsNoop(t *testing.T) {
	cfg := config.Default()
	service := notify.NewService(&cfg)
	if err := service.NotifyDaemonStarted(context.Background(), "marquee_bot"); err != nil {
		t.Fatalf("noop service returned error: %v", err)
	}
}

func TestNotificationsCarryHeaders(t *testing.T) {
	type captured struct {
		title    string
		tags     string
		priority string
		body     string
	}
	var got captured

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		}
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	service := notify.NewService(&cfg)

	err := service.NotifyDistributionFailed(context.Background(), 42, "@posts", errors.New("forbidden"))
	if err != nil {
		t.Fatalf("NotifyDistributionFailed: %v", err)
	}
	if got.title != "Marquee - Distribution Failed" {
		t.Fatalf("unexpected title %q", got.title)
	}
	if got.priority != "high" {
		t.Fatalf("expected high priority, got %q", got.priority)
	}
	if !strings.Contains(got.body, "@posts") || !strings.Contains(got.body, "forbidden") {
		t.Fatalf("unexpected body %q", got.body)
	}
	if !strings.Contains(got.tags, "distribution") {
		t.Fatalf("unexpected tags %q", got.tags)
	}
}

func TestNotificationErrorStatusSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic rejected", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	service := notify.NewService(&cfg)

	err := service.TestNotification(context.Background())
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected 403 error, got %v", err)
	}
}
