package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"marquee/internal/config"
)

const userAgent = "Marquee/0.1.0"

// Service defines the operator notification surface.
type Service interface {
	NotifyDaemonStarted(ctx context.Context, username string) error
	NotifyDaemonStopped(ctx context.Context) error
	NotifyNewUser(ctx context.Context, userID int64, username string) error
	NotifyDistributionFailed(ctx context.Context, userID int64, target string, err error) error
	NotifyBroadcastCompleted(ctx context.Context, delivered, failed int) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyDaemonStarted(ctx context.Context, username string) error {
	message := "Bot started"
	if username = strings.TrimSpace(username); username != "" {
		message = fmt.Sprintf("Bot started as @%s", username)
	}
	return n.send(ctx, payload{
		title:   "Marquee - Started",
		message: message,
		tags:    []string{"marquee", "daemon", "started"},
	})
}

func (n *ntfyService) NotifyDaemonStopped(ctx context.Context) error {
	return n.send(ctx, payload{
		title:   "Marquee - Stopped",
		message: "Bot shut down",
		tags:    []string{"marquee", "daemon", "stopped"},
	})
}

func (n *ntfyService) NotifyNewUser(ctx context.Context, userID int64, username string) error {
	label := strings.TrimSpace(username)
	if label == "" {
		label = fmt.Sprintf("id %d", userID)
	} else {
		label = "@" + label
	}
	return n.send(ctx, payload{
		title:   "Marquee - New User",
		message: fmt.Sprintf("New user: %s", label),
		tags:    []string{"marquee", "user", "new"},
	})
}

func (n *ntfyService) NotifyDistributionFailed(ctx context.Context, userID int64, target string, err error) error {
	message := fmt.Sprintf("Post to %s failed for user %d", strings.TrimSpace(target), userID)
	if err != nil {
		message = fmt.Sprintf("%s: %s", message, strings.TrimSpace(err.Error()))
	}
	return n.send(ctx, payload{
		title:    "Marquee - Distribution Failed",
		message:  message,
		tags:     []string{"marquee", "distribution", "error"},
		priority: "high",
	})
}

func (n *ntfyService) NotifyBroadcastCompleted(ctx context.Context, delivered, failed int) error {
	message := fmt.Sprintf("Broadcast delivered to %d users", delivered)
	if failed > 0 {
		message = fmt.Sprintf("%s, %d failed", message, failed)
	}
	return n.send(ctx, payload{
		title:   "Marquee - Broadcast Complete",
		message: message,
		tags:    []string{"marquee", "broadcast", "completed"},
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "Marquee - Test",
		message:  "Notification system test",
		tags:     []string{"marquee", "test"},
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

func (noopService) NotifyDaemonStarted(context.Context, string) error                    { return nil }
func (noopService) NotifyDaemonStopped(context.Context) error                            { return nil }
func (noopService) NotifyNewUser(context.Context, int64, string) error                   { return nil }
func (noopService) NotifyDistributionFailed(context.Context, int64, string, error) error { return nil }
func (noopService) NotifyBroadcastCompleted(context.Context, int, int) error             { return nil }
func (noopService) TestNotification(context.Context) error                               { return nil }
