package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"marquee/internal/services"
)

func (c *Controller) handleStats(ctx context.Context, ev *Event) error {
	users, err := c.users.TotalUsers(ctx)
	if err != nil {
		return c.presenter.SendText(ctx, ev.ChatID,
			services.UserMessage(services.Wrap(services.ErrTransient, "flow", "stats", "", err)))
	}
	posts, err := c.users.TotalPosts(ctx)
	if err != nil {
		return c.presenter.SendText(ctx, ev.ChatID,
			services.UserMessage(services.Wrap(services.ErrTransient, "flow", "stats", "", err)))
	}
	text := fmt.Sprintf("📊 Bot stats\n\nUsers: %d\nPosts: %d", users, posts)
	return c.presenter.SendText(ctx, ev.ChatID, text)
}

func (c *Controller) handleSetBan(ctx context.Context, ev *Event, banned bool) error {
	target, err := parseUserID(ev.Payload)
	if err != nil {
		return c.presenter.SendText(ctx, ev.ChatID, "💡 Usage: /ban <user id> or /unban <user id>.")
	}
	if err := c.users.SetBanned(ctx, target, banned); err != nil {
		c.logger.Warn("set ban failed", "target", target, "error", err)
		return c.presenter.SendText(ctx, ev.ChatID,
			services.UserMessage(services.Wrap(services.ErrTransient, "flow", "ban", ev.Payload, err)))
	}
	if banned {
		return c.presenter.SendText(ctx, ev.ChatID, fmt.Sprintf("🚫 User %d banned.", target))
	}
	return c.presenter.SendText(ctx, ev.ChatID, fmt.Sprintf("✅ User %d unbanned.", target))
}

func (c *Controller) handleSetPremium(ctx context.Context, ev *Event, premium bool) error {
	target, err := parseUserID(ev.Payload)
	if err != nil {
		return c.presenter.SendText(ctx, ev.ChatID, "💡 Usage: /premium <user id> or /revoke <user id>.")
	}
	if err := c.users.SetPremium(ctx, target, premium); err != nil {
		c.logger.Warn("set premium failed", "target", target, "error", err)
		return c.presenter.SendText(ctx, ev.ChatID,
			services.UserMessage(services.Wrap(services.ErrTransient, "flow", "premium", ev.Payload, err)))
	}
	if premium {
		return c.presenter.SendText(ctx, ev.ChatID, fmt.Sprintf("⭐ User %d upgraded to premium.", target))
	}
	return c.presenter.SendText(ctx, ev.ChatID, fmt.Sprintf("✅ Premium revoked for user %d.", target))
}

// runBroadcast fans the message out to every known user. Individual delivery
// failures (blocked bots, deleted accounts) are counted, not fatal.
func (c *Controller) runBroadcast(ctx context.Context, ev *Event, text string) error {
	ids, err := c.users.AllUserIDs(ctx)
	if err != nil {
		return c.presenter.SendText(ctx, ev.ChatID,
			services.UserMessage(services.Wrap(services.ErrTransient, "flow", "broadcast", "", err)))
	}

	delivered, failed := 0, 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.presenter.SendText(ctx, id, text); err != nil {
			c.logger.Debug("broadcast delivery failed", "user", id, "error", err)
			failed++
			continue
		}
		delivered++
	}

	if err := c.notifier.NotifyBroadcastCompleted(ctx, delivered, failed); err != nil {
		c.logger.Warn("broadcast notification failed", "error", err)
	}
	return c.presenter.SendText(ctx, ev.ChatID,
		fmt.Sprintf("📣 Broadcast delivered to %d users (%d failed).", delivered, failed))
}

func parseUserID(payload string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(payload), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("bad user id %q", payload)
	}
	return id, nil
}
