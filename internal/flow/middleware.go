package flow

import (
	"context"
	"log/slog"

	"marquee/internal/store"
)

// Handler processes one user event.
type Handler func(ctx context.Context, ev *Event) error

// Middleware wraps a Handler with a cross-cutting check. Each stage either
// calls the next handler or terminates with a user-visible response.
type Middleware func(Handler) Handler

// Chain applies middlewares left to right around a terminal handler.
func Chain(handler Handler, middlewares ...Middleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// Tracking records every user contact and announces first-time users. Store
// failures are logged but never block the event.
func Tracking(users *store.Store, onNewUser func(ctx context.Context, ev *Event), logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, ev *Event) error {
			isNew, err := users.UpsertUser(ctx, ev.UserID, ev.Username, ev.FirstName)
			if err != nil {
				logger.Warn("user tracking failed", "user", ev.UserID, "error", err)
			} else if isNew && onNewUser != nil {
				onNewUser(ctx, ev)
			}
			return next(ctx, ev)
		}
	}
}

// BanCheck terminates events from banned users with a fixed response. A
// failed ban lookup fails open so a store hiccup cannot lock everyone out.
func BanCheck(users *store.Store, respond func(ctx context.Context, ev *Event, text string) error, logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, ev *Event) error {
			banned, err := users.IsBanned(ctx, ev.UserID)
			if err != nil {
				logger.Warn("ban check failed", "user", ev.UserID, "error", err)
				return next(ctx, ev)
			}
			if banned {
				return respond(ctx, ev, "🚫 You are banned from using this bot.")
			}
			return next(ctx, ev)
		}
	}
}

// AdminGate terminates admin-only actions from non-operators.
func AdminGate(isAdmin func(userID int64) bool, respond func(ctx context.Context, ev *Event, text string) error) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, ev *Event) error {
			if adminActions[ev.Action] && !isAdmin(ev.UserID) {
				return respond(ctx, ev, "⛔ This command is for admins only.")
			}
			return next(ctx, ev)
		}
	}
}
