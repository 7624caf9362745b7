package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"marquee/internal/config"
	"marquee/internal/flow"
	"marquee/internal/logging"
	"marquee/internal/media"
)

const (
	pollTimeoutSeconds = 30
	maxPhotoBytes      = 16 << 20
)

// Bot long-polls Telegram and feeds updates to the conversation flow.
type Bot struct {
	api      *tgbotapi.BotAPI
	client   *http.Client
	logger   *slog.Logger
	username string
}

// NewBot connects to the Bot API and verifies the token.
func NewBot(cfg *config.Config, logger *slog.Logger) (*Bot, error) {
	if cfg.Bot.Token == "" {
		return nil, errors.New("telegram bot token required")
	}

	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}

	timeout := time.Duration(cfg.Card.FetchTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Bot{
		api:      api,
		client:   &http.Client{Timeout: timeout},
		logger:   logging.WithComponent(logger, "telegram"),
		username: api.Self.UserName,
	}, nil
}

// Username returns the authenticated bot account name.
func (b *Bot) Username() string {
	return b.username
}

// Run consumes updates until ctx is cancelled. Each event is handled on its
// own goroutine; concurrent events for the same user resolve through the
// session store's last-write-wins model.
func (b *Bot) Run(ctx context.Context, handler flow.Handler) error {
	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = pollTimeoutSeconds
	updateCfg.AllowedUpdates = []string{"message", "callback_query"}

	updates := b.api.GetUpdatesChan(updateCfg)
	b.logger.Info("long polling started", "bot", b.username)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			event := b.toEvent(ctx, &update)
			if event == nil {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := handler(ctx, event); err != nil {
					b.logger.Error("event handling failed",
						"event", event.EventID, "user", event.UserID, "action", event.Action, "error", err)
				}
			}()
		}
	}
}

// toEvent converts one Telegram update into a flow event, or nil when the
// update carries nothing actionable.
func (b *Bot) toEvent(ctx context.Context, update *tgbotapi.Update) *flow.Event {
	switch {
	case update.CallbackQuery != nil:
		return b.callbackEvent(update.CallbackQuery)
	case update.Message != nil:
		return b.messageEvent(ctx, update.Message)
	default:
		return nil
	}
}

func (b *Bot) callbackEvent(query *tgbotapi.CallbackQuery) *flow.Event {
	// Always acknowledge so the client stops its spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Debug("callback ack failed", "error", err)
	}
	if query.From == nil || query.Message == nil {
		return nil
	}

	action, category, payload, err := flow.ParseCallback(query.Data)
	if err != nil {
		b.logger.Warn("unparseable callback dropped", "data", query.Data, "error", err)
		return nil
	}

	event := flow.NewEvent(query.From.ID, query.Message.Chat.ID, action)
	event.Username = query.From.UserName
	event.FirstName = query.From.FirstName
	event.Category = category
	event.Payload = payload
	return event
}

func (b *Bot) messageEvent(ctx context.Context, message *tgbotapi.Message) *flow.Event {
	if message.From == nil || message.Chat == nil {
		return nil
	}

	event := flow.NewEvent(message.From.ID, message.Chat.ID, flow.ActionText)
	event.Username = message.From.UserName
	event.FirstName = message.From.FirstName

	if message.IsCommand() {
		action, category, payload, ok := commandAction(message.Command(), message.CommandArguments())
		if !ok {
			return nil
		}
		event.Action = action
		event.Category = category
		event.Payload = payload
		return event
	}

	if len(message.Photo) > 0 {
		data := b.downloadPhoto(ctx, message.Photo)
		if data == nil {
			return nil
		}
		event.Action = flow.ActionPhoto
		event.Image = data
		return event
	}

	if message.Text == "" {
		return nil
	}
	event.Payload = message.Text
	return event
}

// commandAction maps slash commands onto flow actions. The per-category
// commands accept an inline query, so "/movie Inception" searches right away.
func commandAction(command, args string) (flow.Action, media.Category, string, bool) {
	if category, ok := media.ParseCategory(command); ok {
		return flow.ActionChooseCategory, category, args, true
	}

	switch command {
	case "start", "help":
		return flow.ActionStart, "", "", true
	case "post", "newpost":
		return flow.ActionNewPost, "", "", true
	case "cancel":
		return flow.ActionCancel, "", "", true
	case "settings":
		return flow.ActionSettings, "", "", true
	case "setwatermark":
		return flow.ActionSetWatermark, "", "", true
	case "setchannel":
		return flow.ActionSetChannel, "", "", true
	case "templates", "setformat":
		category, _ := media.ParseCategory(args)
		return flow.ActionTemplates, category, "", true
	case "stats":
		return flow.ActionStats, "", "", true
	case "ban":
		return flow.ActionBan, "", args, true
	case "unban":
		return flow.ActionUnban, "", args, true
	case "premium":
		return flow.ActionPremium, "", args, true
	case "revoke":
		return flow.ActionRevoke, "", args, true
	case "broadcast":
		return flow.ActionBroadcast, "", "", true
	default:
		return "", "", "", false
	}
}

// downloadPhoto fetches the highest-resolution rendition of an uploaded photo.
func (b *Bot) downloadPhoto(ctx context.Context, sizes []tgbotapi.PhotoSize) []byte {
	largest := sizes[len(sizes)-1]

	url, err := b.api.GetFileDirectURL(largest.FileID)
	if err != nil {
		b.logger.Warn("photo file lookup failed", "file", largest.FileID, "error", err)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}
	resp, err := b.client.Do(req)
	if err != nil {
		b.logger.Warn("photo download failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b.logger.Warn("photo download rejected", "status", resp.StatusCode)
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes+1))
	if err != nil || len(data) > maxPhotoBytes {
		b.logger.Warn("photo payload unusable", "bytes", len(data), "error", err)
		return nil
	}
	return data
}
