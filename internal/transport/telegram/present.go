package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"marquee/internal/media"
	"marquee/internal/store"
)

// SendText delivers a plain text reply.
func (b *Bot) SendText(_ context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}

// SendCategoryMenu shows the post-category picker.
func (b *Bot) SendCategoryMenu(_ context.Context, chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "🎯 What kind of post are we making?")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎬 Movie", "cat_movie"),
			tgbotapi.NewInlineKeyboardButtonData("📺 TV Show", "cat_series"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎌 Anime", "cat_anime"),
			tgbotapi.NewInlineKeyboardButtonData("📚 Manhwa", "cat_comic"),
		),
	)
	_, err := b.api.Send(msg)
	return err
}

// SendSearchResults lists matches as one button per result.
func (b *Bot) SendSearchResults(_ context.Context, chatID int64, category media.Category, results []media.Slim) error {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(results)+1)
	for _, result := range results {
		label := result.Title
		if result.Year != "" {
			label = fmt.Sprintf("%s (%s)", result.Title, result.Year)
		}
		data := fmt.Sprintf("%s_select_%d", category, result.ID)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, data)))
	}
	rows = append(rows, cancelRow())

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🔍 Found %d results. Pick one:", len(results)))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err := b.api.Send(msg)
	return err
}

// SendThumbnailPrompt asks for an optional custom thumbnail.
func (b *Bot) SendThumbnailPrompt(_ context.Context, chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "🖼 Send a photo to use as the card, or skip to build one from the poster.")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏭ Skip", "thumb_skip"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "flow_cancel"),
		),
	)
	_, err := b.api.Send(msg)
	return err
}

// SendPreview shows the finished card with its caption and the action row.
// Stored template names become one switch button each.
func (b *Bot) SendPreview(_ context.Context, chatID int64, image []byte, caption string, templateNames []string) error {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📤 Post", "preview_post"),
			tgbotapi.NewInlineKeyboardButtonData("🔁 Redo thumbnail", "preview_redo"),
		),
	}

	templateRow := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("🧾 Default style", "tpl_default"),
	}
	for _, name := range templateNames {
		templateRow = append(templateRow,
			tgbotapi.NewInlineKeyboardButtonData("🎨 "+name, "tpl_use_"+name))
	}
	rows = append(rows, templateRow, cancelRow())

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "card.jpg", Bytes: image})
	photo.Caption = truncateCaption(caption)
	photo.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err := b.api.Send(photo)
	return err
}

// SendTemplateList shows stored templates for a category with activation
// buttons and a create button.
func (b *Bot) SendTemplateList(_ context.Context, chatID int64, category media.Category, templates []store.Template) error {
	var text strings.Builder
	fmt.Fprintf(&text, "🧾 %s templates\n\n", category.DisplayName())
	if len(templates) == 0 {
		text.WriteString("No custom templates yet. The built-in style is used.")
	} else {
		for _, tpl := range templates {
			marker := "  "
			if tpl.Active {
				marker = "✅ "
			}
			fmt.Fprintf(&text, "%s%s\n", marker, tpl.Name)
		}
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(templates)+1)
	for _, tpl := range templates {
		data := fmt.Sprintf("tplact_%s_%s", category, tpl.Name)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Use "+tpl.Name, data)))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ New template", "tplnew_"+string(category))))

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err := b.api.Send(msg)
	return err
}

// Distribute posts the card and caption to the user's channel. The target is
// either an @username or a numeric chat ID.
func (b *Bot) Distribute(_ context.Context, target string, image []byte, caption string) error {
	file := tgbotapi.FileBytes{Name: "card.jpg", Bytes: image}

	var photo tgbotapi.PhotoConfig
	if id, err := strconv.ParseInt(target, 10, 64); err == nil {
		photo = tgbotapi.NewPhoto(id, file)
	} else {
		photo = tgbotapi.NewPhotoToChannel(normalizeChannel(target), file)
	}
	photo.Caption = truncateCaption(caption)

	if _, err := b.api.Send(photo); err != nil {
		return fmt.Errorf("post to %s: %w", target, err)
	}
	return nil
}

func cancelRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "flow_cancel"))
}

func normalizeChannel(target string) string {
	target = strings.TrimSpace(target)
	if target == "" || strings.HasPrefix(target, "@") {
		return target
	}
	return "@" + target
}

// truncateCaption keeps captions under the Bot API's 1024-character photo
// caption limit.
func truncateCaption(caption string) string {
	const limit = 1024
	runes := []rune(caption)
	if len(runes) <= limit {
		return caption
	}
	return string(runes[:limit-1]) + "…"
}
