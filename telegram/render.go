package telegram

import (
	"context"

	"concierge/models"
	"concierge/utils"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// render sends the engine's reply messages to one chat: text with an inline
// keyboard when buttons are present, then a media group per photo album.
func (t *Bot) render(ctx context.Context, chatID int64, messages []models.Outbound) {
	for _, msg := range messages {
		if msg.Text != "" {
			params := &bot.SendMessageParams{
				ChatID: chatID,
				Text:   msg.Text,
			}
			if kb := inlineKeyboard(msg.Buttons); kb != nil {
				params.ReplyMarkup = kb
			}
			if _, err := t.api.SendMessage(ctx, params); err != nil {
				utils.GetLogger().Error("Failed to send Telegram message", zap.Int64("chatID", chatID), zap.Error(err))
			}
		}

		for _, album := range msg.Albums {
			t.sendAlbum(ctx, chatID, album)
		}
	}
}

func (t *Bot) sendText(ctx context.Context, chatID int64, text string) {
	if _, err := t.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		utils.GetLogger().Error("Failed to send Telegram message", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

func (t *Bot) sendAlbum(ctx context.Context, chatID int64, album models.PhotoAlbum) {
	if len(album.URLs) == 0 {
		return
	}

	media := make([]tgmodels.InputMedia, 0, len(album.URLs))
	for i, url := range album.URLs {
		photo := &tgmodels.InputMediaPhoto{Media: url}
		if i == 0 {
			photo.Caption = album.Caption
		}
		media = append(media, photo)
	}

	if _, err := t.api.SendMediaGroup(ctx, &bot.SendMediaGroupParams{
		ChatID: chatID,
		Media:  media,
	}); err != nil {
		utils.GetLogger().Error("Failed to send Telegram media group", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

// inlineKeyboard maps transport-agnostic buttons onto Telegram's inline
// keyboard, one button per row.
func inlineKeyboard(buttons []models.Button) *tgmodels.InlineKeyboardMarkup {
	if len(buttons) == 0 {
		return nil
	}

	rows := make([][]tgmodels.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		btn := tgmodels.InlineKeyboardButton{Text: b.Label}
		if b.URL != "" {
			btn.URL = b.URL
		} else {
			btn.CallbackData = b.Data
		}
		rows = append(rows, []tgmodels.InlineKeyboardButton{btn})
	}
	return &tgmodels.InlineKeyboardMarkup{InlineKeyboard: rows}
}
