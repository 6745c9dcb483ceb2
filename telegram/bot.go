package telegram

import (
	"context"
	"strconv"
	"strings"

	"concierge/services/conversation"
	"concierge/utils"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	pickOptionPrefix = "bookopt_"
	cancelPrefix     = "cancel_"
)

// Bot bridges Telegram updates to the conversation engine. Chat IDs double
// as conversation user IDs, so HTTP and Telegram clients never collide.
type Bot struct {
	api    *bot.Bot
	engine *conversation.Engine
}

// NewBot builds the Telegram transport around one conversation engine.
func NewBot(token string, engine *conversation.Engine) (*Bot, error) {
	t := &Bot{engine: engine}

	opts := []bot.Option{
		bot.WithDefaultHandler(t.messageHandler),
		bot.WithCallbackQueryDataHandler(pickOptionPrefix, bot.MatchTypePrefix, t.pickOptionCallback),
		bot.WithCallbackQueryDataHandler(cancelPrefix, bot.MatchTypePrefix, t.cancelCallback),
	}

	api, err := bot.New(token, opts...)
	if err != nil {
		return nil, err
	}
	t.api = api

	api.RegisterHandler(bot.HandlerTypeMessageText, "start", bot.MatchTypeCommand, t.startHandler)
	api.RegisterHandler(bot.HandlerTypeMessageText, "findhotel", bot.MatchTypeCommand, t.newSearchHandler)
	api.RegisterHandler(bot.HandlerTypeMessageText, "cancelbooking", bot.MatchTypeCommand, t.cancelBookingHandler)

	return t, nil
}

// Start runs the long-polling loop until ctx is cancelled.
func (t *Bot) Start(ctx context.Context) {
	t.api.Start(ctx)
}

func chatUserID(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// startHandler resets the session and opens the conversation.
func (t *Bot) startHandler(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
	chatID := update.Message.Chat.ID
	resp := t.engine.StartConversation(ctx, chatUserID(chatID))
	t.render(ctx, chatID, resp.Messages)
}

// newSearchHandler drops the search context while keeping the hotel context.
func (t *Bot) newSearchHandler(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
	chatID := update.Message.Chat.ID
	resp := t.engine.NewSearch(ctx, chatUserID(chatID))
	t.render(ctx, chatID, resp.Messages)
}

// cancelBookingHandler handles `/cancelbooking NUMBER CODE`.
func (t *Bot) cancelBookingHandler(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
	chatID := update.Message.Chat.ID

	fields := strings.Fields(update.Message.Text)
	if len(fields) != 3 {
		t.sendText(ctx, chatID, "Usage: /cancelbooking BOOKING_NUMBER CANCELLATION_CODE")
		return
	}

	resp := t.engine.CancelBooking(ctx, chatUserID(chatID), fields[1], fields[2])
	t.render(ctx, chatID, resp.Messages)
}

// messageHandler routes any plain text message through the engine.
func (t *Bot) messageHandler(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}
	text := strings.TrimSpace(update.Message.Text)
	if text == "" || strings.HasPrefix(text, "/") {
		return
	}

	chatID := update.Message.Chat.ID
	resp := t.engine.HandleMessage(ctx, chatUserID(chatID), text)
	t.render(ctx, chatID, resp.Messages)
}

// pickOptionCallback binds the tapped search option to the session.
func (t *Bot) pickOptionCallback(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
	chatID, ok := t.answerCallback(ctx, update)
	if !ok {
		return
	}

	optionID := strings.TrimPrefix(update.CallbackQuery.Data, pickOptionPrefix)
	resp := t.engine.PickOption(ctx, chatUserID(chatID), optionID)
	t.render(ctx, chatID, resp.Messages)
}

// cancelCallback handles the inline cancel button attached to a confirmed
// reservation. Data carries the booking number and cancellation code.
func (t *Bot) cancelCallback(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
	chatID, ok := t.answerCallback(ctx, update)
	if !ok {
		return
	}

	rest := strings.TrimPrefix(update.CallbackQuery.Data, cancelPrefix)
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) != 2 {
		utils.GetLogger().Warn("Malformed cancel callback data", zap.String("data", update.CallbackQuery.Data))
		return
	}

	resp := t.engine.CancelBooking(ctx, chatUserID(chatID), parts[0], parts[1])
	t.render(ctx, chatID, resp.Messages)
}

// answerCallback acknowledges the callback query and extracts its chat ID.
func (t *Bot) answerCallback(ctx context.Context, update *tgmodels.Update) (int64, bool) {
	cq := update.CallbackQuery
	if cq == nil || cq.Message.Message == nil {
		return 0, false
	}

	if _, err := t.api.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: cq.ID,
	}); err != nil {
		utils.GetLogger().Warn("Failed to answer callback query", zap.Error(err))
	}

	return cq.Message.Message.Chat.ID, true
}
