// Package telegram adapts the Telegram Bot API to the pipeline.
//
// It long-polls for updates, maps each text message onto the
// transport-independent chat.Message, runs it through the pipeline one at
// a time, and replies to the triggering message when the pipeline asks it
// to. Delivery failures are logged and dropped — the bot waits for the
// next message rather than retrying.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/hhgops/ackbot/internal/chat"
	"github.com/hhgops/ackbot/internal/pipeline"
)

// pollTimeout is the long-poll timeout in seconds.
const pollTimeout = 30

// Bot runs the acknowledgment pipeline over Telegram long polling.
type Bot struct {
	api  *tgbotapi.BotAPI
	pipe *pipeline.Pipeline
	log  *zap.Logger
}

// New authenticates against the Bot API with the given token.
func New(token string, pipe *pipeline.Pipeline, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: authenticating bot: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{api: api, pipe: pipe, log: log}, nil
}

// Username returns the authenticated bot account name.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Run polls for updates until ctx is canceled. Updates are processed
// serially in arrival order; the pipeline holds no cross-message state.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeout

	updates := b.api.GetUpdatesChan(cfg)
	b.log.Info("bot polling started", zap.String("username", b.Username()))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("bot polling stopped")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg, ok := messageFromUpdate(update)
	if !ok {
		return
	}

	res := b.pipe.Process(ctx, msg)
	if res.Reply == "" {
		return
	}

	reply := tgbotapi.NewMessage(msg.ChatID, res.Reply)
	reply.ReplyToMessageID = msg.MessageID
	if _, err := b.api.Send(reply); err != nil {
		b.log.Error("sending reply failed",
			zap.Int64("chat_id", msg.ChatID),
			zap.Int("message_id", msg.MessageID),
			zap.String("outcome", res.Outcome.String()),
			zap.Error(err))
	}
}

// messageFromUpdate maps a Telegram update onto the pipeline's message
// model. Non-message updates, messages without text, and messages without
// a sender (channel posts) are skipped: an acknowledgment needs an
// identifiable account behind it.
func messageFromUpdate(update tgbotapi.Update) (chat.Message, bool) {
	m := update.Message
	if m == nil || m.Text == "" || m.From == nil {
		return chat.Message{}, false
	}

	return chat.Message{
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		Text:      m.Text,
		Date:      int64(m.Date),
		ChatType:  m.Chat.Type,
		ChatTitle: m.Chat.Title,
		Sender: chat.Sender{
			ID:        m.From.ID,
			Username:  m.From.UserName,
			FirstName: m.From.FirstName,
			LastName:  m.From.LastName,
			IsBot:     m.From.IsBot,
		},
	}, true
}
