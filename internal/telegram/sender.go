// Package telegram delivers verification codes through the platform's
// Telegram bot. Only outbound delivery lives here; the bot's command and
// contact handling is a separate service.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Sender interface {
	SendCode(ctx context.Context, chatID int64, code string) error
}

// LogSender logs codes instead of sending them — used in ENV=local.
type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) SendCode(ctx context.Context, chatID int64, code string) error {
	s.logger.InfoContext(ctx, "verification code (local dev)", "chat_id", chatID, "code", code)
	return nil
}

// BotSender sends codes via the Telegram Bot API — staging/production.
type BotSender struct {
	bot     *tgbotapi.BotAPI
	codeTTL time.Duration
}

func (s *BotSender) SendCode(_ context.Context, chatID int64, code string) error {
	text := fmt.Sprintf("Your login code: %s\nIt expires in %d minutes. Do not share it with anyone.",
		code, int(s.codeTTL.Minutes()))
	if _, err := s.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// NewSender returns a LogSender for ENV=local, BotSender otherwise.
func NewSender(env, botToken string, codeTTL time.Duration, logger *slog.Logger) (Sender, error) {
	if env == "local" {
		return &LogSender{logger: logger}, nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &BotSender{bot: bot, codeTTL: codeTTL}, nil
}
