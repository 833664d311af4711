package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramBotSender delivers plain-text messages through a Telegram bot.
type TelegramBotSender struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramBotSender(token string) (*TelegramBotSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramBotSender{bot: bot}, nil
}

func (s *TelegramBotSender) SendTelegram(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
