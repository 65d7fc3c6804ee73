package notifier

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/anandvelango/StockAlarm-TelegramBot/internal/model"
)

// TelegramSink delivers messages through the Telegram Bot API. The
// SubscriberID is the Telegram chat ID.
type TelegramSink struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramSink wraps an authorized bot client.
func NewTelegramSink(bot *tgbotapi.BotAPI) *TelegramSink {
	return &TelegramSink{bot: bot}
}

// Deliver sends a message to the subscriber's chat.
func (t *TelegramSink) Deliver(sub model.SubscriberID, text string) error {
	msg := tgbotapi.NewMessage(int64(sub), text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send to %d: %w", sub, err)
	}
	return nil
}

// DeliverWithRetry sends a message with exponential backoff retry.
func (t *TelegramSink) DeliverWithRetry(ctx context.Context, sub model.SubscriberID, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := t.Deliver(sub, text); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Printf("[WARN] Telegram send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
