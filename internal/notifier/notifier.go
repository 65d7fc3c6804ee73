package notifier

import "github.com/anandvelango/StockAlarm-TelegramBot/internal/model"

// Sink delivers a rendered message to one subscriber. A delivery failure is
// returned to the caller and must never block delivery to other subscribers.
type Sink interface {
	Deliver(sub model.SubscriberID, text string) error
}
