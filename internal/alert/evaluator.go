package alert

import "github.com/anandvelango/StockAlarm-TelegramBot/internal/model"

// Evaluate compares a fresh quote against one watchlist entry and returns
// the signals it triggers: a SellSignal when the price is at or above the
// upper limit, a BuySignal when it is at or below the lower limit. The two
// checks are independent, so an entry whose limits overlap can fire both in
// the same cycle.
func Evaluate(sub model.SubscriberID, entry model.WatchlistEntry, quote *model.PriceQuote) []model.AlertEvent {
	var events []model.AlertEvent

	if quote.Price >= entry.UpperLimit {
		events = append(events, model.AlertEvent{
			Subscriber: sub,
			Ticker:     entry.Ticker,
			Price:      quote.Price,
			Kind:       model.SellSignal,
			Reference:  quote.SourceURL,
		})
	}
	if quote.Price <= entry.LowerLimit {
		events = append(events, model.AlertEvent{
			Subscriber: sub,
			Ticker:     entry.Ticker,
			Price:      quote.Price,
			Kind:       model.BuySignal,
			Reference:  quote.SourceURL,
		})
	}

	return events
}
