package notifier

import (
	"fmt"
	"strings"

	"github.com/anandvelango/StockAlarm-TelegramBot/internal/model"
)

// FormatAlert renders a threshold-crossing notification.
func FormatAlert(evt *model.AlertEvent) string {
	action := "SELL"
	if evt.Kind == model.BuySignal {
		action = "BUY"
	}
	return fmt.Sprintf("[!] YOU MAY WANT TO %s | %s is at %g | MORE INFO AT: %s",
		action, evt.Ticker, evt.Price, evt.Reference)
}

// FormatQuote renders a price-check reply.
func FormatQuote(q *model.PriceQuote) string {
	var b strings.Builder
	b.WriteString(q.Ticker + "\n")
	b.WriteString("=========\n")
	b.WriteString(fmt.Sprintf("Price: $%g\n", q.Price))
	b.WriteString(fmt.Sprintf("Day change: %s\n", q.DayChange))
	b.WriteString("More info at:\n")
	b.WriteString(q.SourceURL)
	return b.String()
}

// FormatEntryAdded confirms a new watchlist entry.
func FormatEntryAdded(entry model.WatchlistEntry) string {
	return fmt.Sprintf("Added:\n- Ticker: %s\n- Upper limit: %g\n- Lower limit: %g",
		entry.Ticker, entry.UpperLimit, entry.LowerLimit)
}
