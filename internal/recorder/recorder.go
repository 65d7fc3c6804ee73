package recorder

import "github.com/anandvelango/StockAlarm-TelegramBot/internal/model"

// FetchFailure records one failed ticker lookup within a watch cycle.
type FetchFailure struct {
	Ticker string
	Reason string
}

// Recorder persists alert history for later inspection. It is an append-only
// log; watchlist state itself is never persisted.
type Recorder interface {
	RecordAlert(evt *model.AlertEvent) error
	RecordFetchFailure(f *FetchFailure) error
	Close() error
}
