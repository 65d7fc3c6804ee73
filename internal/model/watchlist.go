package model

// SubscriberID identifies the owner of a watchlist. The Telegram transport
// uses the chat ID; the core treats it as an opaque key.
type SubscriberID int64

// WatchlistEntry is one tracked ticker with its alert thresholds.
// LowerLimit is not required to be below UpperLimit; an inverted entry
// simply fires both signals once the price lands between the limits.
type WatchlistEntry struct {
	Ticker     string
	UpperLimit float64
	LowerLimit float64
}
