package model

import "time"

// PriceQuote is a single point-in-time price observation for a ticker.
// Quotes are produced fresh each fetch and discarded after one cycle.
type PriceQuote struct {
	Ticker    string
	Price     float64
	DayChange string // e.g. "+1.23 (+0.56%)"
	SourceURL string
	FetchedAt time.Time
}
