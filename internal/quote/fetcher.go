package quote

import (
	"context"
	"sync"
	"time"

	"github.com/anandvelango/StockAlarm-TelegramBot/internal/model"
)

// Result is the outcome of one lookup within a batch: a quote, or the error
// that lookup failed with.
type Result struct {
	Quote *model.PriceQuote
	Err   error
}

// Fetcher fans ticker lookups out concurrently against a Source. Concurrency
// is capped so a large batch cannot exhaust outbound connections, and every
// lookup carries its own timeout.
type Fetcher struct {
	source      Source
	concurrency int
	timeout     time.Duration
}

// NewFetcher creates a Fetcher with the given concurrency cap and per-lookup
// timeout.
func NewFetcher(source Source, concurrency int, timeout time.Duration) *Fetcher {
	if concurrency < 1 {
		concurrency = 8
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{source: source, concurrency: concurrency, timeout: timeout}
}

// FetchMany looks up every distinct ticker concurrently and returns one
// Result per ticker. A failed lookup is captured in its Result and never
// cancels or delays the sibling lookups; the call returns only once every
// lookup has completed or definitively failed.
func (f *Fetcher) FetchMany(ctx context.Context, tickers []string) map[string]Result {
	results := make(map[string]Result, len(tickers))
	seen := make(map[string]bool, len(tickers))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	sem := make(chan struct{}, f.concurrency)

	for _, ticker := range tickers {
		if seen[ticker] {
			continue // fetch once per distinct ticker
		}
		seen[ticker] = true

		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			lookupCtx, cancel := context.WithTimeout(ctx, f.timeout)
			defer cancel()
			q, err := f.source.Lookup(lookupCtx, ticker)

			mu.Lock()
			results[ticker] = Result{Quote: q, Err: err}
			mu.Unlock()
		}(ticker)
	}
	wg.Wait()

	return results
}

// Lookup fetches a single ticker with the same per-lookup timeout, for
// ad-hoc price checks outside the watch cycle.
func (f *Fetcher) Lookup(ctx context.Context, ticker string) (*model.PriceQuote, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	return f.source.Lookup(lookupCtx, ticker)
}
