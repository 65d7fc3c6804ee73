package monitor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/anandvelango/StockAlarm-TelegramBot/internal/alert"
	"github.com/anandvelango/StockAlarm-TelegramBot/internal/model"
	"github.com/anandvelango/StockAlarm-TelegramBot/internal/notifier"
	"github.com/anandvelango/StockAlarm-TelegramBot/internal/quote"
	"github.com/anandvelango/StockAlarm-TelegramBot/internal/recorder"
	"github.com/anandvelango/StockAlarm-TelegramBot/internal/watchlist"
)

// retryDeliverer is implemented by sinks that can retry transient delivery
// failures themselves.
type retryDeliverer interface {
	DeliverWithRetry(ctx context.Context, sub model.SubscriberID, text string, maxRetries int) error
}

// deliverRetries bounds how often a failed alert delivery is retried.
const deliverRetries = 3

// Monitor drives the periodic watch cycle: snapshot the watchlists, fetch
// every tracked ticker once, evaluate thresholds, and notify subscribers.
type Monitor struct {
	store    *watchlist.Store
	fetcher  *quote.Fetcher
	sink     notifier.Sink
	recorder recorder.Recorder
	interval time.Duration
	cron     *cron.Cron
	ctx      context.Context
}

// New creates a Monitor. The cron chain skips a tick if the previous one is
// still in flight, so a slow quote source can never stack cycles.
func New(ctx context.Context, store *watchlist.Store, fetcher *quote.Fetcher, sink notifier.Sink, rec recorder.Recorder, interval time.Duration) *Monitor {
	return &Monitor{
		store:    store,
		fetcher:  fetcher,
		sink:     sink,
		recorder: rec,
		interval: interval,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		ctx:      ctx,
	}
}

// Start registers the tick and starts the scheduler.
func (m *Monitor) Start() error {
	spec := fmt.Sprintf("@every %s", m.interval)
	if _, err := m.cron.AddFunc(spec, m.RunTick); err != nil {
		return fmt.Errorf("register watch tick: %w", err)
	}
	m.cron.Start()
	log.Printf("[INFO] monitor started, interval %s", m.interval)
	return nil
}

// Stop stops the scheduler and waits for a running tick to finish.
func (m *Monitor) Stop() {
	<-m.cron.Stop().Done()
	log.Println("[INFO] monitor stopped")
}

// RunTick executes one watch cycle. Failures of individual lookups or
// deliveries are logged and recorded; they never abort the rest of the tick.
func (m *Monitor) RunTick() {
	snapshot := m.store.SnapshotAll()

	seen := make(map[string]bool)
	var tickers []string
	for _, entries := range snapshot {
		for _, e := range entries {
			if !seen[e.Ticker] {
				seen[e.Ticker] = true
				tickers = append(tickers, e.Ticker)
			}
		}
	}
	if len(tickers) == 0 {
		return
	}

	// One lookup per distinct ticker; every subscriber tracking it sees the
	// same quote this tick.
	results := m.fetcher.FetchMany(m.ctx, tickers)

	for _, ticker := range tickers {
		if res := results[ticker]; res.Err != nil {
			log.Printf("[WARN] fetch %s: %v", ticker, res.Err)
			if err := m.recorder.RecordFetchFailure(&recorder.FetchFailure{Ticker: ticker, Reason: res.Err.Error()}); err != nil {
				log.Printf("[ERROR] record fetch failure: %v", err)
			}
		}
	}

	for sub, entries := range snapshot {
		for _, entry := range entries {
			res := results[entry.Ticker]
			if res.Err != nil || res.Quote == nil {
				continue // failure already reported above
			}
			for _, evt := range alert.Evaluate(sub, entry, res.Quote) {
				m.dispatch(evt)
			}
		}
	}
}

func (m *Monitor) dispatch(evt model.AlertEvent) {
	text := notifier.FormatAlert(&evt)

	var err error
	if rs, ok := m.sink.(retryDeliverer); ok {
		err = rs.DeliverWithRetry(m.ctx, evt.Subscriber, text, deliverRetries)
	} else {
		err = m.sink.Deliver(evt.Subscriber, text)
	}
	if err != nil {
		log.Printf("[ERROR] deliver alert to %d: %v", evt.Subscriber, err)
	} else {
		log.Printf("[INFO] %s", text)
	}
	if err := m.recorder.RecordAlert(&evt); err != nil {
		log.Printf("[ERROR] record alert: %v", err)
	}
}
