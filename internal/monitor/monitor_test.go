package monitor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/anandvelango/StockAlarm-TelegramBot/internal/model"
	"github.com/anandvelango/StockAlarm-TelegramBot/internal/notifier"
	"github.com/anandvelango/StockAlarm-TelegramBot/internal/quote"
	"github.com/anandvelango/StockAlarm-TelegramBot/internal/recorder"
	"github.com/anandvelango/StockAlarm-TelegramBot/internal/watchlist"
)

// fakeSource serves fixed prices and counts lookups per ticker.
type fakeSource struct {
	mu      sync.Mutex
	calls   map[string]int
	prices  map[string]float64
	failing map[string]error
}

func newFakeSource(prices map[string]float64) *fakeSource {
	return &fakeSource{
		calls:   make(map[string]int),
		prices:  prices,
		failing: make(map[string]error),
	}
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Lookup(_ context.Context, ticker string) (*model.PriceQuote, error) {
	f.mu.Lock()
	f.calls[ticker]++
	f.mu.Unlock()

	if err, ok := f.failing[ticker]; ok {
		return nil, err
	}
	price, ok := f.prices[ticker]
	if !ok {
		return nil, quote.ErrNotFound
	}
	return &model.PriceQuote{
		Ticker:    ticker,
		Price:     price,
		SourceURL: "https://finance.yahoo.com/quote/" + ticker,
		FetchedAt: time.Now(),
	}, nil
}

func (f *fakeSource) callCount(ticker string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[ticker]
}

// fakeSink collects delivered messages per subscriber.
type fakeSink struct {
	mu       sync.Mutex
	messages map[model.SubscriberID][]string
	failFor  map[model.SubscriberID]error
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		messages: make(map[model.SubscriberID][]string),
		failFor:  make(map[model.SubscriberID]error),
	}
}

func (s *fakeSink) Deliver(sub model.SubscriberID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failFor[sub]; ok {
		return err
	}
	s.messages[sub] = append(s.messages[sub], text)
	return nil
}

func (s *fakeSink) delivered(sub model.SubscriberID) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages[sub]...)
}

// fakeRecorder counts recorded alerts and fetch failures.
type fakeRecorder struct {
	mu       sync.Mutex
	alerts   []model.AlertEvent
	failures []recorder.FetchFailure
}

func (r *fakeRecorder) RecordAlert(evt *model.AlertEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, *evt)
	return nil
}

func (r *fakeRecorder) RecordFetchFailure(f *recorder.FetchFailure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, *f)
	return nil
}

func (r *fakeRecorder) Close() error { return nil }

// retrySink additionally offers retry-capable delivery, the way the
// Telegram sink does.
type retrySink struct {
	fakeSink
	retryCalls int
	lastMax    int
}

func (s *retrySink) DeliverWithRetry(_ context.Context, sub model.SubscriberID, text string, maxRetries int) error {
	s.retryCalls++
	s.lastMax = maxRetries
	return s.Deliver(sub, text)
}

func newMonitor(store *watchlist.Store, src quote.Source, sink notifier.Sink, rec recorder.Recorder) *Monitor {
	fetcher := quote.NewFetcher(src, 4, time.Second)
	return New(context.Background(), store, fetcher, sink, rec, 10*time.Second)
}

func TestRunTick_SellSignal(t *testing.T) {
	store := watchlist.NewStore()
	store.Register(1)
	if err := store.AddEntry(1, model.WatchlistEntry{Ticker: "AAPL", UpperLimit: 200, LowerLimit: 150}); err != nil {
		t.Fatalf("add: %v", err)
	}

	sink := newFakeSink()
	rec := &fakeRecorder{}
	m := newMonitor(store, newFakeSource(map[string]float64{"AAPL": 205}), sink, rec)

	m.RunTick()

	msgs := sink.delivered(1)
	if len(msgs) != 1 {
		t.Fatalf("expected exactly 1 notification, got %d: %v", len(msgs), msgs)
	}
	if !strings.Contains(msgs[0], "YOU MAY WANT TO SELL") || !strings.Contains(msgs[0], "AAPL is at 205") {
		t.Errorf("unexpected alert text: %q", msgs[0])
	}
	if len(rec.alerts) != 1 || rec.alerts[0].Kind != model.SellSignal {
		t.Errorf("expected one recorded sell alert, got %+v", rec.alerts)
	}
}

func TestRunTick_FetchFailureIsolated(t *testing.T) {
	store := watchlist.NewStore()
	store.Register(1)
	for _, e := range []model.WatchlistEntry{
		{Ticker: "AAPL", UpperLimit: 200, LowerLimit: 150},
		{Ticker: "TSLA", UpperLimit: 300, LowerLimit: 250},
	} {
		if err := store.AddEntry(1, e); err != nil {
			t.Fatalf("add %s: %v", e.Ticker, err)
		}
	}

	src := newFakeSource(map[string]float64{"AAPL": 180})
	src.failing["TSLA"] = errors.New("connection reset")

	sink := newFakeSink()
	rec := &fakeRecorder{}
	m := newMonitor(store, src, sink, rec)

	m.RunTick() // must not panic

	if msgs := sink.delivered(1); len(msgs) != 0 {
		t.Errorf("expected no notifications (AAPL in range, TSLA failed), got %v", msgs)
	}
	if len(rec.failures) != 1 || rec.failures[0].Ticker != "TSLA" {
		t.Errorf("expected one recorded fetch failure for TSLA, got %+v", rec.failures)
	}
}

func TestRunTick_SharedTickerFetchedOnce(t *testing.T) {
	store := watchlist.NewStore()
	store.Register(1)
	store.Register(2)
	for _, sub := range []model.SubscriberID{1, 2} {
		if err := store.AddEntry(sub, model.WatchlistEntry{Ticker: "AAPL", UpperLimit: 200, LowerLimit: 150}); err != nil {
			t.Fatalf("add for %d: %v", sub, err)
		}
	}

	src := newFakeSource(map[string]float64{"AAPL": 205})
	sink := newFakeSink()
	m := newMonitor(store, src, sink, &fakeRecorder{})

	m.RunTick()

	if n := src.callCount("AAPL"); n != 1 {
		t.Errorf("expected 1 underlying lookup for AAPL, got %d", n)
	}
	for _, sub := range []model.SubscriberID{1, 2} {
		msgs := sink.delivered(sub)
		if len(msgs) != 1 || !strings.Contains(msgs[0], "AAPL is at 205") {
			t.Errorf("subscriber %d: expected one alert at 205, got %v", sub, msgs)
		}
	}
}

func TestRunTick_DeliveryFailureIsolated(t *testing.T) {
	store := watchlist.NewStore()
	store.Register(1)
	store.Register(2)
	for _, sub := range []model.SubscriberID{1, 2} {
		if err := store.AddEntry(sub, model.WatchlistEntry{Ticker: "AAPL", UpperLimit: 200, LowerLimit: 150}); err != nil {
			t.Fatalf("add for %d: %v", sub, err)
		}
	}

	sink := newFakeSink()
	sink.failFor[1] = errors.New("chat blocked the bot")
	rec := &fakeRecorder{}
	m := newMonitor(store, newFakeSource(map[string]float64{"AAPL": 205}), sink, rec)

	m.RunTick()

	if msgs := sink.delivered(2); len(msgs) != 1 {
		t.Errorf("subscriber 2 should still be notified, got %v", msgs)
	}
	// The event is recorded even when delivery fails.
	if len(rec.alerts) != 2 {
		t.Errorf("expected 2 recorded alerts, got %d", len(rec.alerts))
	}
}

func TestRunTick_BothSignalsForInvertedLimits(t *testing.T) {
	store := watchlist.NewStore()
	store.Register(1)
	if err := store.AddEntry(1, model.WatchlistEntry{Ticker: "AAPL", UpperLimit: 150, LowerLimit: 200}); err != nil {
		t.Fatalf("add: %v", err)
	}

	sink := newFakeSink()
	m := newMonitor(store, newFakeSource(map[string]float64{"AAPL": 180}), sink, &fakeRecorder{})

	m.RunTick()

	msgs := sink.delivered(1)
	if len(msgs) != 2 {
		t.Fatalf("expected both signals for inverted limits, got %v", msgs)
	}
	if !strings.Contains(msgs[0], "SELL") || !strings.Contains(msgs[1], "BUY") {
		t.Errorf("expected SELL then BUY, got %v", msgs)
	}
}

func TestRunTick_PrefersRetryDelivery(t *testing.T) {
	store := watchlist.NewStore()
	store.Register(1)
	if err := store.AddEntry(1, model.WatchlistEntry{Ticker: "AAPL", UpperLimit: 200, LowerLimit: 150}); err != nil {
		t.Fatalf("add: %v", err)
	}

	sink := &retrySink{fakeSink: *newFakeSink()}
	m := newMonitor(store, newFakeSource(map[string]float64{"AAPL": 205}), sink, &fakeRecorder{})

	m.RunTick()

	if sink.retryCalls != 1 {
		t.Fatalf("expected 1 retry-capable delivery, got %d", sink.retryCalls)
	}
	if sink.lastMax != 3 {
		t.Errorf("expected 3 retries allowed, got %d", sink.lastMax)
	}
	msgs := sink.delivered(1)
	if len(msgs) != 1 || !strings.Contains(msgs[0], "YOU MAY WANT TO SELL") {
		t.Errorf("expected the sell alert to arrive through the retry path, got %v", msgs)
	}
}

func TestRunTick_EmptyStore(t *testing.T) {
	src := newFakeSource(nil)
	sink := newFakeSink()
	m := newMonitor(watchlist.NewStore(), src, sink, &fakeRecorder{})

	m.RunTick()

	src.mu.Lock()
	defer src.mu.Unlock()
	if len(src.calls) != 0 {
		t.Errorf("expected no lookups for an empty store, got %v", src.calls)
	}
}
