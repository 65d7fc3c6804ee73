package watchlist

import (
	"errors"
	"sync"

	"github.com/anandvelango/StockAlarm-TelegramBot/internal/model"
)

var (
	// ErrUnknownSubscriber is returned when the subscriber never registered.
	ErrUnknownSubscriber = errors.New("subscriber not registered")
	// ErrTickerNotFound is returned when a ticker is absent from the watchlist.
	ErrTickerNotFound = errors.New("ticker not in watchlist")
	// ErrDuplicateTicker is returned when a ticker is already being tracked.
	ErrDuplicateTicker = errors.New("ticker already in watchlist")
)

// Store is the authoritative in-memory table of subscribers and their
// watchlist entries. All access goes through its methods; entries move as
// whole records, so readers never observe a half-updated entry. State is
// volatile and cleared on restart.
type Store struct {
	mu   sync.RWMutex
	subs map[model.SubscriberID][]model.WatchlistEntry
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{subs: make(map[model.SubscriberID][]model.WatchlistEntry)}
}

// Register creates an empty watchlist for the subscriber. Re-registering an
// existing subscriber keeps its entries.
func (s *Store) Register(id model.SubscriberID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[id]; !ok {
		s.subs[id] = nil
	}
}

// Registered reports whether the subscriber has registered.
func (s *Store) Registered(id model.SubscriberID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.subs[id]
	return ok
}

// AddEntry appends an entry to the subscriber's watchlist. The ticker must
// not already be tracked by that subscriber.
func (s *Store) AddEntry(id model.SubscriberID, entry model.WatchlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.subs[id]
	if !ok {
		return ErrUnknownSubscriber
	}
	for _, e := range entries {
		if e.Ticker == entry.Ticker {
			return ErrDuplicateTicker
		}
	}
	s.subs[id] = append(entries, entry)
	return nil
}

// RemoveEntry removes the entry for ticker, preserving the relative order of
// the remaining entries.
func (s *Store) RemoveEntry(id model.SubscriberID, ticker string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.subs[id]
	if !ok {
		return ErrUnknownSubscriber
	}
	for i, e := range entries {
		if e.Ticker == ticker {
			s.subs[id] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return ErrTickerNotFound
}

// ListEntries returns a copy of the subscriber's current entries.
// Unregistered subscribers get an empty list.
func (s *Store) ListEntries(id model.SubscriberID) []model.WatchlistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.subs[id]
	out := make([]model.WatchlistEntry, len(entries))
	copy(out, entries)
	return out
}

// SnapshotAll returns a point-in-time copy of every subscriber's entries,
// safe to iterate while the store keeps mutating.
func (s *Store) SnapshotAll() map[model.SubscriberID][]model.WatchlistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(map[model.SubscriberID][]model.WatchlistEntry, len(s.subs))
	for id, entries := range s.subs {
		cp := make([]model.WatchlistEntry, len(entries))
		copy(cp, entries)
		snap[id] = cp
	}
	return snap
}
