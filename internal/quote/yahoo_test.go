package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestYahooSource_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/TSLA" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{"symbol":"TSLA","regularMarketPrice":305.5,"chartPreviousClose":300.0}}],"error":null}}`)
	}))
	defer srv.Close()

	src := NewYahooSource(srv.URL, "", 5*time.Second)
	q, err := src.Lookup(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if q.Price != 305.5 {
		t.Errorf("price: expected 305.5, got %g", q.Price)
	}
	if q.DayChange != "+5.50 (+1.83%)" {
		t.Errorf("day change: got %q", q.DayChange)
	}
	if q.SourceURL != "https://finance.yahoo.com/quote/TSLA" {
		t.Errorf("source url: got %q", q.SourceURL)
	}
}

func TestYahooSource_UnknownTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	}))
	defer srv.Close()

	src := NewYahooSource(srv.URL, "", 5*time.Second)
	if _, err := src.Lookup(context.Background(), "NOPE"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestYahooSource_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Internal Error","description":"upstream timeout"}}}`)
	}))
	defer srv.Close()

	src := NewYahooSource(srv.URL, "", 5*time.Second)
	_, err := src.Lookup(context.Background(), "TSLA")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a source error, got %v", err)
	}
}
