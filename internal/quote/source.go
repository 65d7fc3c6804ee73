package quote

import (
	"context"
	"errors"

	"github.com/anandvelango/StockAlarm-TelegramBot/internal/model"
)

// ErrNotFound indicates the source does not know the ticker.
var ErrNotFound = errors.New("ticker not found")

// Source looks up the current price for a single ticker. Implementations
// must be safe for concurrent use; the Fetcher issues many lookups at once.
type Source interface {
	Lookup(ctx context.Context, ticker string) (*model.PriceQuote, error)
	Name() string
}
