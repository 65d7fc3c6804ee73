package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/anandvelango/StockAlarm-TelegramBot/internal/model"
	"github.com/anandvelango/StockAlarm-TelegramBot/internal/notifier"
	"github.com/anandvelango/StockAlarm-TelegramBot/internal/quote"
	"github.com/anandvelango/StockAlarm-TelegramBot/internal/watchlist"
)

const helpText = `Commands:
• /help - help menu
• /check_watchlist - get the current prices of the stocks in your watchlist
• /check_price <ticker> - get the price of any stock - usage e.g. (/check_price tsla)
• /add_to_watchlist <ticker> <upper limit> <lower limit> - add ticker, upper and lower limit - usage e.g. (/add_to_watchlist tsla 280 210)
• /remove_from_watchlist <ticker> - remove ticker, upper and lower limit from the watchlist - usage e.g. (/remove_from_watchlist tsla)`

// Handler consumes Telegram updates and maps commands onto the watchlist
// store and quote fetcher.
type Handler struct {
	bot     *tgbotapi.BotAPI
	store   *watchlist.Store
	fetcher *quote.Fetcher
}

// NewHandler creates a command handler.
func NewHandler(bot *tgbotapi.BotAPI, store *watchlist.Store, fetcher *quote.Fetcher) *Handler {
	return &Handler{bot: bot, store: store, fetcher: fetcher}
}

// Run consumes updates until ctx is cancelled.
func (h *Handler) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			log.Println("[INFO] Telegram update loop stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			h.handleMessage(ctx, update.Message)
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	sub := model.SubscriberID(msg.Chat.ID)
	username := ""
	if msg.From != nil {
		username = msg.From.UserName
	}
	log.Printf("[INFO] user input - %s (%d): %q", username, msg.Chat.ID, msg.Text)

	if !msg.IsCommand() {
		return // plain messages are only logged
	}

	switch msg.Command() {
	case "start":
		h.cmdStart(sub)
	case "help":
		h.send(sub, helpText)
	case "check_price":
		h.cmdCheckPrice(ctx, sub, msg.CommandArguments())
	case "check_watchlist":
		h.cmdCheckWatchlist(ctx, sub)
	case "add_to_watchlist":
		h.cmdAddToWatchlist(ctx, sub, msg.CommandArguments())
	case "remove_from_watchlist":
		h.cmdRemoveFromWatchlist(sub, msg.CommandArguments())
	default:
		h.send(sub, "Unknown command. Type /help for the command list.")
	}
}

func (h *Handler) cmdStart(sub model.SubscriberID) {
	h.store.Register(sub)
	h.send(sub, "Welcome to Anand's Stock Bot. Type /help for more info")
}

func (h *Handler) cmdCheckPrice(ctx context.Context, sub model.SubscriberID, args string) {
	ticker := normalizeTicker(args)
	if ticker == "" {
		h.send(sub, "Usage: /check_price <ticker>")
		return
	}

	q, err := h.fetcher.Lookup(ctx, ticker)
	if err != nil {
		if errors.Is(err, quote.ErrNotFound) {
			h.send(sub, fmt.Sprintf("%s : Not a valid ticker", ticker))
		} else {
			log.Printf("[WARN] check_price %s: %v", ticker, err)
			h.send(sub, fmt.Sprintf("%s : quote unavailable, try again later", ticker))
		}
		return
	}
	h.send(sub, notifier.FormatQuote(q))
}

func (h *Handler) cmdCheckWatchlist(ctx context.Context, sub model.SubscriberID) {
	if !h.store.Registered(sub) {
		h.send(sub, "Send /start first to register.")
		return
	}

	entries := h.store.ListEntries(sub)
	if len(entries) == 0 {
		h.send(sub, "Watchlist is empty. Check /help on how to start adding stocks to watchlist.")
		return
	}

	tickers := make([]string, len(entries))
	for i, e := range entries {
		tickers[i] = e.Ticker
	}
	results := h.fetcher.FetchMany(ctx, tickers)

	// Reply in watchlist order, one message per ticker.
	for _, e := range entries {
		res := results[e.Ticker]
		if res.Err != nil || res.Quote == nil {
			log.Printf("[WARN] check_watchlist %s: %v", e.Ticker, res.Err)
			h.send(sub, fmt.Sprintf("%s : quote unavailable, try again later", e.Ticker))
			continue
		}
		h.send(sub, notifier.FormatQuote(res.Quote))
	}
}

func (h *Handler) cmdAddToWatchlist(ctx context.Context, sub model.SubscriberID, args string) {
	fields := strings.Fields(args)
	if len(fields) != 3 {
		h.send(sub, "Usage: /add_to_watchlist <ticker> <upper limit> <lower limit>")
		return
	}

	ticker := normalizeTicker(fields[0])
	upper, errUp := strconv.ParseFloat(fields[1], 64)
	lower, errLow := strconv.ParseFloat(fields[2], 64)
	if errUp != nil || errLow != nil {
		h.send(sub, "Limits must be numbers, e.g. /add_to_watchlist tsla 280 210")
		return
	}

	// Validate the ticker against the source before tracking it.
	if _, err := h.fetcher.Lookup(ctx, ticker); err != nil {
		if errors.Is(err, quote.ErrNotFound) {
			h.send(sub, fmt.Sprintf("Not a valid ticker: %s", ticker))
		} else {
			log.Printf("[WARN] add_to_watchlist %s: %v", ticker, err)
			h.send(sub, fmt.Sprintf("Could not verify %s right now, try again later", ticker))
		}
		return
	}

	entry := model.WatchlistEntry{Ticker: ticker, UpperLimit: upper, LowerLimit: lower}
	switch err := h.store.AddEntry(sub, entry); {
	case errors.Is(err, watchlist.ErrUnknownSubscriber):
		h.send(sub, "Send /start first to register.")
	case errors.Is(err, watchlist.ErrDuplicateTicker):
		h.send(sub, fmt.Sprintf("%s is already in your watchlist. Remove it first to change its limits.", ticker))
	case err != nil:
		log.Printf("[ERROR] add entry: %v", err)
		h.send(sub, fmt.Sprintf("Error in adding to watchlist: %s", ticker))
	default:
		h.send(sub, notifier.FormatEntryAdded(entry))
	}
}

func (h *Handler) cmdRemoveFromWatchlist(sub model.SubscriberID, args string) {
	ticker := normalizeTicker(args)
	if ticker == "" {
		h.send(sub, "Usage: /remove_from_watchlist <ticker>")
		return
	}

	switch err := h.store.RemoveEntry(sub, ticker); {
	case errors.Is(err, watchlist.ErrUnknownSubscriber):
		h.send(sub, "Send /start first to register.")
	case errors.Is(err, watchlist.ErrTickerNotFound):
		h.send(sub, fmt.Sprintf("Unable to remove: %s not found in watchlist", ticker))
	case err != nil:
		log.Printf("[ERROR] remove entry: %v", err)
		h.send(sub, fmt.Sprintf("Error removing %s", ticker))
	default:
		h.send(sub, fmt.Sprintf("Removed %s from watchlist", ticker))
	}
}

func (h *Handler) send(sub model.SubscriberID, text string) {
	msg := tgbotapi.NewMessage(int64(sub), text)
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("[ERROR] send reply to %d: %v", sub, err)
	}
}

// normalizeTicker canonicalizes user input so watchlist uniqueness holds
// regardless of the case the user typed. Only the first word counts;
// trailing words are dropped so they cannot leak into lookups or URLs.
func normalizeTicker(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}
