package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/anandvelango/StockAlarm-TelegramBot/internal/bot"
	"github.com/anandvelango/StockAlarm-TelegramBot/internal/config"
	"github.com/anandvelango/StockAlarm-TelegramBot/internal/monitor"
	"github.com/anandvelango/StockAlarm-TelegramBot/internal/notifier"
	"github.com/anandvelango/StockAlarm-TelegramBot/internal/quote"
	"github.com/anandvelango/StockAlarm-TelegramBot/internal/recorder"
	"github.com/anandvelango/StockAlarm-TelegramBot/internal/watchlist"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockAlarm starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Telegram client, shared by the command handler and the alert sink
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		log.Fatalf("[FATAL] telegram auth: %v", err)
	}
	log.Printf("[INFO] authorized as @%s", api.Self.UserName)

	// Core components
	store := watchlist.NewStore()
	source := quote.NewYahooSource(cfg.Quote.BaseURL, cfg.Proxy, cfg.QuoteTimeout())
	log.Printf("[INFO] quote source: %s", source.Name())
	fetcher := quote.NewFetcher(source, cfg.Monitor.FetchConcurrency, cfg.QuoteTimeout())

	// Alert history recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Periodic watch cycle
	sink := notifier.NewTelegramSink(api)
	mon := monitor.New(ctx, store, fetcher, sink, rec, cfg.MonitorInterval())
	if err := mon.Start(); err != nil {
		log.Fatalf("[FATAL] start monitor: %v", err)
	}
	defer mon.Stop()

	// Command handling
	handler := bot.NewHandler(api, store, fetcher)
	go handler.Run(ctx)
	log.Println("[INFO] Telegram command handler started")

	log.Println("[INFO] StockAlarm is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] StockAlarm stopped")
}
