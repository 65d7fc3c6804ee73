package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
	} `yaml:"telegram"`
	Quote struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"quote"`
	Monitor struct {
		Interval         string `yaml:"interval"`
		FetchConcurrency int    `yaml:"fetch_concurrency"`
	} `yaml:"monitor"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A local .env file, if present, is loaded into the environment first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("QUOTE_BASE_URL"); v != "" {
		cfg.Quote.BaseURL = v
	}
	if v := os.Getenv("MONITOR_INTERVAL"); v != "" {
		cfg.Monitor.Interval = v
	}
	if v := os.Getenv("FETCH_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Monitor.FetchConcurrency = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Quote.Timeout == "" {
		cfg.Quote.Timeout = "15s"
	}
	if cfg.Monitor.Interval == "" {
		cfg.Monitor.Interval = "10s"
	}
	if cfg.Monitor.FetchConcurrency == 0 {
		cfg.Monitor.FetchConcurrency = 8
	}

	return cfg, nil
}

// Validate checks that all required fields are set and parseable.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if d, err := time.ParseDuration(c.Monitor.Interval); err != nil || d <= 0 {
		return fmt.Errorf("monitor.interval %q is not a positive duration", c.Monitor.Interval)
	}
	if d, err := time.ParseDuration(c.Quote.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("quote.timeout %q is not a positive duration", c.Quote.Timeout)
	}
	if c.Monitor.FetchConcurrency < 1 {
		return fmt.Errorf("monitor.fetch_concurrency must be at least 1")
	}
	return nil
}

// MonitorInterval returns the parsed tick interval. Validate must have
// accepted the config first.
func (c *Config) MonitorInterval() time.Duration {
	d, _ := time.ParseDuration(c.Monitor.Interval)
	return d
}

// QuoteTimeout returns the parsed per-lookup timeout.
func (c *Config) QuoteTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Quote.Timeout)
	return d
}
