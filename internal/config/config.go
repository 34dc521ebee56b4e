package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Provider names accepted in provider.name.
const (
	ProviderFMP   = "fmp"
	ProviderYahoo = "yahoo"
)

// Config holds all application configuration.
type Config struct {
	Provider struct {
		Name    string `yaml:"name"`
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"provider"`
	Analytics struct {
		ShortPeriod     int `yaml:"short_period"`
		LongPeriod      int `yaml:"long_period"`
		MaxLookbackDays int `yaml:"max_lookback_days"`
	} `yaml:"analytics"`
	Watchlist struct {
		File     string   `yaml:"file"`
		Defaults []string `yaml:"defaults"`
	} `yaml:"watchlist"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
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

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("STOCK_API_KEY"); v != "" {
		c.Provider.APIKey = v
	}
	if v := os.Getenv("PROVIDER_NAME"); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		c.Schedule.ScanCron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("MAX_LOOKBACK_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Analytics.MaxLookbackDays = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Provider.Name == "" {
		c.Provider.Name = ProviderFMP
	}
	if c.Provider.BaseURL == "" && c.Provider.Name == ProviderFMP {
		c.Provider.BaseURL = "https://financialmodelingprep.com"
	}
	if c.Analytics.ShortPeriod == 0 {
		c.Analytics.ShortPeriod = 5
	}
	if c.Analytics.LongPeriod == 0 {
		c.Analytics.LongPeriod = 20
	}
	if c.Analytics.MaxLookbackDays == 0 {
		c.Analytics.MaxLookbackDays = 10
	}
	if c.Watchlist.File == "" {
		c.Watchlist.File = "data/watchlist.json"
	}
	if c.Schedule.ScanCron == "" {
		// 16:30 exchange time on weekdays, expressed in UTC.
		c.Schedule.ScanCron = "0 30 21 * * 1-5"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Provider.Name {
	case ProviderFMP:
		if c.Provider.APIKey == "" {
			return fmt.Errorf("provider.api_key is required for %s", ProviderFMP)
		}
	case ProviderYahoo:
	default:
		return fmt.Errorf("provider.name must be %q or %q, got %q", ProviderFMP, ProviderYahoo, c.Provider.Name)
	}
	if c.Analytics.ShortPeriod <= 0 || c.Analytics.LongPeriod <= 0 {
		return fmt.Errorf("analytics periods must be positive")
	}
	if c.Analytics.ShortPeriod >= c.Analytics.LongPeriod {
		return fmt.Errorf("analytics.short_period must be less than analytics.long_period")
	}
	if c.Analytics.MaxLookbackDays < 1 {
		return fmt.Errorf("analytics.max_lookback_days must be at least 1")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether alerts and commands go to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
