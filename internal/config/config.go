// Package config provides configuration management for the alerting application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"stonk-alerts/internal/errors"
)

// DefaultConfigFile is the config file read when no --config flag is given,
// resolved relative to the working directory of the run.
const DefaultConfigFile = "config.json"

// Config holds all application configuration. It is loaded once per run and
// immutable afterwards.
type Config struct {
	Tickers        []string `mapstructure:"tickers"`
	RecentPeak     int      `mapstructure:"recentPeak"`
	RecentTrend    int      `mapstructure:"recentTrend"`
	PercentDropped float64  `mapstructure:"percentDropped"`
	TelegramBotID  string   `mapstructure:"telegramBotId"`
	TelegramChatID string   `mapstructure:"telegramChatId"`
	LoggingEnabled bool     `mapstructure:"loggingEnabled"`
	LogFileName    string   `mapstructure:"logFileName"`
}

// Load loads configuration from the specified JSON file.
// If path is empty, DefaultConfigFile is used.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides lets the Telegram credentials come from the environment
// so the secrets can stay out of the config file.
func applyEnvOverrides(cfg *Config) {
	if botID := os.Getenv("STONKALERTS_TELEGRAM_BOT_ID"); botID != "" {
		cfg.TelegramBotID = botID
	}
	if chatID := os.Getenv("STONKALERTS_TELEGRAM_CHAT_ID"); chatID != "" {
		cfg.TelegramChatID = chatID
	}
}

// Validate checks the configuration invariants. A violation is fatal and must
// abort the run before any network activity.
func (c *Config) Validate() error {
	if len(c.Tickers) == 0 {
		return errors.NewValidationError("tickers", c.Tickers, "at least one ticker is required")
	}
	for _, t := range c.Tickers {
		if t == "" {
			return errors.NewValidationError("tickers", c.Tickers, "ticker symbols must be non-empty")
		}
	}
	if c.RecentPeak <= 0 {
		return errors.NewValidationError("recentPeak", c.RecentPeak, "must be a positive number of days")
	}
	if c.RecentTrend <= 0 {
		return errors.NewValidationError("recentTrend", c.RecentTrend, "must be a positive number of days")
	}
	if c.RecentPeak < c.RecentTrend {
		return errors.NewValidationError("recentPeak", c.RecentPeak,
			fmt.Sprintf("must be greater than or equal to recentTrend (%d)", c.RecentTrend))
	}
	if c.PercentDropped <= 0 {
		return errors.NewValidationError("percentDropped", c.PercentDropped, "threshold must be positive")
	}
	if c.TelegramBotID == "" {
		return errors.NewValidationError("telegramBotId", c.TelegramBotID, "bot identifier is required")
	}
	if c.TelegramChatID == "" {
		return errors.NewValidationError("telegramChatId", c.TelegramChatID, "chat identifier is required")
	}
	if c.LoggingEnabled && c.LogFileName == "" {
		return errors.NewValidationError("logFileName", c.LogFileName, "required when loggingEnabled is true")
	}
	return nil
}

// WriteTemplate writes a starter config file to the given path. It refuses to
// overwrite an existing file.
func WriteTemplate(path string) error {
	if path == "" {
		path = DefaultConfigFile
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	return os.WriteFile(path, []byte(configTemplate), 0644)
}

const configTemplate = `{
    "tickers": ["SPY", "VTI"],
    "recentPeak": 30,
    "recentTrend": 5,
    "percentDropped": 10,
    "telegramBotId": "<your-bot-id>",
    "telegramChatId": "<your-chat-id>",
    "loggingEnabled": false,
    "logFileName": "stonkalerts.log"
}
`
