package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	TelegramToken string
	StateFile     string
	CatalogFile   string // optional; the built-in roster is used when empty
	Timezone      string

	PollInterval         time.Duration
	RemindLead           time.Duration
	ExpiryGrace          time.Duration
	ConfirmTTL           time.Duration
	DeathFutureThreshold time.Duration

	ReplyOnUnrecognized bool
	LogLevel            string
	Environment         string
}

// Load reads configuration from environment variables and a .env file (if
// present). godotenv never overrides variables already set in the
// environment.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.StateFile = envOr("STATE_FILE", "boss_data.json")
	cfg.CatalogFile = os.Getenv("CATALOG_FILE")
	cfg.Timezone = envOr("TIMEZONE", "Asia/Taipei")

	var err error
	if cfg.PollInterval, err = envSeconds("POLL_INTERVAL_SECONDS", 20); err != nil {
		return nil, err
	}
	if cfg.RemindLead, err = envMinutes("REMIND_LEAD_MINUTES", 5); err != nil {
		return nil, err
	}
	if cfg.ExpiryGrace, err = envMinutes("EXPIRY_GRACE_MINUTES", 3); err != nil {
		return nil, err
	}
	if cfg.ConfirmTTL, err = envSeconds("CONFIRM_TTL_SECONDS", 60); err != nil {
		return nil, err
	}
	if cfg.DeathFutureThreshold, err = envMinutes("DEATH_FUTURE_THRESHOLD_MINUTES", 5); err != nil {
		return nil, err
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL_SECONDS must be positive")
	}

	cfg.ReplyOnUnrecognized = strings.EqualFold(os.Getenv("REPLY_ON_UNRECOGNIZED"), "true")

	cfg.LogLevel = strings.ToLower(envOr("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(envOr("ENVIRONMENT", "development"))

	return cfg, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envSeconds(name string, fallback int) (time.Duration, error) {
	n, err := envInt(name, fallback)
	return time.Duration(n) * time.Second, err
}

func envMinutes(name string, fallback int) (time.Duration, error) {
	n, err := envInt(name, fallback)
	return time.Duration(n) * time.Minute, err
}

func envInt(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative", name)
	}
	return n, nil
}
