package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverSheets   = "sheets"
	DriverSupabase = "supabase"
	DriverSQLite   = "sqlite"
)

var (
	ErrUnknownStoreDriver      = errors.New("unknown store driver")
	ErrMissingStoreCredentials = errors.New("missing store credentials")
)

type Config struct {
	TelegramToken string  `env:"BOT_TOKEN,required,notEmpty"`
	GroupChatID   int64   `env:"GROUP_CHAT_ID,required,notEmpty"`
	AdminChatIDs  []int64 `env:"ADMIN_CHAT_IDS" envSeparator:","`

	StoreDriver     string `env:"STORE_DRIVER" envDefault:"sheets"`
	GoogleCredsJSON string `env:"GOOGLE_CREDS_JSON"`
	SpreadsheetID   string `env:"SPREADSHEET_ID"`
	SheetName       string `env:"SHEET_NAME" envDefault:"Sheet1"`
	SupabaseURL     string `env:"SUPABASE_URL"`
	SupabaseKey     string `env:"SUPABASE_KEY"`
	SupabaseTable   string `env:"SUPABASE_TABLE" envDefault:"leads"`
	SQLiteDSN       string `env:"LEADS_SQLITE_DSN" envDefault:"leads.db"`

	HTTPAddr    string        `env:"HTTP_ADDR" envDefault:":8080"`
	SinkTimeout time.Duration `env:"SINK_TIMEOUT" envDefault:"10s"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"75s"`
	PollTimeout int           `env:"POLL_TIMEOUT" envDefault:"60"`
	SendRate    float64       `env:"SEND_RATE" envDefault:"25"`
	WebhookPath string        `env:"WEBHOOK_PATH"`

	PromptsFile string `env:"PROMPTS_FILE"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig читает .env (если есть) и переменные окружения
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse разбирает переменные окружения без чтения .env
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет учётные данные выбранного хранилища
func (c *Config) Validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case DriverSheets:
		if c.GoogleCredsJSON == "" || c.SpreadsheetID == "" {
			return fmt.Errorf("%w: GOOGLE_CREDS_JSON and SPREADSHEET_ID are required for %s", ErrMissingStoreCredentials, c.StoreDriver)
		}
	case DriverSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return fmt.Errorf("%w: SUPABASE_URL and SUPABASE_KEY are required for %s", ErrMissingStoreCredentials, c.StoreDriver)
		}
	case DriverSQLite:
		if c.SQLiteDSN == "" {
			return fmt.Errorf("%w: LEADS_SQLITE_DSN is required for %s", ErrMissingStoreCredentials, c.StoreDriver)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStoreDriver, c.StoreDriver)
	}
	if c.SinkTimeout <= 0 {
		return fmt.Errorf("SINK_TIMEOUT must be positive, got %s", c.SinkTimeout)
	}
	if c.SendRate <= 0 {
		return fmt.Errorf("SEND_RATE must be positive, got %v", c.SendRate)
	}
	return nil
}

// Level переводит LOG_LEVEL в уровень slog; неизвестные значения дают info
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
