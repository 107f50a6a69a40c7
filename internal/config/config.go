package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Storage backend selectors.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendSheet  = "sheet"
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken  string
	AdminID        int64
	ChatID         int64
	StorageBackend string
	StoragePath    string
	DatabaseURL    string
	SheetsKey      string
	SpreadsheetID  string
	Timezone       string
	Port           int
	DigestTime     string
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		TelegramToken:  strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		StorageBackend: strings.TrimSpace(os.Getenv("STORAGE_BACKEND")),
		StoragePath:    strings.TrimSpace(os.Getenv("STORAGE_PATH")),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SheetsKey:      strings.TrimSpace(os.Getenv("G_SHEETS_KEY")),
		SpreadsheetID:  strings.TrimSpace(os.Getenv("SHEET_ID")),
		Timezone:       strings.TrimSpace(os.Getenv("TIMEZONE")),
		Port:           parsePort(strings.TrimSpace(os.Getenv("PORT"))),
		DigestTime:     strings.TrimSpace(os.Getenv("DIGEST_TIME")),
	}

	if cfg.StorageBackend == "" {
		cfg.StorageBackend = BackendFile
	}
	if cfg.StoragePath == "" {
		cfg.StoragePath = "joins.json"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "subscribers.db"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Moscow"
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("BOT_TOKEN is required")
	}

	var err error
	if cfg.AdminID, err = parseID(os.Getenv("ADMIN_ID")); err != nil {
		return cfg, fmt.Errorf("ADMIN_ID: %w", err)
	}
	if cfg.ChatID, err = parseID(os.Getenv("CHAT_ID")); err != nil {
		return cfg, fmt.Errorf("CHAT_ID: %w", err)
	}

	switch cfg.StorageBackend {
	case BackendFile, BackendSQLite:
	case BackendSheet:
		if cfg.SheetsKey == "" || cfg.SpreadsheetID == "" {
			return cfg, fmt.Errorf("G_SHEETS_KEY and SHEET_ID are required for the sheet backend")
		}
	default:
		return cfg, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	return cfg, nil
}

func parseID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("must be an integer, got %q", raw)
	}
	return id, nil
}

func parsePort(raw string) int {
	if raw == "" {
		return 10000
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 || port > 65535 {
		return 10000
	}
	return port
}
