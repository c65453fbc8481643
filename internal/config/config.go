package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string `yaml:"database_path"`
	SnapshotDir  string `yaml:"snapshot_dir"`
	ImportDir    string `yaml:"import_dir"`
	Port         string `yaml:"port"`
	LogLevel     string `yaml:"log_level"`
	JWTSecret    string `yaml:"api_jwt_secret"`

	// Telegram Config
	TelegramBotToken       string  `yaml:"telegram_bot_token"`
	TelegramWebhookURL     string  `yaml:"telegram_webhook_url"`
	TelegramAllowedUserIDs []int64 `yaml:"telegram_allowed_user_ids"`
	AdminTelegramID        int64   `yaml:"admin_telegram_id"`
}

func defaults() Config {
	return Config{
		DatabasePath: "data/db/meal_planner.db",
		SnapshotDir:  "data/snapshots",
		Port:         "8080",
		LogLevel:     "info",
	}
}

// NewFromEnv creates a new Config from defaults, the optional YAML file named
// by MEAL_PLANNER_CONFIG, and environment variables, in increasing priority.
func NewFromEnv() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("MEAL_PLANNER_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	setString(&cfg.DatabasePath, "DATABASE_PATH")
	setString(&cfg.SnapshotDir, "SNAPSHOT_DIR")
	setString(&cfg.ImportDir, "IMPORT_DIR")
	setString(&cfg.Port, "PORT")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.JWTSecret, "API_JWT_SECRET")
	setString(&cfg.TelegramBotToken, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.TelegramWebhookURL, "TELEGRAM_WEBHOOK_URL")

	if v := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); v != "" {
		ids, err := parseIDList(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
		}
		cfg.TelegramAllowedUserIDs = ids
	}
	if v := os.Getenv("ADMIN_TELEGRAM_ID"); v != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
		cfg.AdminTelegramID = id
	}

	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("DATABASE_PATH must not be empty")
	}
	return &cfg, nil
}

// ValidateTelegram checks the settings the bot binary cannot run without.
func (c *Config) ValidateTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

// IsAllowedUser reports whether a Telegram user may talk to the bot. An
// empty allow list admits everyone.
func (c *Config) IsAllowedUser(id int64) bool {
	if len(c.TelegramAllowedUserIDs) == 0 || id == c.AdminTelegramID {
		return true
	}
	for _, allowed := range c.TelegramAllowedUserIDs {
		if allowed == id {
			return true
		}
	}
	return false
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s does not exist", path)
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func parseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
