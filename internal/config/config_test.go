package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MEAL_PLANNER_CONFIG", "DATABASE_PATH", "SNAPSHOT_DIR", "IMPORT_DIR", "PORT",
		"LOG_LEVEL", "API_JWT_SECRET", "TELEGRAM_BOT_TOKEN", "TELEGRAM_WEBHOOK_URL",
		"TELEGRAM_ALLOWED_USER_IDS", "ADMIN_TELEGRAM_ID",
	} {
		t.Setenv(key, "")
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "data/db/meal_planner.db" {
			t.Errorf("Expected default DatabasePath, got '%s'", cfg.DatabasePath)
		}
		if cfg.Port != "8080" {
			t.Errorf("Expected Port to be '8080', got '%s'", cfg.Port)
		}
		if !cfg.IsAllowedUser(42) {
			t.Error("Expected empty allow list to admit everyone")
		}
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_PATH", ":memory:")
		t.Setenv("PORT", "9000")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "1, 2,,3")
		t.Setenv("ADMIN_TELEGRAM_ID", "99")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != ":memory:" {
			t.Errorf("Expected DatabasePath ':memory:', got '%s'", cfg.DatabasePath)
		}
		if len(cfg.TelegramAllowedUserIDs) != 3 || cfg.TelegramAllowedUserIDs[2] != 3 {
			t.Errorf("Unexpected allowed ids %v", cfg.TelegramAllowedUserIDs)
		}
		if !cfg.IsAllowedUser(2) || !cfg.IsAllowedUser(99) || cfg.IsAllowedUser(4) {
			t.Error("IsAllowedUser does not respect the allow list")
		}
	})

	t.Run("YAMLFileUnderEnv", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "database_path: /tmp/from-file.db\nport: \"7000\"\ntelegram_allowed_user_ids: [5, 6]\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("MEAL_PLANNER_CONFIG", path)
		t.Setenv("PORT", "7001")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "/tmp/from-file.db" {
			t.Errorf("Expected DatabasePath from file, got '%s'", cfg.DatabasePath)
		}
		if cfg.Port != "7001" {
			t.Errorf("Expected env PORT to win, got '%s'", cfg.Port)
		}
		if len(cfg.TelegramAllowedUserIDs) != 2 {
			t.Errorf("Expected 2 allowed ids, got %v", cfg.TelegramAllowedUserIDs)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MEAL_PLANNER_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for a missing config file, got nil")
		}
	})

	t.Run("InvalidAdminID", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ADMIN_TELEGRAM_ID", "abc")
		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for invalid ADMIN_TELEGRAM_ID, got nil")
		}
	})

	t.Run("ValidateTelegram", func(t *testing.T) {
		clearEnv(t)
		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatal(err)
		}
		expectedError := "TELEGRAM_BOT_TOKEN environment variable not set"
		if err := cfg.ValidateTelegram(); err == nil || err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%v'", expectedError, err)
		}
		cfg.TelegramBotToken = "token"
		cfg.TelegramWebhookURL = "https://example.test/hook"
		if err := cfg.ValidateTelegram(); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})
}
