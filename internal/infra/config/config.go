package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken       string
	DatabaseURL         string
	AdminTelegramID     int64 // operator allowed to run management commands
	ModeratorTelegramID int64 // designated approver for expiry/classification prompts
	LogLevel            string
	Environment         string

	ReminderEnabled  bool
	ReminderTimezone string
	ReminderLocation *time.Location
	ReminderHour     int
	ReminderMinute   int
	ReminderText     string

	CronSpecReminderCheck string
	CronSpecExpiryCheck   string

	MetricsAddr string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID")
	if adminIDStr == "" {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not set")
	}
	cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
	}

	moderatorIDStr := os.Getenv("MODERATOR_TELEGRAM_ID")
	if moderatorIDStr == "" {
		return nil, fmt.Errorf("MODERATOR_TELEGRAM_ID is not set")
	}
	cfg.ModeratorTelegramID, err = strconv.ParseInt(moderatorIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MODERATOR_TELEGRAM_ID: %w", err)
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.ReminderEnabled = true
	if v := os.Getenv("REMINDER_ENABLED"); v != "" {
		cfg.ReminderEnabled, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REMINDER_ENABLED: %w", err)
		}
	}

	cfg.ReminderTimezone = os.Getenv("REMINDER_TIMEZONE")
	if cfg.ReminderTimezone == "" {
		cfg.ReminderTimezone = "Europe/Warsaw"
	}
	cfg.ReminderLocation, err = time.LoadLocation(cfg.ReminderTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_TIMEZONE %q: %w", cfg.ReminderTimezone, err)
	}

	cfg.ReminderHour = 17
	if v := os.Getenv("REMINDER_HOUR"); v != "" {
		cfg.ReminderHour, err = strconv.Atoi(v)
		if err != nil || cfg.ReminderHour < 0 || cfg.ReminderHour > 23 {
			return nil, fmt.Errorf("invalid REMINDER_HOUR: %q", v)
		}
	}
	cfg.ReminderMinute = 0
	if v := os.Getenv("REMINDER_MINUTE"); v != "" {
		cfg.ReminderMinute, err = strconv.Atoi(v)
		if err != nil || cfg.ReminderMinute < 0 || cfg.ReminderMinute > 59 {
			return nil, fmt.Errorf("invalid REMINDER_MINUTE: %q", v)
		}
	}

	cfg.ReminderText = os.Getenv("REMINDER_TEXT")
	if cfg.ReminderText == "" {
		cfg.ReminderText = "Reminder: this graphic comes into effect tomorrow."
	}

	cfg.CronSpecReminderCheck = os.Getenv("CRON_SPEC_REMINDER_CHECK")
	if cfg.CronSpecReminderCheck == "" {
		cfg.CronSpecReminderCheck = "0 * * * *" // Default: hourly, on the hour
	}

	cfg.CronSpecExpiryCheck = os.Getenv("CRON_SPEC_EXPIRY_CHECK")
	if cfg.CronSpecExpiryCheck == "" {
		cfg.CronSpecExpiryCheck = "30 * * * *" // Default: hourly, on the half hour
	}

	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = ":9090"
	}

	return cfg, nil
}
