// Package config reads service configuration from the environment.
package config

import (
	"os"
	"strconv"
)

// Database drivers.
const (
	DBSQLite   = "sqlite"
	DBPostgres = "postgres"
)

// Config is the process configuration, read once at startup.
type Config struct {
	HTTPAddr    string
	DBType      string
	DatabaseURL string // postgres DSN, used when DBType is postgres
	SQLitePath  string

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string

	// Reminder window: reminders are only sent between these hours.
	NotificationStartHour int
	NotificationEndHour   int
}

// Load reads configuration from environment variables, applying defaults for
// anything unset.
func Load() Config {
	cfg := Config{
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		DBType:                getEnv("DB_TYPE", DBSQLite),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		SQLitePath:            getEnv("SQLITE_PATH", "data/nclexprep.db"),
		OpenAIKey:             os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:         os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:           getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		NotificationStartHour: getEnvInt("NOTIFICATION_START_HOUR", 8),
		NotificationEndHour:   getEnvInt("NOTIFICATION_END_HOUR", 22),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
