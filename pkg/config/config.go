package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Env         string
	PostgresUrl string
	JWTSecret   string

	// Notification retention windows
	NotificationReadRetention   time.Duration
	NotificationUnreadRetention time.Duration
	NotificationPurgeRetention  time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		PostgresUrl: getEnv("POSTGRES_CONN_STR", ""),
		JWTSecret:   getEnv("JWT_SECRET", "supersecretjwtkey"),

		NotificationReadRetention:   getEnvDays("NOTIFICATION_READ_RETENTION_DAYS", 30),
		NotificationUnreadRetention: getEnvDays("NOTIFICATION_UNREAD_RETENTION_DAYS", 90),
		NotificationPurgeRetention:  getEnvDays("NOTIFICATION_PURGE_RETENTION_DAYS", 30),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDays(key string, defaultDays int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if days, err := strconv.Atoi(value); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	return time.Duration(defaultDays) * 24 * time.Hour
}
