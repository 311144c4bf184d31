package config

import (
	"os"
)

type Config struct {
	SQLitePath string
	RedisURL   string
	Port       string
}

func Load() *Config {
	return &Config{
		SQLitePath: getEnv("SQLITE_PATH", "sleep_sched.db"),
		RedisURL:   getEnv("REDIS_URL", ""),
		Port:       getEnv("PORT", "8080"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
