package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS sleep_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sleep_time TEXT NOT NULL,
		wake_time TEXT NOT NULL,
		duration REAL NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sleep_time TEXT NOT NULL,
		wake_time TEXT NOT NULL,
		duration REAL NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sleep_recommendations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recommendation TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS recommendation_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recommendation TEXT NOT NULL
	)`,
}

// NewConnection opens the sqlite database file and makes sure the tables
// exist. Creating them is idempotent, so a pre-provisioned file is untouched.
func NewConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return db, nil
}

func NewRedisConnection(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
