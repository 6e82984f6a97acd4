package main

import (
	"os"
	"strconv"
	"strings"
)

const (
	defaultDBPath = "./data/history.db"
	memoryDB      = ":memory:"
)

// config is read from the environment after godotenv has loaded .env.
type config struct {
	LogLevel  string // zerolog level name
	DBPath    string // SQLite history file; ":memory:" keeps history in process
	Seed      int64  // fixed seed for reproducible matches
	HasSeed   bool
	DailySalt string
	Port      string
	Clear     bool // clear the terminal before each round
}

func loadConfig() config {
	c := config{
		LogLevel:  getEnv("LOG_LEVEL", "warn"),
		DBPath:    getEnv("BATTLE_DB", defaultDBPath),
		DailySalt: getEnv("DAILY_SALT", "local_dev_salt"),
		Port:      getEnv("PORT", "5175"),
		Clear:     envBool("BATTLE_CLEAR", true),
	}
	if v := strings.TrimSpace(os.Getenv("BATTLE_SEED")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed, c.HasSeed = n, true
		}
	}
	return c
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envBool parses k as a boolean, returning def when unset or malformed.
func envBool(k string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}
