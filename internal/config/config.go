package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	DBPath          string
	LogLevel        string
	AllowedOrigins  []string
	MaxSearchLimit  int
	GuildListLimit  int
	PlayerSearchCap int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:            envOr("ADDR", ":8080"),
		DBPath:          envOr("DB_PATH", "file:gwarchivist.db"),
		LogLevel:        envOr("LOG_LEVEL", "INFO"),
		AllowedOrigins:  envListOr("ALLOWED_ORIGINS", []string{"*"}),
		MaxSearchLimit:  envIntOr("MAX_SEARCH_LIMIT", 200),
		GuildListLimit:  envIntOr("GUILD_LIST_LIMIT", 100),
		PlayerSearchCap: envIntOr("PLAYER_SEARCH_CAP", 1000),
	}
}

// Validate checks the configuration for values the server cannot start with.
// All problems are collected so a broken deployment surfaces everything at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.MaxSearchLimit < 1 {
		problems = append(problems, "MAX_SEARCH_LIMIT must be at least 1")
	}
	if c.GuildListLimit < 1 {
		problems = append(problems, "GUILD_LIST_LIMIT must be at least 1")
	}
	if c.PlayerSearchCap < 1 {
		problems = append(problems, "PLAYER_SEARCH_CAP must be at least 1")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
