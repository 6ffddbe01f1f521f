package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	SlackClientID      string
	SlackClientSecret  string
	SlackSigningSecret string
	SlackRedirectURI   string
	SessionSecret      string
	LogLevel           string
	LogFormat          string

	// RestrictAwardTo limits who may run /award, per team. A team absent
	// from the map is unrestricted. Parsed once at startup so a malformed
	// value fails fast instead of silently allowing everyone.
	RestrictAwardTo map[string][]string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		SlackClientID:      getEnv("SLACK_CLIENT_ID", ""),
		SlackClientSecret:  getEnv("SLACK_CLIENT_SECRET", ""),
		SlackSigningSecret: getEnv("SLACK_SIGNING_SECRET", ""),
		SlackRedirectURI:   getEnv("SLACK_REDIRECT_URI", ""),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.SlackClientID == "" {
		return nil, fmt.Errorf("SLACK_CLIENT_ID is required")
	}
	if cfg.SlackClientSecret == "" {
		return nil, fmt.Errorf("SLACK_CLIENT_SECRET is required")
	}
	if cfg.SlackSigningSecret == "" {
		return nil, fmt.Errorf("SLACK_SIGNING_SECRET is required")
	}
	if cfg.SlackRedirectURI == "" {
		return nil, fmt.Errorf("SLACK_REDIRECT_URI is required")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	restrict, err := ParseRestrictAwardTo(os.Getenv("RESTRICT_AWARD_TO"))
	if err != nil {
		return nil, err
	}
	cfg.RestrictAwardTo = restrict

	return cfg, nil
}

// ParseRestrictAwardTo parses the RESTRICT_AWARD_TO env value, a JSON object
// mapping team ids to arrays of Slack user ids. Empty input means no
// restriction anywhere.
func ParseRestrictAwardTo(raw string) (map[string][]string, error) {
	if raw == "" {
		return nil, nil
	}

	var restrict map[string][]string
	if err := json.Unmarshal([]byte(raw), &restrict); err != nil {
		return nil, fmt.Errorf("RESTRICT_AWARD_TO must be a JSON object of team id to user id arrays: %w", err)
	}
	return restrict, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
