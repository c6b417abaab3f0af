package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ServerConfig holds process settings read from the environment.
type ServerConfig struct {
	HTTPAddr string `env:"INVASION_HTTP_ADDR" envDefault:":3001"`
	LogLevel string `env:"INVASION_LOG_LEVEL" envDefault:"info"`

	// LeaderboardBackend selects "file" (one JSON file per category) or "sqlite".
	LeaderboardBackend string `env:"INVASION_LEADERBOARD_BACKEND" envDefault:"file"`
	LeaderboardDir     string `env:"INVASION_LEADERBOARD_DIR" envDefault:"public/leaderboards"`
	SQLitePath         string `env:"INVASION_SQLITE_PATH" envDefault:"data/leaderboards.db"`
	LeaderboardURL     string `env:"INVASION_LEADERBOARD_URL" envDefault:"http://localhost:3001"`

	// QuestionsDir is used unless QuestionsURL is set.
	QuestionsDir string `env:"INVASION_QUESTIONS_DIR" envDefault:"data/questions"`
	QuestionsURL string `env:"INVASION_QUESTIONS_URL"`

	GameConfigPath string `env:"INVASION_GAME_CONFIG"`
	BotNamesPath   string `env:"INVASION_BOT_NAMES" envDefault:"data/bot_identities.json"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (ServerConfig, error) {
	var c ServerConfig
	if err := env.Parse(&c); err != nil {
		return ServerConfig{}, fmt.Errorf("parse env: %w", err)
	}
	switch c.LeaderboardBackend {
	case "file", "sqlite":
	default:
		return ServerConfig{}, fmt.Errorf("unknown leaderboard backend %q", c.LeaderboardBackend)
	}
	return c, nil
}
