package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"invasion/internal/domain"
)

// GameConfig tunes battle pacing. Durations are in seconds or milliseconds as named.
type GameConfig struct {
	TurnDurationSeconds int `json:"turn_duration_seconds"`
	// RevealDelayMs is how long the correct/incorrect feedback shows before resolving.
	RevealDelayMs int `json:"reveal_delay_ms"`
	// CorrectAnswerDelayMs is how long the right answer shows after a miss.
	CorrectAnswerDelayMs int `json:"correct_answer_delay_ms"`
	AdvanceDelayMs       int `json:"advance_delay_ms"`
	LastChanceEndDelayMs int `json:"last_chance_end_delay_ms"`
	AnnounceDelayMs      int `json:"announce_delay_ms"`
	SummarySeconds       int `json:"summary_seconds"`
	// BotMinDelaySeconds / BotMaxDelaySeconds bound how long a computer opponent thinks.
	BotMinDelaySeconds int `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds int `json:"bot_max_delay_seconds"`
}

// DefaultGameConfig returns the pacing of the browser game.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		TurnDurationSeconds:  domain.TurnSeconds,
		RevealDelayMs:        1200,
		CorrectAnswerDelayMs: 3000,
		AdvanceDelayMs:       1500,
		LastChanceEndDelayMs: 1500,
		AnnounceDelayMs:      1500,
		SummarySeconds:       15,
		BotMinDelaySeconds:   2,
		BotMaxDelaySeconds:   12,
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path. Fields left
// out of the file keep their defaults.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c, err := ParseGameConfig(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// ParseGameConfig decodes a JSON config over the defaults.
func ParseGameConfig(data []byte) (GameConfig, error) {
	c := DefaultGameConfig()
	if err := json.Unmarshal(data, &c); err != nil {
		return GameConfig{}, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if c.TurnDurationSeconds <= 0 {
		return GameConfig{}, fmt.Errorf("turn_duration_seconds must be positive, got %d", c.TurnDurationSeconds)
	}
	if c.BotMaxDelaySeconds < c.BotMinDelaySeconds {
		return GameConfig{}, fmt.Errorf("bot_max_delay_seconds must be >= bot_min_delay_seconds")
	}
	return c, nil
}

// GetGameConfig returns the loaded configuration, or the defaults if none was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return DefaultGameConfig()
	}
	return *cfg
}

// TurnDuration returns the per-turn countdown.
func (c GameConfig) TurnDuration() time.Duration {
	return time.Duration(c.TurnDurationSeconds) * time.Second
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

func (c GameConfig) RevealDelay() time.Duration        { return ms(c.RevealDelayMs) }
func (c GameConfig) CorrectAnswerDelay() time.Duration { return ms(c.CorrectAnswerDelayMs) }
func (c GameConfig) AdvanceDelay() time.Duration       { return ms(c.AdvanceDelayMs) }
func (c GameConfig) LastChanceEndDelay() time.Duration { return ms(c.LastChanceEndDelayMs) }
func (c GameConfig) AnnounceDelay() time.Duration      { return ms(c.AnnounceDelayMs) }
