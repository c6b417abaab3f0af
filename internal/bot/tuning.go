package bot

import (
	"fmt"
	"time"

	"invasion/internal/domain"
)

// BotLevel selects how strong a computer opponent plays.
type BotLevel int

const (
	BotLevelGood BotLevel = iota + 1
	BotLevelSmart
	BotLevelGod
)

// ParseLevel maps the identity difficulty strings onto levels.
func ParseLevel(s string) (BotLevel, error) {
	switch s {
	case "easy", "good":
		return BotLevelGood, nil
	case "medium", "smart":
		return BotLevelSmart, nil
	case "hard", "god":
		return BotLevelGod, nil
	}
	return 0, fmt.Errorf("unknown bot level: %q", s)
}

// Tuning bounds how long a bot thinks and how often it is right.
type Tuning struct {
	MinThink time.Duration
	MaxThink time.Duration
	// Accuracy is the chance of a correct answer per question level.
	Accuracy map[domain.Level]float64
	// SuddenDeathHaste scales think time when a single fast answer decides the match.
	SuddenDeathHaste float64
}

// DefaultTuning keeps answers inside the time-bonus window most of the time.
var DefaultTuning = Tuning{
	MinThink: 2 * time.Second,
	MaxThink: 12 * time.Second,
	Accuracy: map[domain.Level]float64{
		domain.LevelTooEasy: 0.95,
		domain.LevelEasy:    0.9,
		domain.LevelMedium:  0.8,
		domain.LevelHard:    0.65,
		domain.LevelTooHard: 0.5,
	},
	SuddenDeathHaste: 0.6,
}

// WithThink returns a copy with the think window replaced.
func (t Tuning) WithThink(lo, hi time.Duration) Tuning {
	if hi < lo {
		hi = lo
	}
	t.MinThink, t.MaxThink = lo, hi
	return t
}

func (t Tuning) accuracy(level domain.Level) float64 {
	if a, ok := t.Accuracy[level]; ok {
		return a
	}
	return t.Accuracy[domain.LevelMedium]
}
