package bot

import (
	"fmt"
	"math/rand"
)

// NewBrain returns the strategy for level. rng must only be used from one goroutine.
func NewBrain(level BotLevel, rng *rand.Rand, tuning Tuning) (Brain, error) {
	if tuning.Accuracy == nil {
		tuning.Accuracy = DefaultTuning.Accuracy
	}
	if tuning.MaxThink <= 0 {
		tuning = tuning.WithThink(DefaultTuning.MinThink, DefaultTuning.MaxThink)
	}
	switch level {
	case BotLevelGood:
		return &GoodBot{rng: rng, tuning: tuning}, nil
	case BotLevelSmart:
		return &SmartBot{rng: rng, tuning: tuning}, nil
	case BotLevelGod:
		return &GodBot{rng: rng, tuning: tuning}, nil
	}
	return nil, fmt.Errorf("unknown bot level: %d", level)
}
