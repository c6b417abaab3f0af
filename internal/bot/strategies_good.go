package bot

import (
	"math/rand"

	"invasion/internal/domain"
)

// GoodBot answers at a flat 60% accuracy and thinks anywhere in the window.
type GoodBot struct {
	rng    *rand.Rand
	tuning Tuning
}

func (b *GoodBot) ChooseAnswer(q domain.Question, _ domain.Snapshot, _ int) (Move, error) {
	think := thinkTime(b.rng, b.tuning.MinThink, b.tuning.MaxThink)
	return Move{Answer: pick(b.rng, q, 0.6), Think: think}, nil
}
