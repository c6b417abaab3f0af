package bot

import (
	"math/rand"

	"invasion/internal/domain"
)

// GodBot always knows the answer. It only varies how fast it says it.
type GodBot struct {
	rng    *rand.Rand
	tuning Tuning
}

func (b *GodBot) ChooseAnswer(q domain.Question, snap domain.Snapshot, seat int) (Move, error) {
	answer := q.CorrectAnswer
	if urgent(snap, seat) {
		return Move{Answer: &answer, Think: b.tuning.MinThink}, nil
	}
	mid := b.tuning.MinThink + (b.tuning.MaxThink-b.tuning.MinThink)/2
	return Move{Answer: &answer, Think: thinkTime(b.rng, b.tuning.MinThink, mid)}, nil
}
