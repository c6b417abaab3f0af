package bot

import (
	"math/rand"
	"time"

	"invasion/internal/domain"
)

// SmartBot's accuracy follows the question level, and it hurries when the turn
// decides the match.
type SmartBot struct {
	rng    *rand.Rand
	tuning Tuning
}

func (b *SmartBot) ChooseAnswer(q domain.Question, snap domain.Snapshot, seat int) (Move, error) {
	lo, hi := b.tuning.MinThink, b.tuning.MaxThink
	if urgent(snap, seat) {
		hi = lo + time.Duration(float64(hi-lo)*b.tuning.SuddenDeathHaste)
	}
	return Move{
		Answer: pick(b.rng, q, b.tuning.accuracy(q.Level)),
		Think:  thinkTime(b.rng, lo, hi),
	}, nil
}

// urgent reports whether a slow or wrong answer here likely loses the match.
func urgent(snap domain.Snapshot, seat int) bool {
	if snap.Phase == domain.PhaseSuddenDeath {
		return true
	}
	return snap.Phase == domain.PhaseLastChance && snap.LastChancePlayer == seat
}
