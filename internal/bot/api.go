package bot

import (
	"time"

	"invasion/internal/domain"
)

// Move represents the decision made by the AI. A nil Answer lets the turn clock
// run out.
type Move struct {
	Answer *domain.Value
	Think  time.Duration
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	ChooseAnswer(q domain.Question, snap domain.Snapshot, seat int) (Move, error)
}
