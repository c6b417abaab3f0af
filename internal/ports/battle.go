package ports

import (
	"context"

	"invasion/internal/domain"
)

// QuestionSource supplies the question pool for a difficulty.
type QuestionSource interface {
	// Questions returns the bank for difficulty. Callers treat an error as an
	// empty pool.
	Questions(ctx context.Context, difficulty domain.Difficulty) ([]domain.Question, error)
}

// SoundPlayer plays a sound effect. Implementations must not block.
type SoundPlayer interface {
	Play(sound domain.Sound)
}

// OutcomePort receives the single game-over handoff of a battle.
type OutcomePort interface {
	GameOver(result domain.GameResult)
}

// NoSound discards every sound.
type NoSound struct{}

// Play implements SoundPlayer.
func (NoSound) Play(domain.Sound) {}

// OutcomeFunc adapts a function to OutcomePort.
type OutcomeFunc func(result domain.GameResult)

// GameOver implements OutcomePort.
func (f OutcomeFunc) GameOver(result domain.GameResult) { f(result) }
