package bot

import (
	"invasion/internal/domain"
)

// Agent represents an autonomous bot player sitting in one seat of a battle.
type Agent struct {
	ID       string
	Name     string
	Seat     int
	Strategy Brain
}

// Play asks the agent for its answer to the question on the board. It returns
// ok=false when it is not this agent's turn.
func (a *Agent) Play(snap domain.Snapshot) (Move, bool, error) {
	if snap.Ended || snap.ActivePlayer != a.Seat || snap.Question == nil {
		return Move{}, false, nil
	}
	move, err := a.Strategy.ChooseAnswer(*snap.Question, snap, a.Seat)
	if err != nil {
		// Let the clock decide.
		return Move{}, true, err
	}
	return move, true, nil
}

// Player returns the domain identity of the agent.
func (a *Agent) Player() domain.Player {
	return domain.Player{ID: a.ID, Name: a.Name}
}
