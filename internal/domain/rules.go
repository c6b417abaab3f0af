package domain

import (
	"errors"
	"math/rand"
)

var (
	ErrNotEnoughQuestions = errors.New("not enough questions for a full battle")
	ErrMatchEnded         = errors.New("match already ended")
)

// ScoreGain returns the points for a regular-phase correct answer given after
// answerSeconds. The time bonus floors at zero once the answer takes 15s or more.
func ScoreGain(answerSeconds int) int {
	bonus := TimeBonusWindow - answerSeconds
	if bonus < 0 {
		bonus = 0
	}
	return BaseAttackScore + bonus
}

// NewMatchState validates the pool and returns a fresh Regular-phase state with
// player 0 to move. The question slice is copied, never shared.
func NewMatchState(players [2]Player, questions []Question) (*MatchState, error) {
	if len(questions) < MinQuestions {
		return nil, ErrNotEnoughQuestions
	}
	state := &MatchState{
		Questions:        append([]Question(nil), questions...),
		Phase:            PhaseRegular,
		LastChancePlayer: -1,
	}
	for i, p := range players {
		state.Players[i] = PlayerStats{
			ID:    p.ID,
			Name:  p.Name,
			Lives: StartingLives,
		}
	}
	return state, nil
}

// ShuffleQuestions returns a shuffled copy of the pool.
func ShuffleQuestions(rng *rand.Rand, questions []Question) []Question {
	out := append([]Question(nil), questions...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Resolution describes what a single resolved turn did to the match.
type Resolution struct {
	Player    int
	Correct   bool
	Seconds   int
	Phase     Phase // phase the turn was played in
	ScoreGain int

	// Defender is the player who lost a life, -1 when nobody was hit.
	Defender          int
	EnteredLastChance bool
	Revived           bool
	EnteredSudden     bool
	MatchOver         bool
}

// ResolveAnswer applies one answer (or timeout, correct=false) by the active player.
// It mutates the state's stats and phase but not the turn pointer; call AdvanceTurn
// or BeginSuddenDeath afterwards for non-terminal resolutions.
func ResolveAnswer(s *MatchState, correct bool, answerSeconds int) (Resolution, error) {
	if s.Ended {
		return Resolution{}, ErrMatchEnded
	}
	if answerSeconds < 0 {
		answerSeconds = 0
	}

	active := s.ActivePlayer
	player := &s.Players[active]
	res := Resolution{
		Player:   active,
		Correct:  correct,
		Seconds:  answerSeconds,
		Phase:    s.Phase,
		Defender: -1,
	}

	player.QuestionsAnswered++
	if correct {
		player.CorrectAnswers++
	}

	switch s.Phase {
	case PhaseSuddenDeath:
		t := NeverAnswered
		if correct {
			t = answerSeconds
		}
		player.SuddenDeathTime = &t
		s.SuddenDeathTurns++
		if s.SuddenDeathTurns >= len(s.Players) {
			s.SuddenDeathResolved = true
			s.end(EndReasonSuddenDeath)
			res.MatchOver = true
		}
		return res, nil

	case PhaseLastChance:
		if active == s.LastChancePlayer {
			if !correct {
				s.end(EndReasonLastChanceFailed)
				res.MatchOver = true
				return res, nil
			}
			res.ScoreGain = ScoreGain(answerSeconds)
			player.Score += res.ScoreGain
			player.Lives = 1
			s.Phase = PhaseRegular
			s.LastChancePlayer = -1
			res.Revived = true
			break
		}
		// The marked player always moves next, so only a misrouted turn lands here.
		if correct {
			res.ScoreGain = ScoreGain(answerSeconds)
			player.Score += res.ScoreGain
		}

	default:
		if correct {
			res.ScoreGain = ScoreGain(answerSeconds)
			player.Score += res.ScoreGain

			defender := OtherPlayer(active)
			res.Defender = defender
			d := &s.Players[defender]
			if d.Lives > 0 {
				d.Lives--
			}
			if d.Lives == 0 {
				s.Phase = PhaseLastChance
				s.LastChancePlayer = defender
				res.EnteredLastChance = true
			}
		}
	}

	if s.Phase == PhaseRegular && s.regularTurnsDone() {
		s.Phase = PhaseSuddenDeath
		res.EnteredSudden = true
	}
	return res, nil
}

// AdvanceTurn moves to a fresh question and hands the turn over. A pending last
// chance overrides alternation so the marked player answers next.
func AdvanceTurn(s *MatchState) {
	s.QuestionIndex++
	if s.Phase == PhaseLastChance && s.LastChancePlayer >= 0 {
		s.ActivePlayer = s.LastChancePlayer
		return
	}
	s.ActivePlayer = OtherPlayer(s.ActivePlayer)
}

// BeginSuddenDeath opens the first sudden-death turn. Player 0 always starts.
func BeginSuddenDeath(s *MatchState) {
	s.QuestionIndex++
	s.ActivePlayer = 0
}

func (s *MatchState) regularTurnsDone() bool {
	for _, p := range s.Players {
		if p.QuestionsAnswered < RegularTurnsPerPlayer {
			return false
		}
	}
	return true
}

func (s *MatchState) end(reason EndReason) {
	s.Ended = true
	s.EndReason = reason
}
