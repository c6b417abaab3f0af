package domain

// Outcome is the resolved result of a finished battle.
type Outcome struct {
	// Winner is the winning player index, -1 for a draw.
	Winner int
	Reason EndReason
	// BonusPlayer received the sudden-death bonus, -1 when nobody did.
	BonusPlayer int
	Bonus       int
	// Players are the final stats with any bonus applied.
	Players [2]PlayerStats
}

// ResolveOutcome computes the winner of a finished match. It never mutates s, so
// calling it twice yields the same outcome.
func ResolveOutcome(s *MatchState) Outcome {
	out := Outcome{
		Winner:      -1,
		Reason:      s.EndReason,
		BonusPlayer: -1,
	}
	for i, p := range s.Players {
		out.Players[i] = p.clone()
	}

	switch s.EndReason {
	case EndReasonLastChanceFailed:
		if s.LastChancePlayer >= 0 {
			out.Winner = OtherPlayer(s.LastChancePlayer)
		}

	case EndReasonSuddenDeath:
		t0 := suddenDeathTime(out.Players[0])
		t1 := suddenDeathTime(out.Players[1])
		c0, c1 := t0 != NeverAnswered, t1 != NeverAnswered

		switch {
		case c0 && (!c1 || t0 < t1):
			out.BonusPlayer = 0
		case c1 && (!c0 || t1 < t0):
			out.BonusPlayer = 1
		}
		if out.BonusPlayer >= 0 {
			out.Bonus = SuddenDeathBonus
			out.Players[out.BonusPlayer].Score += SuddenDeathBonus
			out.Winner = out.BonusPlayer
			break
		}
		out.Winner = byScore(out.Players, t0, t1)

	default:
		if out.Reason == EndReasonNone {
			out.Reason = EndReasonElimination
		}
		alive0, alive1 := out.Players[0].Lives > 0, out.Players[1].Lives > 0
		if alive0 != alive1 {
			if alive0 {
				out.Winner = 0
			} else {
				out.Winner = 1
			}
			break
		}
		out.Winner = byScore(out.Players, NeverAnswered, NeverAnswered)
	}
	return out
}

// byScore picks the higher score, then the smaller recorded time; -1 if still tied.
func byScore(players [2]PlayerStats, t0, t1 int) int {
	switch {
	case players[0].Score > players[1].Score:
		return 0
	case players[1].Score > players[0].Score:
		return 1
	case t0 < t1:
		return 0
	case t1 < t0:
		return 1
	}
	return -1
}

func suddenDeathTime(p PlayerStats) int {
	if p.SuddenDeathTime == nil {
		return NeverAnswered
	}
	return *p.SuddenDeathTime
}

// IsDraw reports whether no player won.
func (o Outcome) IsDraw() bool { return o.Winner < 0 }

// ResultStats is PlayerStats without identity fields, handed to the game-over screen.
type ResultStats struct {
	Name              string `json:"name"`
	Score             int    `json:"score"`
	Lives             int    `json:"lives"`
	CorrectAnswers    int    `json:"correctAnswers"`
	QuestionsAnswered int    `json:"questionsAnswered"`
	SuddenDeathTime   *int   `json:"suddenDeathTime,omitempty"`
}

// GameResult is the payload of the single game-over handoff.
type GameResult struct {
	FinalScore int          `json:"finalScore"`
	WinnerName string       `json:"winnerName,omitempty"`
	Stats      *ResultStats `json:"stats,omitempty"`
}

// Result converts an outcome into the game-over handoff. A draw reports the best
// score without a winner.
func (o Outcome) Result() GameResult {
	if o.IsDraw() {
		best := o.Players[0].Score
		if o.Players[1].Score > best {
			best = o.Players[1].Score
		}
		return GameResult{FinalScore: best}
	}
	w := o.Players[o.Winner]
	return GameResult{
		FinalScore: w.Score,
		WinnerName: w.Name,
		Stats: &ResultStats{
			Name:              w.Name,
			Score:             w.Score,
			Lives:             w.Lives,
			CorrectAnswers:    w.CorrectAnswers,
			QuestionsAnswered: w.QuestionsAnswered,
			SuddenDeathTime:   w.SuddenDeathTime,
		},
	}
}
