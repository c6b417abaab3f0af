package domain

// Phase represents the coarse stage of a battle.
type Phase string

const (
	// PhaseRegular is the initial phase where correct answers attack the opponent.
	PhaseRegular Phase = "regular"
	// PhaseLastChance gives an eliminated player one reprieve turn.
	PhaseLastChance Phase = "last_chance"
	// PhaseSuddenDeath is the tie-break round: fastest correct answer wins.
	PhaseSuddenDeath Phase = "sudden_death"
)

// Difficulty selects which question bank a match draws from.
type Difficulty string

const (
	DifficultyIntegers Difficulty = "integers"
	DifficultyRational Difficulty = "rational"
	DifficultyComplex  Difficulty = "complex"
)

// Valid reports whether d names a known question bank.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyIntegers, DifficultyRational, DifficultyComplex:
		return true
	}
	return false
}

// Level is the per-question difficulty tag used by the wave generator.
type Level string

const (
	LevelTooEasy Level = "too easy"
	LevelEasy    Level = "easy"
	LevelMedium  Level = "medium"
	LevelHard    Level = "hard"
	LevelTooHard Level = "too hard"
)

// Question is a single multiple-choice prompt. Immutable once loaded.
type Question struct {
	ID            string     `json:"id"`
	Prompt        string     `json:"question"`
	Options       []Value    `json:"options"`
	CorrectAnswer Value      `json:"correctAnswer"`
	Difficulty    Difficulty `json:"difficulty"`
	Level         Level      `json:"level"`
}

// IsCorrect reports whether the selected answer matches. A nil selection is a timeout.
func (q Question) IsCorrect(selected *Value) bool {
	return selected != nil && selected.Equal(q.CorrectAnswer)
}

// Player identifies a participant before the match starts.
type Player struct {
	ID   string
	Name string
}

// PlayerStats holds the per-player battle state.
type PlayerStats struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Score             int    `json:"score"`
	Lives             int    `json:"lives"`
	CorrectAnswers    int    `json:"correctAnswers"`
	QuestionsAnswered int    `json:"questionsAnswered"`
	// SuddenDeathTime is nil until the player takes a sudden-death turn.
	// NeverAnswered marks a wrong answer or timeout.
	SuddenDeathTime *int `json:"suddenDeathTime,omitempty"`
}

// EndReason records how a match reached its terminal state.
type EndReason string

const (
	EndReasonNone             EndReason = ""
	EndReasonLastChanceFailed EndReason = "last_chance_failed"
	EndReasonSuddenDeath      EndReason = "sudden_death"
	EndReasonElimination      EndReason = "elimination"
)

// MatchState holds the authoritative state of a single 1v1 battle.
type MatchState struct {
	Players       [2]PlayerStats
	Questions     []Question
	QuestionIndex int
	ActivePlayer  int
	Phase         Phase

	// LastChancePlayer is the index of the player on a reprieve turn, -1 when none.
	LastChancePlayer int

	SuddenDeathTurns    int
	SuddenDeathResolved bool

	Ended     bool
	EndReason EndReason
}

// CurrentQuestion returns the question in play. The sequence wraps when a long match
// runs past the end of the pool.
func (s *MatchState) CurrentQuestion() Question {
	return s.Questions[s.QuestionIndex%len(s.Questions)]
}

// Snapshot is an immutable copy of the match state handed to presenters.
type Snapshot struct {
	Players          [2]PlayerStats `json:"players"`
	QuestionIndex    int            `json:"questionIndex"`
	Question         *Question      `json:"question,omitempty"`
	ActivePlayer     int            `json:"activePlayer"`
	Phase            Phase          `json:"phase"`
	LastChancePlayer int            `json:"lastChancePlayer"`
	Ended            bool           `json:"ended"`
}

// Snapshot copies the state so callers can never mutate the match through it.
func (s *MatchState) Snapshot() Snapshot {
	snap := Snapshot{
		QuestionIndex:    s.QuestionIndex,
		ActivePlayer:     s.ActivePlayer,
		Phase:            s.Phase,
		LastChancePlayer: s.LastChancePlayer,
		Ended:            s.Ended,
	}
	for i, p := range s.Players {
		snap.Players[i] = p.clone()
	}
	if len(s.Questions) > 0 && !s.Ended {
		q := s.CurrentQuestion()
		q.Options = append([]Value(nil), q.Options...)
		snap.Question = &q
	}
	return snap
}

func (p PlayerStats) clone() PlayerStats {
	if p.SuddenDeathTime != nil {
		t := *p.SuddenDeathTime
		p.SuddenDeathTime = &t
	}
	return p
}
