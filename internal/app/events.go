package app

import "invasion/internal/domain"

// EventKind identifies emitted battle events for presenters.
type EventKind string

const (
	EventMatchStarted       EventKind = "match_started"
	EventTurnStarted        EventKind = "turn_started"
	EventClockTicked        EventKind = "clock_ticked"
	EventAnswerRevealed     EventKind = "answer_revealed"
	EventCorrectAnswerShown EventKind = "correct_answer_shown"
	EventTurnResolved       EventKind = "turn_resolved"
	EventSuddenDeathIntro   EventKind = "sudden_death_intro"
	EventOutcomeResolved    EventKind = "outcome_resolved"
	EventWinnerAnnounced    EventKind = "winner_announced"
	EventSummaryTicked      EventKind = "summary_ticked"
	EventGameOver           EventKind = "game_over"
	EventAborted            EventKind = "aborted"
)

// StatusType colors a status line.
type StatusType string

const (
	StatusInfo    StatusType = "info"
	StatusSuccess StatusType = "success"
	StatusWarning StatusType = "warning"
	StatusError   StatusType = "error"
	StatusSpecial StatusType = "special"
)

// Status is the one-line narration shown under the board.
type Status struct {
	Text string     `json:"text"`
	Type StatusType `json:"type"`
}

// Event is a battle event with the state snapshot taken right after it.
type Event struct {
	Kind     EventKind       `json:"kind"`
	Stage    Stage           `json:"stage"`
	Payload  any             `json:"payload,omitempty"`
	Status   *Status         `json:"status,omitempty"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

type TurnStartedPayload struct {
	Player        int          `json:"player"`
	QuestionIndex int          `json:"questionIndex"`
	Phase         domain.Phase `json:"phase"`
	Seconds       int          `json:"seconds"`
}

type ClockTickedPayload struct {
	Remaining int `json:"remaining"`
}

type AnswerRevealedPayload struct {
	Player   int           `json:"player"`
	Selected *domain.Value `json:"selected,omitempty"`
	Correct  bool          `json:"correct"`
	TimedOut bool          `json:"timedOut"`
	Seconds  int           `json:"seconds"`
}

type CorrectAnswerShownPayload struct {
	Selected      *domain.Value `json:"selected,omitempty"`
	CorrectAnswer domain.Value  `json:"correctAnswer"`
}

type TurnResolvedPayload struct {
	Resolution domain.Resolution `json:"resolution"`
}

type OutcomeResolvedPayload struct {
	Outcome domain.Outcome `json:"outcome"`
}

type SummaryTickedPayload struct {
	Remaining int `json:"remaining"`
	Total     int `json:"total"`
}

type GameOverPayload struct {
	Result domain.GameResult `json:"result"`
}
