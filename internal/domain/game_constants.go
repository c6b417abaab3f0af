package domain

import "math"

const (
	// StartingLives is the number of lives each player begins a battle with.
	StartingLives = 3
	// RegularTurnsPerPlayer is how many answers each player gives before sudden death.
	RegularTurnsPerPlayer = 10
	// MinQuestions covers 10 regular turns per player plus sudden-death headroom.
	MinQuestions = 22

	BaseAttackScore  = 10
	TimeBonusWindow  = 15 // seconds
	SuddenDeathBonus = 50

	// TurnSeconds is the default per-turn countdown.
	TurnSeconds = 30

	// NeverAnswered is the recorded sudden-death time for a wrong answer or timeout.
	NeverAnswered = math.MaxInt
)
