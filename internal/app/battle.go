package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"invasion/internal/config"
	"invasion/internal/domain"
	"invasion/internal/ports"
	"invasion/internal/schedule"

	"github.com/google/uuid"
)

// Stage is the fine-grained position of a battle inside its current turn.
type Stage string

const (
	StageReady                Stage = "ready"
	StageAwaitingAnswer       Stage = "awaiting_answer"
	StageAnswerRevealed       Stage = "answer_revealed"
	StageShowingCorrectAnswer Stage = "showing_correct_answer"
	StageAdvancingTurn        Stage = "advancing_turn"
	StageSuddenDeathIntro     Stage = "sudden_death_intro"
	StageMatchEnding          Stage = "match_ending"
	StageAnnouncingWinner     Stage = "announcing_winner"
	StageSummary              Stage = "summary"
	StageFinished             Stage = "finished"
)

var ErrAlreadyStarted = errors.New("battle already started")

// Options wires a battle to its collaborators. Scheduler is required.
type Options struct {
	MatchID   string
	Config    config.GameConfig
	Scheduler schedule.Scheduler
	Sounds    ports.SoundPlayer
	Outcome   ports.OutcomePort
	// Publish receives every event on the scheduler's thread.
	Publish func(Event)
}

// Battle sequences a 1v1 match: it owns the MatchState and the turn clock and
// moves through its stages only from scheduler callbacks or the exported input
// methods. Every method must be called on the scheduler's thread.
type Battle struct {
	id      string
	cfg     config.GameConfig
	sched   schedule.Scheduler
	sounds  ports.SoundPlayer
	outcome ports.OutcomePort
	publish func(Event)

	state *domain.MatchState
	stage Stage
	clock *TurnClock

	// pending holds the single stage timer; stages never overlap.
	pending schedule.Timer

	answerCorrect bool
	answerSeconds int

	result      *domain.Outcome
	summaryLeft int
	handedOff   bool
}

// NewBattle validates the question pool and prepares a battle in StageReady.
func NewBattle(players [2]domain.Player, questions []domain.Question, opts Options) (*Battle, error) {
	if opts.Scheduler == nil {
		return nil, fmt.Errorf("battle scheduler is required")
	}
	state, err := domain.NewMatchState(players, questions)
	if err != nil {
		return nil, err
	}
	if opts.Config.TurnDurationSeconds <= 0 {
		opts.Config = config.DefaultGameConfig()
	}
	if opts.Sounds == nil {
		opts.Sounds = ports.NoSound{}
	}
	if opts.MatchID == "" {
		opts.MatchID = uuid.New().String()
	}

	b := &Battle{
		id:      opts.MatchID,
		cfg:     opts.Config,
		sched:   opts.Scheduler,
		sounds:  opts.Sounds,
		outcome: opts.Outcome,
		publish: opts.Publish,
		state:   state,
		stage:   StageReady,
	}
	b.clock = NewTurnClock(b.sched, b.cfg.TurnDurationSeconds, b.onClockTick, b.onClockExpired)
	return b, nil
}

// PrepareBattle loads and shuffles a pool from source and builds the battle. A
// fetch failure counts as an empty pool and fails with ErrNotEnoughQuestions.
func PrepareBattle(ctx context.Context, source ports.QuestionSource, difficulty domain.Difficulty, rng *rand.Rand, players [2]domain.Player, opts Options) (*Battle, error) {
	questions, err := source.Questions(ctx, difficulty)
	if err != nil {
		return nil, fmt.Errorf("%w: load %s questions: %v", domain.ErrNotEnoughQuestions, difficulty, err)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return NewBattle(players, domain.ShuffleQuestions(rng, questions), opts)
}

// ID returns the match id.
func (b *Battle) ID() string { return b.id }

// Stage returns the current stage.
func (b *Battle) Stage() Stage { return b.stage }

// Snapshot returns an immutable copy of the match state.
func (b *Battle) Snapshot() domain.Snapshot { return b.state.Snapshot() }

// TimeLeft returns the seconds left on the turn clock.
func (b *Battle) TimeLeft() int { return b.clock.Remaining() }

// Outcome returns the resolved outcome, nil until the match has ended.
func (b *Battle) Outcome() *domain.Outcome { return b.result }

// Start opens the first turn.
func (b *Battle) Start() error {
	if b.stage != StageReady {
		return ErrAlreadyStarted
	}
	first := b.state.Players[0].Name
	b.emit(EventMatchStarted, nil, &Status{Text: fmt.Sprintf("The battle begins! %s starts!", first), Type: StatusInfo})
	b.startTurn(nil)
	return nil
}

// SubmitAnswer feeds the active player's answer into the battle. It returns false
// and does nothing when the turn is not awaiting an answer from that player,
// which covers duplicates, answers during animations and answers after a timeout.
func (b *Battle) SubmitAnswer(player int, answer *domain.Value) bool {
	if b.stage != StageAwaitingAnswer || player != b.state.ActivePlayer {
		return false
	}
	b.answer(answer)
	return true
}

// DismissIntro starts the first sudden-death turn once the intro was shown.
func (b *Battle) DismissIntro() bool {
	if b.stage != StageSuddenDeathIntro {
		return false
	}
	domain.BeginSuddenDeath(b.state)
	first := b.state.Players[0].Name
	b.startTurn(&Status{Text: fmt.Sprintf("Final question! It's your turn, %s!", first), Type: StatusSpecial})
	return true
}

// Proceed skips the rest of the post-game summary.
func (b *Battle) Proceed() bool {
	if b.stage != StageSummary {
		return false
	}
	b.handOff()
	return true
}

// Abort stops the battle without handing off a result.
func (b *Battle) Abort() {
	if b.stage == StageFinished {
		return
	}
	b.cancelAll()
	b.stage = StageFinished
	b.emit(EventAborted, nil, nil)
}

func (b *Battle) startTurn(status *Status) {
	b.stage = StageAwaitingAnswer
	b.clock.Start()

	if status == nil {
		status = b.turnStatus()
	}
	b.emit(EventTurnStarted, TurnStartedPayload{
		Player:        b.state.ActivePlayer,
		QuestionIndex: b.state.QuestionIndex,
		Phase:         b.state.Phase,
		Seconds:       b.cfg.TurnDurationSeconds,
	}, status)
}

func (b *Battle) turnStatus() *Status {
	name := b.state.Players[b.state.ActivePlayer].Name
	switch {
	case b.state.Phase == domain.PhaseSuddenDeath:
		return &Status{Text: "SUDDEN DEATH! Fastest correct answer wins!", Type: StatusSpecial}
	case b.state.Phase == domain.PhaseLastChance && b.state.LastChancePlayer == b.state.ActivePlayer:
		return &Status{Text: fmt.Sprintf("Survive, %s! This is your last chance!", name), Type: StatusWarning}
	}
	return &Status{Text: fmt.Sprintf("Your turn, %s!", name), Type: StatusInfo}
}

func (b *Battle) onClockTick(remaining int) {
	b.emit(EventClockTicked, ClockTickedPayload{Remaining: remaining}, nil)
}

// onClockExpired synthesizes the "no answer" event. The stage guard keeps it to
// one resolution per turn.
func (b *Battle) onClockExpired() {
	if b.stage != StageAwaitingAnswer {
		return
	}
	b.answer(nil)
}

func (b *Battle) answer(selected *domain.Value) {
	b.clock.Stop()
	q := b.state.CurrentQuestion()
	b.answerCorrect = q.IsCorrect(selected)
	b.answerSeconds = b.clock.Elapsed()
	b.stage = StageAnswerRevealed

	if b.answerCorrect {
		b.sounds.Play(domain.SoundCorrect)
	} else {
		b.sounds.Play(domain.SoundWrong)
	}
	b.emit(EventAnswerRevealed, AnswerRevealedPayload{
		Player:   b.state.ActivePlayer,
		Selected: selected,
		Correct:  b.answerCorrect,
		TimedOut: selected == nil,
		Seconds:  b.answerSeconds,
	}, nil)

	b.after(b.cfg.RevealDelay(), func() {
		if b.answerCorrect {
			b.resolve()
			return
		}
		b.stage = StageShowingCorrectAnswer
		b.emit(EventCorrectAnswerShown, CorrectAnswerShownPayload{
			Selected:      selected,
			CorrectAnswer: q.CorrectAnswer,
		}, nil)
		b.after(b.cfg.CorrectAnswerDelay(), b.resolve)
	})
}

func (b *Battle) resolve() {
	res, err := domain.ResolveAnswer(b.state, b.answerCorrect, b.answerSeconds)
	if err != nil {
		// Ended matches never await answers; nothing left to resolve.
		return
	}

	switch {
	case res.Defender >= 0:
		b.sounds.Play(domain.SoundAttack)
	case res.Revived:
		b.sounds.Play(domain.SoundShield)
	}
	b.emit(EventTurnResolved, TurnResolvedPayload{Resolution: res}, b.resolutionStatus(res))

	switch {
	case res.MatchOver:
		b.stage = StageMatchEnding
		delay := b.cfg.AdvanceDelay()
		if b.state.EndReason == domain.EndReasonLastChanceFailed {
			delay = b.cfg.LastChanceEndDelay()
		}
		b.after(delay, b.finish)
	case res.EnteredSudden:
		b.stage = StageSuddenDeathIntro
		b.emit(EventSuddenDeathIntro, nil, &Status{Text: "The tension is palpable! It all comes down to this...", Type: StatusSpecial})
	default:
		b.stage = StageAdvancingTurn
		b.after(b.cfg.AdvanceDelay(), func() {
			domain.AdvanceTurn(b.state)
			b.startTurn(nil)
		})
	}
}

func (b *Battle) resolutionStatus(res domain.Resolution) *Status {
	name := b.state.Players[res.Player].Name
	switch {
	case res.Phase == domain.PhaseSuddenDeath && res.Correct:
		return &Status{Text: fmt.Sprintf("%s answered correctly in %ds!", name, res.Seconds), Type: StatusSuccess}
	case !res.Correct:
		return &Status{Text: "A swing and a miss!", Type: StatusError}
	case res.Revived:
		return &Status{Text: fmt.Sprintf("%s is back in the game!", name), Type: StatusSpecial}
	case res.EnteredLastChance:
		defender := b.state.Players[res.Defender].Name
		return &Status{Text: fmt.Sprintf("%s's life is on the line!", defender), Type: StatusWarning}
	}
	return &Status{Text: "A direct hit!", Type: StatusSuccess}
}

func (b *Battle) finish() {
	b.cancelAll()
	outcome := domain.ResolveOutcome(b.state)
	b.result = &outcome
	b.stage = StageAnnouncingWinner
	b.sounds.Play(domain.SoundGameOver)

	if outcome.Reason != domain.EndReasonSuddenDeath {
		b.announceWinner()
		return
	}

	status := &Status{Text: "Neither player could land a final blow!", Type: StatusInfo}
	if outcome.BonusPlayer >= 0 {
		name := outcome.Players[outcome.BonusPlayer].Name
		status = &Status{Text: fmt.Sprintf("%s was faster! +%d points!", name, outcome.Bonus), Type: StatusSpecial}
	}
	b.emit(EventOutcomeResolved, OutcomeResolvedPayload{Outcome: outcome}, status)
	b.after(b.cfg.AnnounceDelay(), b.announceWinner)
}

func (b *Battle) announceWinner() {
	outcome := *b.result
	status := &Status{Text: "It's a draw!", Type: StatusSpecial}
	if !outcome.IsDraw() {
		status = &Status{Text: fmt.Sprintf("%s is the victor!", outcome.Players[outcome.Winner].Name), Type: StatusSpecial}
	}
	b.emit(EventWinnerAnnounced, OutcomeResolvedPayload{Outcome: outcome}, status)
	b.after(b.cfg.AnnounceDelay(), b.startSummary)
}

func (b *Battle) startSummary() {
	b.stage = StageSummary
	b.summaryLeft = b.cfg.SummarySeconds
	if b.summaryLeft <= 0 {
		b.handOff()
		return
	}
	b.emit(EventSummaryTicked, SummaryTickedPayload{Remaining: b.summaryLeft, Total: b.cfg.SummarySeconds}, nil)
	b.after(time.Second, b.summaryTick)
}

func (b *Battle) summaryTick() {
	b.summaryLeft--
	b.emit(EventSummaryTicked, SummaryTickedPayload{Remaining: b.summaryLeft, Total: b.cfg.SummarySeconds}, nil)
	if b.summaryLeft <= 0 {
		b.handOff()
		return
	}
	b.after(time.Second, b.summaryTick)
}

// handOff delivers the result exactly once and cancels everything still pending.
func (b *Battle) handOff() {
	if b.handedOff {
		return
	}
	b.handedOff = true
	b.cancelAll()
	b.stage = StageFinished

	result := b.result.Result()
	b.emit(EventGameOver, GameOverPayload{Result: result}, nil)
	if b.outcome != nil {
		b.outcome.GameOver(result)
	}
}

func (b *Battle) after(d time.Duration, f func()) {
	b.pending = b.sched.AfterFunc(d, func() {
		b.pending = nil
		f()
	})
}

func (b *Battle) cancelAll() {
	b.clock.Stop()
	if b.pending != nil {
		b.pending.Stop()
		b.pending = nil
	}
}

func (b *Battle) emit(kind EventKind, payload any, status *Status) {
	if b.publish == nil {
		return
	}
	b.publish(Event{
		Kind:     kind,
		Stage:    b.stage,
		Payload:  payload,
		Status:   status,
		Snapshot: b.state.Snapshot(),
	})
}
