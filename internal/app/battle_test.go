package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"invasion/internal/config"
	"invasion/internal/domain"
	"invasion/internal/ports"
	"invasion/internal/schedule"
)

type recordedSounds struct {
	played []domain.Sound
}

func (r *recordedSounds) Play(s domain.Sound) { r.played = append(r.played, s) }

func (r *recordedSounds) count(s domain.Sound) int {
	n := 0
	for _, p := range r.played {
		if p == s {
			n++
		}
	}
	return n
}

type harness struct {
	t       *testing.T
	sched   *schedule.Manual
	battle  *Battle
	events  []Event
	sounds  *recordedSounds
	results []domain.GameResult
}

func battleQuestions(n int) []domain.Question {
	qs := make([]domain.Question, n)
	for i := range qs {
		qs[i] = domain.Question{
			ID:            fmt.Sprintf("integers-%d", i),
			Prompt:        fmt.Sprintf("%d + 1", i),
			Options:       []domain.Value{domain.Number(float64(i + 1)), domain.Number(-1)},
			CorrectAnswer: domain.Number(float64(i + 1)),
			Difficulty:    domain.DifficultyIntegers,
			Level:         domain.LevelEasy,
		}
	}
	return qs
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, sched: schedule.NewManual(), sounds: &recordedSounds{}}
	b, err := NewBattle(
		[2]domain.Player{{ID: "a", Name: "Ada"}, {ID: "b", Name: "Bo"}},
		battleQuestions(domain.MinQuestions),
		Options{
			MatchID:   "match-1",
			Config:    config.DefaultGameConfig(),
			Scheduler: h.sched,
			Sounds:    h.sounds,
			Outcome:   ports.OutcomeFunc(func(r domain.GameResult) { h.results = append(h.results, r) }),
			Publish:   func(e Event) { h.events = append(h.events, e) },
		},
	)
	if err != nil {
		t.Fatalf("NewBattle error: %v", err)
	}
	h.battle = b
	if err := b.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	return h
}

// play waits the given seconds, answers for the active player and settles.
func (h *harness) play(correct bool, seconds int) {
	h.t.Helper()
	if got := h.battle.Stage(); got != StageAwaitingAnswer {
		h.t.Fatalf("stage = %s, want %s", got, StageAwaitingAnswer)
	}
	h.sched.Advance(time.Duration(seconds) * time.Second)

	snap := h.battle.Snapshot()
	answer := domain.Number(-1)
	if correct {
		answer = snap.Question.CorrectAnswer
	}
	if !h.battle.SubmitAnswer(snap.ActivePlayer, &answer) {
		h.t.Fatalf("answer by player %d rejected", snap.ActivePlayer)
	}
	h.settle()
}

// settle advances in small steps until the battle waits on input or the summary.
func (h *harness) settle() {
	h.t.Helper()
	for i := 0; i < 1000; i++ {
		switch h.battle.Stage() {
		case StageAwaitingAnswer, StageSuddenDeathIntro, StageSummary, StageFinished:
			return
		}
		h.sched.Advance(100 * time.Millisecond)
	}
	h.t.Fatalf("battle never settled, stuck in %s", h.battle.Stage())
}

func (h *harness) count(kind EventKind) int {
	n := 0
	for _, e := range h.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (h *harness) last(kind EventKind) (Event, bool) {
	for i := len(h.events) - 1; i >= 0; i-- {
		if h.events[i].Kind == kind {
			return h.events[i], true
		}
	}
	return Event{}, false
}

func TestBattleCorrectAnswerAttacks(t *testing.T) {
	h := newHarness(t)
	h.play(true, 5)

	snap := h.battle.Snapshot()
	if snap.Players[0].Score != 20 {
		t.Fatalf("score = %d, want 20", snap.Players[0].Score)
	}
	if snap.Players[1].Lives != 2 {
		t.Fatalf("defender lives = %d, want 2", snap.Players[1].Lives)
	}
	if snap.ActivePlayer != 1 || snap.QuestionIndex != 1 {
		t.Fatalf("turn not advanced: active %d index %d", snap.ActivePlayer, snap.QuestionIndex)
	}
	if h.sounds.count(domain.SoundCorrect) != 1 || h.sounds.count(domain.SoundAttack) != 1 {
		t.Fatalf("sounds = %v", h.sounds.played)
	}
	if h.count(EventCorrectAnswerShown) != 0 {
		t.Fatalf("correct answer shown after a hit")
	}
}

func TestBattleMissShowsCorrectAnswer(t *testing.T) {
	h := newHarness(t)
	wrong := domain.Number(-1)
	if !h.battle.SubmitAnswer(0, &wrong) {
		t.Fatalf("answer rejected")
	}
	if h.battle.Stage() != StageAnswerRevealed {
		t.Fatalf("stage = %s, want %s", h.battle.Stage(), StageAnswerRevealed)
	}

	h.sched.Advance(1200 * time.Millisecond)
	if h.battle.Stage() != StageShowingCorrectAnswer {
		t.Fatalf("stage = %s, want %s", h.battle.Stage(), StageShowingCorrectAnswer)
	}
	e, ok := h.last(EventCorrectAnswerShown)
	if !ok {
		t.Fatalf("no correct answer event")
	}
	if p := e.Payload.(CorrectAnswerShownPayload); !p.CorrectAnswer.Equal(domain.Number(1)) {
		t.Fatalf("correct answer = %v", p.CorrectAnswer)
	}
	if h.count(EventTurnResolved) != 0 {
		t.Fatalf("resolved before the correct answer was shown")
	}

	h.sched.Advance(3000 * time.Millisecond)
	if h.count(EventTurnResolved) != 1 {
		t.Fatalf("turn not resolved after delay")
	}
	h.settle()
	snap := h.battle.Snapshot()
	if snap.Players[0].Score != 0 || snap.Players[1].Lives != domain.StartingLives {
		t.Fatalf("miss changed the board: %+v", snap.Players)
	}
	if snap.ActivePlayer != 1 {
		t.Fatalf("active = %d, want 1", snap.ActivePlayer)
	}
}

func TestBattleRejectsOutOfTurnAnswers(t *testing.T) {
	h := newHarness(t)
	v := domain.Number(1)

	if h.battle.SubmitAnswer(1, &v) {
		t.Fatalf("inactive player answer accepted")
	}
	if !h.battle.SubmitAnswer(0, &v) {
		t.Fatalf("active player answer rejected")
	}
	if h.battle.SubmitAnswer(0, &v) {
		t.Fatalf("duplicate answer accepted")
	}
	h.settle()
	if got := h.count(EventAnswerRevealed); got != 1 {
		t.Fatalf("answers revealed = %d, want 1", got)
	}
}

func TestBattleTimeoutIsAMiss(t *testing.T) {
	h := newHarness(t)
	h.sched.Advance(29 * time.Second)
	if h.battle.TimeLeft() != 1 {
		t.Fatalf("time left = %d, want 1", h.battle.TimeLeft())
	}
	h.sched.Advance(time.Second)

	e, ok := h.last(EventAnswerRevealed)
	if !ok {
		t.Fatalf("timeout produced no answer")
	}
	if p := e.Payload.(AnswerRevealedPayload); !p.TimedOut || p.Correct || p.Seconds != 30 {
		t.Fatalf("timeout payload = %+v", p)
	}

	v := domain.Number(1)
	if h.battle.SubmitAnswer(0, &v) {
		t.Fatalf("answer after timeout accepted")
	}
	h.settle()
	if got := h.count(EventTurnResolved); got != 1 {
		t.Fatalf("resolutions = %d, want 1", got)
	}
	if h.battle.Snapshot().Players[0].QuestionsAnswered != 1 {
		t.Fatalf("timeout not counted as answered")
	}
}

func TestBattleClockTicksEverySecond(t *testing.T) {
	h := newHarness(t)
	h.sched.Advance(3 * time.Second)
	if got := h.count(EventClockTicked); got != 3 {
		t.Fatalf("ticks = %d, want 3", got)
	}
	e, _ := h.last(EventClockTicked)
	if p := e.Payload.(ClockTickedPayload); p.Remaining != 27 {
		t.Fatalf("remaining = %d, want 27", p.Remaining)
	}
}

// driveToLastChance lands three hits on Bo while Bo misses every answer.
func driveToLastChance(h *harness) {
	h.play(true, 0)
	h.play(false, 0)
	h.play(true, 0)
	h.play(false, 0)
	h.play(true, 0)
}

func TestBattleLastChanceFailedEndsMatch(t *testing.T) {
	h := newHarness(t)
	driveToLastChance(h)

	snap := h.battle.Snapshot()
	if snap.Phase != domain.PhaseLastChance || snap.LastChancePlayer != 1 || snap.ActivePlayer != 1 {
		t.Fatalf("not in Bo's last chance: %+v", snap)
	}
	if e, _ := h.last(EventTurnStarted); e.Status == nil || e.Status.Type != StatusWarning {
		t.Fatalf("last chance turn status = %+v", e.Status)
	}

	h.play(false, 0)
	if h.battle.Stage() != StageSummary {
		t.Fatalf("stage = %s, want %s", h.battle.Stage(), StageSummary)
	}
	out := h.battle.Outcome()
	if out == nil || out.Winner != 0 || out.Reason != domain.EndReasonLastChanceFailed {
		t.Fatalf("outcome = %+v", out)
	}
	if h.sounds.count(domain.SoundGameOver) != 1 {
		t.Fatalf("game over sound not played once: %v", h.sounds.played)
	}
	if e, ok := h.last(EventWinnerAnnounced); !ok || e.Status.Text != "Ada is the victor!" {
		t.Fatalf("winner announcement = %+v", e.Status)
	}
}

func TestBattleLastChanceRevival(t *testing.T) {
	h := newHarness(t)
	driveToLastChance(h)
	if got := h.battle.TimeLeft(); got != domain.TurnSeconds {
		t.Fatalf("last chance clock = %d, want %d", got, domain.TurnSeconds)
	}
	h.play(true, 3)

	snap := h.battle.Snapshot()
	if snap.Phase != domain.PhaseRegular || snap.LastChancePlayer != -1 {
		t.Fatalf("revival did not return to regular: %+v", snap)
	}
	if snap.Players[1].Lives != 1 || snap.Players[1].Score != 22 {
		t.Fatalf("revived stats = %+v", snap.Players[1])
	}
	if snap.ActivePlayer != 0 {
		t.Fatalf("active = %d, want 0", snap.ActivePlayer)
	}
	if h.sounds.count(domain.SoundShield) != 1 {
		t.Fatalf("shield sound missing: %v", h.sounds.played)
	}
}

// driveToSuddenDeath plays ten missed turns each.
func driveToSuddenDeath(h *harness) {
	for i := 0; i < 2*domain.RegularTurnsPerPlayer; i++ {
		h.play(false, 0)
	}
}

func TestBattleSuddenDeathFasterWins(t *testing.T) {
	h := newHarness(t)
	driveToSuddenDeath(h)

	if h.battle.Stage() != StageSuddenDeathIntro {
		t.Fatalf("stage = %s, want %s", h.battle.Stage(), StageSuddenDeathIntro)
	}
	v := domain.Number(1)
	if h.battle.SubmitAnswer(0, &v) {
		t.Fatalf("answer accepted during intro")
	}
	// The intro waits for the player; time alone never dismisses it.
	h.sched.Advance(time.Minute)
	if h.battle.Stage() != StageSuddenDeathIntro {
		t.Fatalf("intro dismissed without input")
	}

	if !h.battle.DismissIntro() {
		t.Fatalf("DismissIntro rejected")
	}
	if h.battle.DismissIntro() {
		t.Fatalf("DismissIntro accepted twice")
	}
	snap := h.battle.Snapshot()
	if snap.Phase != domain.PhaseSuddenDeath || snap.ActivePlayer != 0 || snap.QuestionIndex != 20 {
		t.Fatalf("sudden death not started: %+v", snap)
	}
	if got := h.battle.TimeLeft(); got != domain.TurnSeconds {
		t.Fatalf("sudden death clock = %d, want %d", got, domain.TurnSeconds)
	}

	h.play(true, 4)
	if got := h.battle.TimeLeft(); got != domain.TurnSeconds {
		t.Fatalf("second sudden death clock = %d, want %d", got, domain.TurnSeconds)
	}
	h.play(true, 2)

	out := h.battle.Outcome()
	if out == nil || out.Winner != 1 || out.BonusPlayer != 1 || out.Bonus != domain.SuddenDeathBonus {
		t.Fatalf("outcome = %+v", out)
	}
	if out.Players[1].Score != domain.SuddenDeathBonus {
		t.Fatalf("bonus not applied: %+v", out.Players[1])
	}
	if e, ok := h.last(EventOutcomeResolved); !ok || e.Status.Text != "Bo was faster! +50 points!" {
		t.Fatalf("bonus status = %+v", e.Status)
	}
}

func TestBattleSuddenDeathDraw(t *testing.T) {
	h := newHarness(t)
	driveToSuddenDeath(h)
	h.battle.DismissIntro()
	h.play(false, 0)
	h.play(false, 0)

	out := h.battle.Outcome()
	if out == nil || !out.IsDraw() {
		t.Fatalf("outcome = %+v, want draw", out)
	}
	h.battle.Proceed()
	if len(h.results) != 1 || h.results[0].WinnerName != "" {
		t.Fatalf("results = %+v", h.results)
	}
}

func TestBattleSummaryHandsOffOnce(t *testing.T) {
	tests := []struct {
		name    string
		proceed bool
	}{
		{name: "Countdown", proceed: false},
		{name: "Proceed", proceed: true},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			h := newHarness(t)
			driveToLastChance(h)
			h.play(false, 0)

			if test.proceed {
				h.sched.Advance(3 * time.Second)
				if !h.battle.Proceed() {
					t.Fatalf("Proceed rejected")
				}
				if h.battle.Proceed() {
					t.Fatalf("Proceed accepted twice")
				}
			}
			h.sched.Advance(time.Minute)

			if len(h.results) != 1 {
				t.Fatalf("handoffs = %d, want 1", len(h.results))
			}
			if h.results[0].WinnerName != "Ada" || h.results[0].Stats == nil {
				t.Fatalf("result = %+v", h.results[0])
			}
			if h.count(EventGameOver) != 1 {
				t.Fatalf("game over events = %d", h.count(EventGameOver))
			}
			if h.sched.Pending() != 0 {
				t.Fatalf("timers left after handoff: %d", h.sched.Pending())
			}
			if h.battle.Stage() != StageFinished {
				t.Fatalf("stage = %s", h.battle.Stage())
			}
		})
	}
}

func TestBattleSummaryCountsDown(t *testing.T) {
	h := newHarness(t)
	driveToLastChance(h)
	h.play(false, 0)
	h.sched.Advance(time.Minute)

	// One tick at full length plus one per second down to zero.
	if got := h.count(EventSummaryTicked); got != 16 {
		t.Fatalf("summary ticks = %d, want 16", got)
	}
}

func TestBattleAbortCancelsTimers(t *testing.T) {
	h := newHarness(t)
	v := domain.Number(1)
	h.battle.SubmitAnswer(0, &v)

	h.battle.Abort()
	if h.sched.Pending() != 0 {
		t.Fatalf("pending timers after abort: %d", h.sched.Pending())
	}
	h.sched.Advance(time.Hour)
	if h.count(EventTurnResolved) != 0 || len(h.results) != 0 {
		t.Fatalf("aborted battle kept running")
	}
	if h.count(EventAborted) != 1 {
		t.Fatalf("abort not published")
	}
}

func TestBattleStartTwice(t *testing.T) {
	h := newHarness(t)
	if err := h.battle.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("second Start error = %v", err)
	}
}

func TestBattleEventsCarrySnapshots(t *testing.T) {
	h := newHarness(t)
	h.play(true, 0)

	e, _ := h.last(EventTurnResolved)
	if e.Snapshot.Players[1].Lives != 2 {
		t.Fatalf("snapshot lives = %d, want 2", e.Snapshot.Players[1].Lives)
	}
	e.Snapshot.Players[1].Lives = 99
	if h.battle.Snapshot().Players[1].Lives != 2 {
		t.Fatalf("snapshot aliases match state")
	}
}

type fakeSource struct {
	questions []domain.Question
	err       error
}

func (f fakeSource) Questions(context.Context, domain.Difficulty) ([]domain.Question, error) {
	return f.questions, f.err
}

func TestPrepareBattle(t *testing.T) {
	players := [2]domain.Player{{Name: "Ada"}, {Name: "Bo"}}
	opts := Options{Scheduler: schedule.NewManual()}
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name    string
		source  fakeSource
		wantErr bool
	}{
		{name: "Full", source: fakeSource{questions: battleQuestions(30)}},
		{name: "Short", source: fakeSource{questions: battleQuestions(domain.MinQuestions - 1)}, wantErr: true},
		{name: "FetchFailed", source: fakeSource{err: errors.New("boom")}, wantErr: true},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			b, err := PrepareBattle(context.Background(), test.source, domain.DifficultyIntegers, rng, players, opts)
			if test.wantErr {
				if !errors.Is(err, domain.ErrNotEnoughQuestions) {
					t.Fatalf("error = %v, want ErrNotEnoughQuestions", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("PrepareBattle error: %v", err)
			}
			if b.Stage() != StageReady || b.ID() == "" {
				t.Fatalf("battle not ready: stage %s id %q", b.Stage(), b.ID())
			}
		})
	}
}
