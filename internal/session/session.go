// Package session hosts one battle on a single-threaded runtime and connects it
// to players, computer opponents, presenters and the leaderboard.
package session

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"invasion/internal/app"
	"invasion/internal/bot"
	"invasion/internal/config"
	"invasion/internal/domain"
	"invasion/internal/leaderboard"
	"invasion/internal/logging"
	"invasion/internal/ports"
	"invasion/internal/schedule"

	"github.com/heroiclabs/nakama-common/runtime"
	"go.uber.org/zap"
)

const recordTimeout = 5 * time.Second

var ErrAborted = errors.New("battle aborted")

// Runtime is the thread a battle lives on. *schedule.Loop implements it.
type Runtime interface {
	schedule.Scheduler
	// Do queues f onto the runtime's thread. It returns false once stopped.
	Do(f func()) bool
}

// Seat is one side of the battle. A nil Agent means a human sits there.
type Seat struct {
	Player domain.Player
	Agent  *bot.Agent
}

// Deps are the collaborators of a session. Leaderboard, Sounds and Logger are
// optional; a nil Logger discards everything.
type Deps struct {
	Runtime     Runtime
	Questions   ports.QuestionSource
	Leaderboard ports.LeaderboardPort
	Sounds      ports.SoundPlayer
	Logger      runtime.Logger
	Config      config.GameConfig
	Rand        *rand.Rand
	Presenters  []func(app.Event)
}

// Session runs a single battle to its handoff.
type Session struct {
	rt          Runtime
	battle      *app.Battle
	seats       [2]Seat
	difficulty  domain.Difficulty
	cfg         config.GameConfig
	leaderboard ports.LeaderboardPort
	logger      runtime.Logger
	presenters  []func(app.Event)

	// botTimer is the pending answer of a computer opponent. Loop thread only.
	botTimer schedule.Timer

	doneOnce sync.Once
	done     chan struct{}
	result   domain.GameResult
	aborted  bool
}

// New loads the question pool and prepares the battle. It does not start it.
func New(ctx context.Context, deps Deps, difficulty domain.Difficulty, seats [2]Seat) (*Session, error) {
	if deps.Config.TurnDurationSeconds <= 0 {
		deps.Config = config.GetGameConfig()
	}
	if deps.Logger == nil {
		deps.Logger = logging.Runtime(zap.NewNop())
	}
	s := &Session{
		rt:          deps.Runtime,
		seats:       seats,
		difficulty:  difficulty,
		cfg:         deps.Config,
		leaderboard: deps.Leaderboard,
		presenters:  deps.Presenters,
		done:        make(chan struct{}),
	}

	players := [2]domain.Player{seats[0].Player, seats[1].Player}
	b, err := app.PrepareBattle(ctx, deps.Questions, difficulty, deps.Rand, players, app.Options{
		Config:    deps.Config,
		Scheduler: deps.Runtime,
		Sounds:    deps.Sounds,
		Outcome:   ports.OutcomeFunc(s.gameOver),
		Publish:   s.publish,
	})
	if err != nil {
		deps.Logger.Error("New: could not prepare %s battle: %v", difficulty, err)
		return nil, err
	}
	s.battle = b
	s.logger = deps.Logger.WithFields(map[string]interface{}{
		"match_id":   b.ID(),
		"difficulty": string(difficulty),
	})
	return s, nil
}

// ID returns the match id.
func (s *Session) ID() string { return s.battle.ID() }

// Start opens the first turn on the runtime thread.
func (s *Session) Start() {
	s.rt.Do(func() {
		if err := s.battle.Start(); err != nil {
			s.logger.Warn("Start: %v", err)
			return
		}
		s.logger.Info("Start: %s vs %s", s.seats[0].Player.Name, s.seats[1].Player.Name)
	})
}

// Answer submits a human player's answer. Answers for computer seats are ignored.
func (s *Session) Answer(player int, answer *domain.Value) {
	if player < 0 || player >= len(s.seats) || s.seats[player].Agent != nil {
		s.logger.Debug("Answer: rejecting input for seat %d", player)
		return
	}
	s.rt.Do(func() {
		if !s.battle.SubmitAnswer(player, answer) {
			s.logger.Debug("Answer: seat %d answered out of turn", player)
		}
	})
}

// DismissIntro starts sudden death after the intro.
func (s *Session) DismissIntro() {
	s.rt.Do(func() { s.battle.DismissIntro() })
}

// Proceed skips the summary countdown.
func (s *Session) Proceed() {
	s.rt.Do(func() { s.battle.Proceed() })
}

// Abort stops the battle without recording a result.
func (s *Session) Abort() {
	s.rt.Do(func() {
		if s.battle.Stage() == app.StageFinished {
			// Already handed off, or aborted before.
			return
		}
		s.stopBot()
		s.battle.Abort()
		s.aborted = true
		s.logger.Info("Abort: battle aborted at stage %s", s.battle.Stage())
		s.finish()
	})
}

// Done is closed after the result was handed off and recorded, or after Abort.
func (s *Session) Done() <-chan struct{} { return s.done }

// Wait blocks until the session is done or ctx ends.
func (s *Session) Wait(ctx context.Context) (domain.GameResult, error) {
	select {
	case <-s.done:
		if s.aborted {
			return domain.GameResult{}, ErrAborted
		}
		return s.result, nil
	case <-ctx.Done():
		return domain.GameResult{}, ctx.Err()
	}
}

func (s *Session) publish(e app.Event) {
	for _, p := range s.presenters {
		p(e)
	}

	switch e.Kind {
	case app.EventTurnStarted:
		s.stopBot()
		s.scheduleBot(e.Snapshot)
	case app.EventSuddenDeathIntro:
		if !s.hasHuman() {
			s.botTimer = s.rt.AfterFunc(s.cfg.AnnounceDelay(), func() {
				s.botTimer = nil
				s.battle.DismissIntro()
			})
		}
	case app.EventTurnResolved:
		p := e.Payload.(app.TurnResolvedPayload)
		s.logger.Debug("publish: seat %d correct=%v in %ds phase=%s", p.Resolution.Player, p.Resolution.Correct, p.Resolution.Seconds, p.Resolution.Phase)
	case app.EventOutcomeResolved, app.EventWinnerAnnounced:
		s.stopBot()
	}
}

func (s *Session) scheduleBot(snap domain.Snapshot) {
	seat := snap.ActivePlayer
	agent := s.seats[seat].Agent
	if agent == nil {
		return
	}
	move, ok, err := agent.Play(snap)
	if err != nil {
		s.logger.Warn("scheduleBot: %s could not choose an answer: %v", agent.Name, err)
		return
	}
	if !ok || move.Answer == nil {
		return
	}
	answer := *move.Answer
	s.botTimer = s.rt.AfterFunc(move.Think, func() {
		s.botTimer = nil
		s.battle.SubmitAnswer(seat, &answer)
	})
}

func (s *Session) stopBot() {
	if s.botTimer != nil {
		s.botTimer.Stop()
		s.botTimer = nil
	}
}

func (s *Session) hasHuman() bool {
	for _, seat := range s.seats {
		if seat.Agent == nil {
			return true
		}
	}
	return false
}

// gameOver runs on the runtime thread. Recording happens off-thread so a slow
// leaderboard never stalls the loop.
func (s *Session) gameOver(result domain.GameResult) {
	s.stopBot()
	s.result = result
	if result.WinnerName == "" {
		s.logger.Info("gameOver: draw at %d points", result.FinalScore)
	} else {
		s.logger.Info("gameOver: %s wins with %d points", result.WinnerName, result.FinalScore)
	}
	if s.leaderboard == nil {
		s.finish()
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := leaderboard.RecordWinner(ctx, s.leaderboard, result, s.difficulty); err != nil {
			s.logger.Error("gameOver: failed to record result: %v", err)
		}
		s.finish()
	}()
}

func (s *Session) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}
