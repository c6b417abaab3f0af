// Command battle runs one Integer Invasion battle in the terminal, optionally
// streaming it to browsers over a websocket.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"invasion/internal/app"
	"invasion/internal/bot"
	"invasion/internal/config"
	"invasion/internal/domain"
	"invasion/internal/leaderboard"
	"invasion/internal/logging"
	"invasion/internal/ports"
	"invasion/internal/ports/ws"
	"invasion/internal/questions"
	"invasion/internal/schedule"
	"invasion/internal/session"

	"github.com/gorilla/mux"
	"github.com/heroiclabs/nakama-common/runtime"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		difficulty = flag.String("difficulty", string(domain.DifficultyIntegers), "question bank: integers, rational or complex")
		name       = flag.String("name", "", "play seat 1 yourself under this name; empty watches two bots")
		serveWS    = flag.Bool("ws", false, "stream the battle on INVASION_HTTP_ADDR/ws")
		offline    = flag.Bool("offline", false, "record results to the local leaderboard store instead of the server")
	)
	flag.Parse()

	d := domain.Difficulty(*difficulty)
	if !d.Valid() {
		return fmt.Errorf("unknown difficulty %q", *difficulty)
	}

	cfg, err := config.ParseEnv()
	if err != nil {
		return err
	}
	zl, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()
	logger := logging.Runtime(zl)

	if cfg.GameConfigPath != "" {
		if err := config.LoadGameConfig(cfg.GameConfigPath); err != nil {
			logger.Warn("run: Could not load game config: %v", err)
		}
	}
	gameCfg := config.GetGameConfig()
	roster, err := bot.LoadRoster(cfg.BotNamesPath)
	if err != nil {
		logger.Warn("run: Using default bot identities: %v", err)
		roster = bot.DefaultRoster()
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var source ports.QuestionSource = questions.NewFileSource(cfg.QuestionsDir, rng)
	if cfg.QuestionsURL != "" {
		source = questions.NewHTTPSource(cfg.QuestionsURL, &http.Client{Timeout: 10 * time.Second}, rng)
	}

	var board ports.LeaderboardPort = leaderboard.NewClient(cfg.LeaderboardURL, &http.Client{Timeout: 5 * time.Second})
	if *offline {
		store, err := leaderboard.NewFileStore(cfg.LeaderboardDir)
		if err != nil {
			return err
		}
		board = store
	}

	tuning := bot.DefaultTuning.WithThink(
		time.Duration(gameCfg.BotMinDelaySeconds)*time.Second,
		time.Duration(gameCfg.BotMaxDelaySeconds)*time.Second,
	)
	opponents := roster.Pick(rng, 2)
	var seats [2]session.Seat
	for i := range seats {
		if i == 0 && *name != "" {
			seats[i] = session.Seat{Player: domain.Player{ID: "local", Name: *name}}
			continue
		}
		// Brains run on the loop goroutine, so each gets its own source.
		agent, err := bot.Opponent(opponents[i], i, rand.New(rand.NewSource(rng.Int63())), tuning)
		if err != nil {
			return err
		}
		seats[i] = session.Seat{Player: agent.Player(), Agent: agent}
	}

	// The loop outlives ctx so an interrupted battle can still abort cleanly.
	loop := schedule.NewLoop(64)
	go loop.Run(context.Background())
	defer loop.Stop()

	term := newTerminal(os.Stdout)
	ctrl := &deferredController{}
	presenters := []func(app.Event){term.Present}
	sounds := multiSound{term}

	var hub *ws.Hub
	if *serveWS {
		hub = ws.NewHub(ctrl, logger)
		defer hub.Close()
		presenters = append(presenters, hub.Publish)
		sounds = append(sounds, hub)
	}

	s, err := session.New(ctx, session.Deps{
		Runtime:     loop,
		Questions:   source,
		Leaderboard: board,
		Sounds:      sounds,
		Logger:      logger,
		Config:      gameCfg,
		Rand:        rng,
		Presenters:  presenters,
	}, d, seats)
	if err != nil {
		return err
	}
	ctrl.s.Store(s)

	if hub != nil {
		srv := serveHub(cfg.HTTPAddr, hub, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}
	if *name != "" {
		go term.ReadInput(os.Stdin, ctrl, 0)
	}

	s.Start()
	result, err := s.Wait(ctx)
	if errors.Is(err, context.Canceled) {
		s.Abort()
		<-s.Done()
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("run: Battle %s finished, winner %q with %d", s.ID(), result.WinnerName, result.FinalScore)
	return nil
}

func serveHub(addr string, hub *ws.Hub, logger runtime.Logger) *http.Server {
	r := mux.NewRouter()
	r.Handle("/ws", hub)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("serveHub: Streaming battle on %s/ws", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serveHub: %v", err)
		}
	}()
	return srv
}

// deferredController forwards websocket and terminal input once the session exists.
type deferredController struct {
	s atomic.Pointer[session.Session]
}

func (c *deferredController) Answer(player int, answer *domain.Value) {
	if s := c.s.Load(); s != nil {
		s.Answer(player, answer)
	}
}

func (c *deferredController) DismissIntro() {
	if s := c.s.Load(); s != nil {
		s.DismissIntro()
	}
}

func (c *deferredController) Proceed() {
	if s := c.s.Load(); s != nil {
		s.Proceed()
	}
}

type multiSound []ports.SoundPlayer

func (m multiSound) Play(sound domain.Sound) {
	for _, p := range m {
		p.Play(sound)
	}
}
