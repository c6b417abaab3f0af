package nakama

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	"invasion/internal/config"
	"invasion/internal/domain"
	"invasion/internal/leaderboard"
	"invasion/internal/ports"
	"invasion/internal/questions"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Nakama error codes (gRPC status codes) used by the RPCs.
const (
	codeInvalidArgument    = 3
	codeInternal           = 13
	codeFailedPrecondition = 9
)

var (
	errBadPayload  = runtime.NewError("invalid payload", codeInvalidArgument)
	errBadCategory = runtime.NewError("invalid leaderboard category", codeInvalidArgument)
	errStorage     = runtime.NewError("leaderboard storage unavailable", codeInternal)
	errNoQuestions = runtime.NewError("not enough questions for a battle", codeFailedPrecondition)
)

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcLeaderboardGet, rpcLeaderboardGet); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcLeaderboardSubmit, rpcLeaderboardSubmit); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcBattleQuestions, rpcBattleQuestions)
}

func rpcLeaderboardGet(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return leaderboardGet(ctx, logger, NewNakamaLeaderboardAdapter(nk), payload)
}

func rpcLeaderboardSubmit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return leaderboardSubmit(ctx, logger, NewNakamaLeaderboardAdapter(nk), payload, time.Now)
}

func rpcBattleQuestions(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	dir := defaultQuestionsDir
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if v := env[EnvQuestionsDir]; v != "" {
			dir = v
		}
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return battleQuestions(ctx, logger, questions.NewFileSource(dir, rng), rng, payload)
}

// leaderboardGet payload: {"category": "battle"}.
func leaderboardGet(ctx context.Context, logger runtime.Logger, store ports.LeaderboardPort, payload string) (string, error) {
	req, err := parsePayload(payload)
	if err != nil {
		return "", errBadPayload
	}
	category := stringField(req, "category")
	if category == "" {
		category = leaderboard.BattleCategory
	}

	entries, err := store.Entries(ctx, category)
	if errors.Is(err, leaderboard.ErrInvalidCategory) {
		return "", errBadCategory
	}
	if err != nil {
		logger.Error("leaderboardGet: Failed to read %s: %v", category, err)
		return "", errStorage
	}
	return entriesToJSON(entries)
}

// leaderboardSubmit payload: {"category": "battle", "entry": {"playerName": ..., "score": ...}}.
func leaderboardSubmit(ctx context.Context, logger runtime.Logger, store ports.LeaderboardPort, payload string, now func() time.Time) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	req, err := parsePayload(payload)
	if err != nil {
		return "", errBadPayload
	}
	category := stringField(req, "category")
	if category == "" {
		category = leaderboard.BattleCategory
	}
	entry, err := entryFromProto(req.GetFields()["entry"].GetStructValue())
	if err != nil {
		logger.Warn("leaderboardSubmit [User:%s]: %v", userID, err)
		return "", errBadPayload
	}
	if entry.Date.IsZero() {
		entry.Date = now().UTC()
	}
	if entry.Rank == "" {
		entry.Rank = domain.CalculateRank(entry.Score, entry.Difficulty)
	}

	entries, err := store.Submit(ctx, category, entry)
	if errors.Is(err, leaderboard.ErrInvalidCategory) {
		return "", errBadCategory
	}
	if err != nil {
		logger.Error("leaderboardSubmit [User:%s]: Failed to write %s: %v", userID, category, err)
		return "", errStorage
	}
	logger.Info("leaderboardSubmit [User:%s]: %s scored %d in %s", userID, entry.PlayerName, entry.Score, category)
	return entriesToJSON(entries)
}

// battleQuestions payload: {"difficulty": "integers"}. The pool is shuffled and
// validated the same way a local battle does it.
func battleQuestions(ctx context.Context, logger runtime.Logger, source ports.QuestionSource, rng *rand.Rand, payload string) (string, error) {
	req, err := parsePayload(payload)
	if err != nil {
		return "", errBadPayload
	}
	difficulty := domain.Difficulty(stringField(req, "difficulty"))
	if difficulty == "" {
		difficulty = domain.DifficultyIntegers
	}
	if !difficulty.Valid() {
		return "", errBadPayload
	}

	pool, err := source.Questions(ctx, difficulty)
	if err != nil {
		logger.Warn("battleQuestions: Failed to load %s questions: %v", difficulty, err)
		pool = nil
	}
	if len(pool) < domain.MinQuestions {
		return "", errNoQuestions
	}
	return battlePoolToJSON(domain.ShuffleQuestions(rng, pool), config.GetGameConfig())
}
