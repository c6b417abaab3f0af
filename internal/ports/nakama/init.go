package nakama

import (
	"context"
	"database/sql"

	"invasion/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires the leaderboard and question RPCs into the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if path := env[EnvGameConfigPath]; path != "" {
			if err := config.LoadGameConfig(path); err != nil {
				logger.Warn("InitModule: Could not load game config: %v", err)
			}
		}
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	logger.Info("Integer Invasion Go module loaded.")
	return nil
}
