package nakama

const (
	// RpcLeaderboardGet returns the top entries of a category.
	RpcLeaderboardGet = "leaderboard_get"

	// RpcLeaderboardSubmit records an entry and returns the updated category.
	RpcLeaderboardSubmit = "leaderboard_submit"

	// RpcBattleQuestions returns a shuffled question pool for a battle.
	RpcBattleQuestions = "battle_questions"
)

const (
	// StorageCollectionLeaderboards holds one system-owned object per category.
	StorageCollectionLeaderboards = "leaderboards"

	storagePermissionPublicRead = 2
	storagePermissionNoWrite    = 0

	// submitAttempts bounds retries when a concurrent submit wins the version race.
	submitAttempts = 3
)

// Runtime environment keys.
const (
	EnvQuestionsDir   = "invasion_questions_dir"
	EnvGameConfigPath = "invasion_game_config"
)

const defaultQuestionsDir = "data/questions"
