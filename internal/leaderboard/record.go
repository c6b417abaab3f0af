package leaderboard

import (
	"context"
	"time"

	"invasion/internal/domain"
	"invasion/internal/ports"
)

// EntryFor builds the leaderboard entry for a finished battle. It reports false
// for a draw, which has no winner to record.
func EntryFor(result domain.GameResult, difficulty domain.Difficulty, now time.Time) (domain.LeaderboardEntry, bool) {
	if result.WinnerName == "" {
		return domain.LeaderboardEntry{}, false
	}
	return domain.LeaderboardEntry{
		PlayerName: result.WinnerName,
		Score:      result.FinalScore,
		Difficulty: difficulty,
		Date:       now.UTC(),
		Rank:       domain.CalculateRank(result.FinalScore, difficulty),
	}, true
}

// RecordWinner submits the winner of a battle to BattleCategory. Draws are skipped.
func RecordWinner(ctx context.Context, store ports.LeaderboardPort, result domain.GameResult, difficulty domain.Difficulty) error {
	entry, ok := EntryFor(result, difficulty, time.Now())
	if !ok {
		return nil
	}
	_, err := store.Submit(ctx, BattleCategory, entry)
	return err
}
