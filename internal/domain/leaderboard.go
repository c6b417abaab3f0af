package domain

import (
	"sort"
	"time"
)

// LeaderboardSize is how many entries a category keeps.
const LeaderboardSize = 10

// Rank is a medal tier derived from score and difficulty.
type Rank string

const (
	RankBronze Rank = "bronze"
	RankSilver Rank = "silver"
	RankGold   Rank = "gold"
)

// LeaderboardEntry is one persisted score.
type LeaderboardEntry struct {
	PlayerName string     `json:"playerName"`
	Score      int        `json:"score"`
	Difficulty Difficulty `json:"difficulty"`
	Date       time.Time  `json:"date"`
	Rank       Rank       `json:"rank,omitempty"`
}

// CalculateRank maps a score to a medal tier. Harder banks need higher scores.
func CalculateRank(score int, difficulty Difficulty) Rank {
	gold, silver := 1000, 500
	switch difficulty {
	case DifficultyRational:
		gold, silver = 1200, 600
	case DifficultyComplex:
		gold, silver = 1500, 750
	}
	switch {
	case score >= gold:
		return RankGold
	case score >= silver:
		return RankSilver
	}
	return RankBronze
}

// InsertEntry appends e, orders by score descending and keeps the top entries.
// Earlier entries win ties. The input slice is not modified.
func InsertEntry(entries []LeaderboardEntry, e LeaderboardEntry) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(entries)+1)
	out = append(out, entries...)
	out = append(out, e)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > LeaderboardSize {
		out = out[:LeaderboardSize]
	}
	return out
}
