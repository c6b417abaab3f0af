package ports

import (
	"context"

	"invasion/internal/domain"
)

// LeaderboardPort defines the interface for score persistence.
type LeaderboardPort interface {
	// Entries returns the stored collection for a category, empty if none exists yet.
	Entries(ctx context.Context, category string) ([]domain.LeaderboardEntry, error)

	// Submit appends an entry, keeps the top 10 by score and persists the whole
	// collection. It returns the updated collection.
	Submit(ctx context.Context, category string, entry domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error)
}
