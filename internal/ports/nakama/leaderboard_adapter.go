package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"invasion/internal/domain"
	"invasion/internal/leaderboard"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// StorageModule is the slice of runtime.NakamaModule the leaderboard needs.
type StorageModule interface {
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
}

// NakamaLeaderboardAdapter implements ports.LeaderboardPort on Nakama storage.
// Each category is one system-owned object holding the whole top list.
type NakamaLeaderboardAdapter struct {
	nk StorageModule
}

// NewNakamaLeaderboardAdapter creates a new leaderboard adapter.
func NewNakamaLeaderboardAdapter(nk StorageModule) *NakamaLeaderboardAdapter {
	return &NakamaLeaderboardAdapter{nk: nk}
}

// Entries returns the stored list, empty when the category has no object yet.
func (a *NakamaLeaderboardAdapter) Entries(ctx context.Context, category string) ([]domain.LeaderboardEntry, error) {
	if err := leaderboard.ValidateCategory(category); err != nil {
		return nil, err
	}
	entries, _, err := a.read(ctx, category)
	return entries, err
}

// Submit inserts the entry with an optimistic version check, retrying when a
// concurrent writer got there first.
func (a *NakamaLeaderboardAdapter) Submit(ctx context.Context, category string, entry domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error) {
	if err := leaderboard.ValidateCategory(category); err != nil {
		return nil, err
	}
	var lastErr error
	for attempt := 0; attempt < submitAttempts; attempt++ {
		entries, version, err := a.read(ctx, category)
		if err != nil {
			return nil, err
		}
		updated := domain.InsertEntry(entries, entry)
		value, err := json.Marshal(updated)
		if err != nil {
			return nil, fmt.Errorf("failed to encode leaderboard: %w", err)
		}
		if version == "" {
			// Only create when nobody else has.
			version = "*"
		}
		_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
			Collection:      StorageCollectionLeaderboards,
			Key:             category,
			Value:           string(value),
			Version:         version,
			PermissionRead:  storagePermissionPublicRead,
			PermissionWrite: storagePermissionNoWrite,
		}})
		if err == nil {
			return updated, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to write leaderboard %s: %w", category, lastErr)
}

func (a *NakamaLeaderboardAdapter) read(ctx context.Context, category string) ([]domain.LeaderboardEntry, string, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: StorageCollectionLeaderboards,
		Key:        category,
	}})
	if err != nil {
		return nil, "", fmt.Errorf("failed to read leaderboard %s: %w", category, err)
	}
	if len(objects) == 0 {
		return []domain.LeaderboardEntry{}, "", nil
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal([]byte(objects[0].Value), &entries); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal leaderboard %s: %w", category, err)
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return entries, objects[0].Version, nil
}
