package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"invasion/internal/domain"
)

// FileStore keeps one "<category>.json" file per category under dir. Writes
// replace the whole file.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create leaderboard dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Entries implements ports.LeaderboardPort.
func (s *FileStore) Entries(ctx context.Context, category string) ([]domain.LeaderboardEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateCategory(category); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(category)
}

// Submit implements ports.LeaderboardPort.
func (s *FileStore) Submit(ctx context.Context, category string, entry domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateCategory(category); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read(category)
	if err != nil {
		return nil, err
	}
	updated := domain.InsertEntry(entries, entry)

	data, err := json.MarshalIndent(updated, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode %s leaderboard: %w", category, err)
	}
	tmp := s.path(category) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return nil, fmt.Errorf("write %s leaderboard: %w", category, err)
	}
	if err := os.Rename(tmp, s.path(category)); err != nil {
		return nil, fmt.Errorf("replace %s leaderboard: %w", category, err)
	}
	return updated, nil
}

func (s *FileStore) read(category string) ([]domain.LeaderboardEntry, error) {
	data, err := os.ReadFile(s.path(category))
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.LeaderboardEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s leaderboard: %w", category, err)
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode %s leaderboard: %w", category, err)
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return entries, nil
}

func (s *FileStore) path(category string) string {
	return filepath.Join(s.dir, category+".json")
}
