// Package sqlite provides a SQLite-backed leaderboard store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"invasion/internal/domain"
	"invasion/internal/leaderboard"
	"invasion/internal/leaderboard/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Store persists leaderboards in a single table keyed by category.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(v int64) time.Time { return time.UnixMilli(v).UTC() }

// Open opens the database at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer keeps the trim-after-insert transaction serialized.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Entries implements ports.LeaderboardPort.
func (s *Store) Entries(ctx context.Context, category string) ([]domain.LeaderboardEntry, error) {
	if err := leaderboard.ValidateCategory(category); err != nil {
		return nil, err
	}
	return s.top(ctx, s.sqlDB, category)
}

// Submit implements ports.LeaderboardPort. The insert and the trim to the top
// entries commit together.
func (s *Store) Submit(ctx context.Context, category string, entry domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error) {
	if err := leaderboard.ValidateCategory(category); err != nil {
		return nil, err
	}
	date := entry.Date
	if date.IsZero() {
		date = time.Now()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin submit: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO leaderboard_entries (category, player_name, score, difficulty, medal_rank, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		category, entry.PlayerName, entry.Score, string(entry.Difficulty), string(entry.Rank), toMillis(date),
	); err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM leaderboard_entries
		 WHERE category = ? AND id NOT IN (
		   SELECT id FROM leaderboard_entries
		   WHERE category = ?
		   ORDER BY score DESC, id ASC
		   LIMIT ?
		 )`,
		category, category, domain.LeaderboardSize,
	); err != nil {
		return nil, fmt.Errorf("trim leaderboard: %w", err)
	}
	entries, err := s.top(ctx, tx, category)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit submit: %w", err)
	}
	return entries, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) top(ctx context.Context, q querier, category string) ([]domain.LeaderboardEntry, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT player_name, score, difficulty, medal_rank, recorded_at
		 FROM leaderboard_entries
		 WHERE category = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		category, domain.LeaderboardSize,
	)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []domain.LeaderboardEntry{}
	for rows.Next() {
		var (
			e          domain.LeaderboardEntry
			difficulty string
			rank       string
			recorded   int64
		)
		if err := rows.Scan(&e.PlayerName, &e.Score, &difficulty, &rank, &recorded); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		e.Difficulty = domain.Difficulty(difficulty)
		e.Rank = domain.Rank(rank)
		e.Date = fromMillis(recorded)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return entries, nil
}
