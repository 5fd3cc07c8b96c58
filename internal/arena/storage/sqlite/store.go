// Package sqlite provides a SQLite-backed arena storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/stanks.space/internal/arena/storage"
	"github.com/louisbranch/stanks.space/internal/arena/storage/sqlite/migrations"
	sqlitemigrate "github.com/louisbranch/stanks.space/internal/platform/storage/sqlitemigrate"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists arena snapshots and results in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite arena store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
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

// SaveSnapshot upserts the latest serialized state for one game.
func (s *Store) SaveSnapshot(ctx context.Context, snapshot storage.GameSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	gameID := strings.TrimSpace(snapshot.GameID)
	if gameID == "" {
		return fmt.Errorf("game id is required")
	}
	if len(snapshot.State) == 0 {
		return fmt.Errorf("state is required")
	}
	updatedAt := snapshot.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO game_snapshots (game_id, state, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (game_id) DO UPDATE SET
		   state = excluded.state,
		   updated_at = excluded.updated_at`,
		gameID,
		string(snapshot.State),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("save game snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns the latest snapshot for one game.
func (s *Store) GetSnapshot(ctx context.Context, gameID string) (storage.GameSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return storage.GameSnapshot{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.GameSnapshot{}, fmt.Errorf("storage is not configured")
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return storage.GameSnapshot{}, fmt.Errorf("game id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT game_id, state, updated_at
		   FROM game_snapshots
		  WHERE game_id = ?`,
		gameID,
	)

	var snapshot storage.GameSnapshot
	var state string
	var updatedAt int64
	if err := row.Scan(&snapshot.GameID, &state, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.GameSnapshot{}, storage.ErrNotFound
		}
		return storage.GameSnapshot{}, fmt.Errorf("get game snapshot: %w", err)
	}
	snapshot.State = []byte(state)
	snapshot.UpdatedAt = fromMillis(updatedAt)
	return snapshot, nil
}

// DeleteSnapshot removes the snapshot for one game. Deleting a missing
// snapshot is not an error.
func (s *Store) DeleteSnapshot(ctx context.Context, gameID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return fmt.Errorf("game id is required")
	}

	if _, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM game_snapshots WHERE game_id = ?`,
		gameID,
	); err != nil {
		return fmt.Errorf("delete game snapshot: %w", err)
	}
	return nil
}

// RecordResult inserts one finished game outcome.
func (s *Store) RecordResult(ctx context.Context, result storage.GameResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	gameID := strings.TrimSpace(result.GameID)
	winnerID := strings.TrimSpace(result.WinnerID)
	winnerName := strings.TrimSpace(result.WinnerName)
	if gameID == "" {
		return fmt.Errorf("game id is required")
	}
	if winnerID == "" {
		return fmt.Errorf("winner id is required")
	}
	if result.Rounds < 0 {
		return fmt.Errorf("rounds must not be negative")
	}
	finishedAt := result.FinishedAt.UTC()
	if finishedAt.IsZero() {
		finishedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO game_results (game_id, winner_id, winner_name, rounds, players, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		gameID,
		winnerID,
		winnerName,
		result.Rounds,
		result.Players,
		toMillis(finishedAt),
	)
	if err != nil {
		if isGameResultUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("record game result: %w", err)
	}
	return nil
}

// GetResult returns the outcome for one finished game.
func (s *Store) GetResult(ctx context.Context, gameID string) (storage.GameResult, error) {
	if err := ctx.Err(); err != nil {
		return storage.GameResult{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.GameResult{}, fmt.Errorf("storage is not configured")
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return storage.GameResult{}, fmt.Errorf("game id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT game_id, winner_id, winner_name, rounds, players, finished_at
		   FROM game_results
		  WHERE game_id = ?`,
		gameID,
	)

	var result storage.GameResult
	var finishedAt int64
	if err := row.Scan(
		&result.GameID,
		&result.WinnerID,
		&result.WinnerName,
		&result.Rounds,
		&result.Players,
		&finishedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.GameResult{}, storage.ErrNotFound
		}
		return storage.GameResult{}, fmt.Errorf("get game result: %w", err)
	}
	result.FinishedAt = fromMillis(finishedAt)
	return result, nil
}

// ListResults returns one page of result records in game ID order.
func (s *Store) ListResults(ctx context.Context, pageSize int, pageToken string) (storage.GameResultPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.GameResultPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.GameResultPage{}, fmt.Errorf("storage is not configured")
	}
	if pageSize <= 0 {
		return storage.GameResultPage{}, fmt.Errorf("page size must be greater than zero")
	}
	pageToken = strings.TrimSpace(pageToken)

	page := storage.GameResultPage{
		Results: make([]storage.GameResult, 0, pageSize),
	}

	var (
		rows *sql.Rows
		err  error
	)
	if pageToken == "" {
		rows, err = s.sqlDB.QueryContext(
			ctx,
			`SELECT game_id, winner_id, winner_name, rounds, players, finished_at
			   FROM game_results
			  ORDER BY game_id ASC
			  LIMIT ?`,
			pageSize+1,
		)
	} else {
		rows, err = s.sqlDB.QueryContext(
			ctx,
			`SELECT game_id, winner_id, winner_name, rounds, players, finished_at
			   FROM game_results
			  WHERE game_id > ?
			  ORDER BY game_id ASC
			  LIMIT ?`,
			pageToken,
			pageSize+1,
		)
	}
	if err != nil {
		return storage.GameResultPage{}, fmt.Errorf("list game results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var result storage.GameResult
		var finishedAt int64
		if err := rows.Scan(
			&result.GameID,
			&result.WinnerID,
			&result.WinnerName,
			&result.Rounds,
			&result.Players,
			&finishedAt,
		); err != nil {
			return storage.GameResultPage{}, fmt.Errorf("list game results: %w", err)
		}
		result.FinishedAt = fromMillis(finishedAt)
		page.Results = append(page.Results, result)
	}
	if err := rows.Err(); err != nil {
		return storage.GameResultPage{}, fmt.Errorf("list game results: %w", err)
	}
	if len(page.Results) > pageSize {
		page.NextPageToken = page.Results[pageSize-1].GameID
		page.Results = page.Results[:pageSize]
	}

	return page, nil
}

func isGameResultUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "game_results.game_id")
}

var _ storage.SnapshotStore = (*Store)(nil)
var _ storage.ResultStore = (*Store)(nil)
