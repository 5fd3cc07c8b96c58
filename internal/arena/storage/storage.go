// Package storage defines persistence contracts for arena archival state.
//
// The game aggregate itself is in-memory; stores keep the latest
// snapshot per game for recovery and the final results for history.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested arena record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained arena record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// GameSnapshot stores the latest serialized state for one game.
type GameSnapshot struct {
	GameID    string
	State     []byte
	UpdatedAt time.Time
}

// GameResult stores the outcome of one finished game.
type GameResult struct {
	GameID     string
	WinnerID   string
	WinnerName string
	Rounds     int
	Players    int
	FinishedAt time.Time
}

// GameResultPage stores one page of result records.
type GameResultPage struct {
	Results       []GameResult
	NextPageToken string
}

// SnapshotStore persists the latest state snapshot per game.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot GameSnapshot) error
	GetSnapshot(ctx context.Context, gameID string) (GameSnapshot, error)
	DeleteSnapshot(ctx context.Context, gameID string) error
}

// ResultStore persists finished game outcomes.
type ResultStore interface {
	RecordResult(ctx context.Context, result GameResult) error
	GetResult(ctx context.Context, gameID string) (GameResult, error)
	ListResults(ctx context.Context, pageSize int, pageToken string) (GameResultPage, error)
}
