package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/stanks.space/internal/arena/storage"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestSaveGetSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.May, 10, 18, 0, 0, 0, time.UTC)
	input := storage.GameSnapshot{
		GameID:    "game-1",
		State:     []byte(`{"gameStarted":true,"currentRound":3}`),
		UpdatedAt: now,
	}
	if err := store.SaveSnapshot(context.Background(), input); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	got, err := store.GetSnapshot(context.Background(), "game-1")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if got.GameID != input.GameID {
		t.Fatalf("game_id = %q, want %q", got.GameID, input.GameID)
	}
	if string(got.State) != string(input.State) {
		t.Fatalf("state = %q, want %q", got.State, input.State)
	}
	if !got.UpdatedAt.Equal(now) {
		t.Fatalf("updated_at = %v, want %v", got.UpdatedAt, now)
	}
}

func TestSaveSnapshotUpserts(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.May, 10, 18, 0, 0, 0, time.UTC)
	first := storage.GameSnapshot{
		GameID:    "game-up",
		State:     []byte(`{"currentRound":1}`),
		UpdatedAt: now,
	}
	if err := store.SaveSnapshot(context.Background(), first); err != nil {
		t.Fatalf("save first snapshot: %v", err)
	}

	second := storage.GameSnapshot{
		GameID:    "game-up",
		State:     []byte(`{"currentRound":2}`),
		UpdatedAt: now.Add(time.Minute),
	}
	if err := store.SaveSnapshot(context.Background(), second); err != nil {
		t.Fatalf("save second snapshot: %v", err)
	}

	got, err := store.GetSnapshot(context.Background(), "game-up")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if string(got.State) != string(second.State) {
		t.Fatalf("state = %q, want latest %q", got.State, second.State)
	}
	if !got.UpdatedAt.Equal(second.UpdatedAt) {
		t.Fatalf("updated_at = %v, want %v", got.UpdatedAt, second.UpdatedAt)
	}
}

func TestGetSnapshotNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.GetSnapshot(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestDeleteSnapshot(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	input := storage.GameSnapshot{
		GameID:    "game-del",
		State:     []byte(`{}`),
		UpdatedAt: time.Date(2026, time.May, 10, 18, 0, 0, 0, time.UTC),
	}
	if err := store.SaveSnapshot(context.Background(), input); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	if err := store.DeleteSnapshot(context.Background(), "game-del"); err != nil {
		t.Fatalf("delete snapshot: %v", err)
	}
	if _, err := store.GetSnapshot(context.Background(), "game-del"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want %v", err, storage.ErrNotFound)
	}

	// Deleting again is a no-op.
	if err := store.DeleteSnapshot(context.Background(), "game-del"); err != nil {
		t.Fatalf("delete missing snapshot: %v", err)
	}
}

func TestRecordGetResultRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.May, 10, 19, 30, 0, 0, time.UTC)
	input := storage.GameResult{
		GameID:     "game-2",
		WinnerID:   "player-1",
		WinnerName: "aler.btc",
		Rounds:     12,
		Players:    17,
		FinishedAt: now,
	}
	if err := store.RecordResult(context.Background(), input); err != nil {
		t.Fatalf("record result: %v", err)
	}

	got, err := store.GetResult(context.Background(), "game-2")
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if got.WinnerID != input.WinnerID {
		t.Fatalf("winner_id = %q, want %q", got.WinnerID, input.WinnerID)
	}
	if got.WinnerName != input.WinnerName {
		t.Fatalf("winner_name = %q, want %q", got.WinnerName, input.WinnerName)
	}
	if got.Rounds != input.Rounds {
		t.Fatalf("rounds = %d, want %d", got.Rounds, input.Rounds)
	}
	if got.Players != input.Players {
		t.Fatalf("players = %d, want %d", got.Players, input.Players)
	}
	if !got.FinishedAt.Equal(now) {
		t.Fatalf("finished_at = %v, want %v", got.FinishedAt, now)
	}
}

func TestRecordResultReturnsAlreadyExistsOnDuplicate(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	input := storage.GameResult{
		GameID:     "game-dup",
		WinnerID:   "player-1",
		WinnerName: "aler.btc",
		Rounds:     3,
		Players:    2,
		FinishedAt: time.Date(2026, time.May, 10, 19, 30, 0, 0, time.UTC),
	}
	if err := store.RecordResult(context.Background(), input); err != nil {
		t.Fatalf("record initial result: %v", err)
	}
	err := store.RecordResult(context.Background(), input)
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate record error = %v, want %v", err, storage.ErrAlreadyExists)
	}
}

func TestListResultsPaginates(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.May, 10, 20, 0, 0, 0, time.UTC)
	for i := 1; i <= 5; i++ {
		result := storage.GameResult{
			GameID:     fmt.Sprintf("game-%02d", i),
			WinnerID:   fmt.Sprintf("player-%d", i),
			WinnerName: "aler.btc",
			Rounds:     i,
			Players:    2,
			FinishedAt: now.Add(time.Duration(i) * time.Minute),
		}
		if err := store.RecordResult(context.Background(), result); err != nil {
			t.Fatalf("record result %d: %v", i, err)
		}
	}

	first, err := store.ListResults(context.Background(), 2, "")
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(first.Results) != 2 {
		t.Fatalf("first page size = %d, want 2", len(first.Results))
	}
	if first.NextPageToken == "" {
		t.Fatal("expected next page token")
	}

	second, err := store.ListResults(context.Background(), 2, first.NextPageToken)
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(second.Results) != 2 {
		t.Fatalf("second page size = %d, want 2", len(second.Results))
	}
	if second.Results[0].GameID != "game-03" {
		t.Fatalf("second page start = %q, want %q", second.Results[0].GameID, "game-03")
	}

	last, err := store.ListResults(context.Background(), 2, second.NextPageToken)
	if err != nil {
		t.Fatalf("list last page: %v", err)
	}
	if len(last.Results) != 1 {
		t.Fatalf("last page size = %d, want 1", len(last.Results))
	}
	if last.NextPageToken != "" {
		t.Fatalf("last page token = %q, want empty", last.NextPageToken)
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "arena.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
