package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/louisbranch/stanks.space/internal/arena/game"
	"github.com/louisbranch/stanks.space/internal/arena/storage"
	"github.com/louisbranch/stanks.space/internal/platform/timeouts"
)

// gameArchive persists state snapshots after accepted mutations and the
// final result once a winner is declared. Archival failures are logged
// and never block gameplay.
type gameArchive struct {
	snapshots storage.SnapshotStore
	results   storage.ResultStore

	mu       sync.Mutex
	recorded map[string]struct{}
}

func newGameArchive(snapshots storage.SnapshotStore, results storage.ResultStore) *gameArchive {
	return &gameArchive{
		snapshots: snapshots,
		results:   results,
		recorded:  make(map[string]struct{}),
	}
}

func (a *gameArchive) persist(gameID string, state game.State) {
	if a == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Archive)
	defer cancel()

	if a.snapshots != nil {
		raw, err := json.Marshal(state)
		if err != nil {
			log.Printf("arena: marshal snapshot game=%q: %v", gameID, err)
			return
		}
		if err := a.snapshots.SaveSnapshot(ctx, storage.GameSnapshot{
			GameID:    gameID,
			State:     raw,
			UpdatedAt: time.Now().UTC(),
		}); err != nil {
			log.Printf("arena: save snapshot game=%q: %v", gameID, err)
		}
	}

	if state.Winner == nil || a.results == nil {
		return
	}
	if a.alreadyRecorded(gameID) {
		return
	}

	winnerName := ""
	for _, player := range state.Players {
		if player.ID == *state.Winner {
			winnerName = player.Name
			break
		}
	}
	err := a.results.RecordResult(ctx, storage.GameResult{
		GameID:     gameID,
		WinnerID:   *state.Winner,
		WinnerName: winnerName,
		Rounds:     state.CurrentRound,
		Players:    len(state.Players),
		FinishedAt: time.Now().UTC(),
	})
	if err != nil && !errors.Is(err, storage.ErrAlreadyExists) {
		log.Printf("arena: record result game=%q: %v", gameID, err)
		return
	}
	a.markRecorded(gameID)
}

func (a *gameArchive) alreadyRecorded(gameID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.recorded[gameID]
	return ok
}

func (a *gameArchive) markRecorded(gameID string) {
	a.mu.Lock()
	a.recorded[gameID] = struct{}{}
	a.mu.Unlock()
}
