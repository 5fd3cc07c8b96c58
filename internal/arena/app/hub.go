package server

import (
	"sync"
	"time"

	"github.com/louisbranch/stanks.space/internal/arena/game"
	"github.com/louisbranch/stanks.space/internal/platform/id"
)

// gameHub maps game IDs to live games. Each game carries its own mutex;
// the aggregate assumes single-writer access and the hub is where that
// boundary lives.
type gameHub struct {
	mu    sync.Mutex
	games map[string]*gameEntry

	minPlayers    int
	roundDuration time.Duration
	now           func() time.Time
	newID         func() (string, error)
}

func newGameHub(minPlayers int, roundDuration time.Duration, now func() time.Time, newID func() (string, error)) *gameHub {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &gameHub{
		games:         make(map[string]*gameEntry),
		minPlayers:    minPlayers,
		roundDuration: roundDuration,
		now:           now,
		newID:         newID,
	}
}

func (h *gameHub) create() (*gameEntry, error) {
	gameID, err := h.newID()
	if err != nil {
		return nil, err
	}

	entry := &gameEntry{
		id: gameID,
		game: game.New(game.Config{
			MinPlayers:    h.minPlayers,
			RoundStartAt:  h.now().UnixMilli(),
			RoundDuration: h.roundDuration.Milliseconds(),
		}, h.now, h.newID),
		subscribers: make(map[*wsPeer]struct{}),
	}

	h.mu.Lock()
	h.games[gameID] = entry
	h.mu.Unlock()
	return entry, nil
}

func (h *gameHub) get(gameID string) (*gameEntry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	entry, ok := h.games[gameID]
	return entry, ok
}

func (h *gameHub) ids() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.games))
	for gameID := range h.games {
		ids = append(ids, gameID)
	}
	return ids
}

// gameEntry pairs one game with its lock and its room subscribers.
type gameEntry struct {
	mu          sync.Mutex
	id          string
	game        *game.Game
	subscribers map[*wsPeer]struct{}
}

// withLock runs fn with exclusive access to the game and returns the
// state snapshot taken after fn, whether it succeeded or not.
func (e *gameEntry) withLock(fn func(g *game.Game) error) (game.State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := fn(e.game)
	return e.game.State(), err
}

func (e *gameEntry) state() game.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.State()
}

func (e *gameEntry) join(peer *wsPeer) {
	e.mu.Lock()
	e.subscribers[peer] = struct{}{}
	e.mu.Unlock()
}

func (e *gameEntry) leave(peer *wsPeer) {
	e.mu.Lock()
	delete(e.subscribers, peer)
	e.mu.Unlock()
}

// broadcast sends a frame to every subscribed peer. The subscriber set
// is copied under the lock; writes happen outside it.
func (e *gameEntry) broadcast(frame wsFrame) {
	e.mu.Lock()
	peers := make([]*wsPeer, 0, len(e.subscribers))
	for peer := range e.subscribers {
		peers = append(peers, peer)
	}
	e.mu.Unlock()

	for _, peer := range peers {
		_ = peer.writeFrame(frame)
	}
}
