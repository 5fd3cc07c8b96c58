// Package server hosts the arena HTTP/WebSocket process.
//
// The transport is a thin adapter: every gameplay mutation goes through
// the action pipeline under the owning game's lock, and accepted
// mutations broadcast the fresh state snapshot to room subscribers.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/stanks.space/internal/arena/game"
	"github.com/louisbranch/stanks.space/internal/arena/storage/sqlite"
	"github.com/louisbranch/stanks.space/internal/arena/vote"
	"github.com/louisbranch/stanks.space/internal/platform/timeouts"
)

const (
	maxFramePayloadBytes   = 16 * 1024
	maxFramesPerSecond     = 40
	maxDecodeErrorsPerConn = 3

	maxPlayerNameRunes = 64

	defaultMinPlayers    = game.PlayersMin
	defaultRoundDuration = 5 * time.Minute
)

// Config defines the inputs for the arena transport boundary.
type Config struct {
	HTTPAddr          string
	StoragePath       string
	MinPlayers        int
	RoundDuration     time.Duration
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	VoteVerifier      vote.Verifier
}

// Server hosts the arena HTTP/WebSocket process.
type Server struct {
	httpAddr        string
	shutdownTimeout time.Duration
	httpServer      *http.Server
	store           *sqlite.Store
}

type wsFrame struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type wsErrorEnvelope struct {
	Error wsError `json:"error"`
}

type wsError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type joinPayload struct {
	GameID    string `json:"game_id"`
	Name      string `json:"name"`
	AvatarRef string `json:"avatar_ref,omitempty"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
}

type joinedPayload struct {
	GameID     string `json:"game_id"`
	PlayerID   string `json:"player_id"`
	ServerTime string `json:"server_time"`
}

type movePayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type firePayload struct {
	TargetID string `json:"target_id"`
	Amount   int    `json:"amount"`
}

type investPayload struct {
	Amount int `json:"amount"`
}

type sharePayload struct {
	ToID   string `json:"to_id"`
	Amount int    `json:"amount"`
}

type votePayload struct {
	Signature string `json:"signature"`
}

type confirmPayload struct {
	Confirm bool `json:"confirm"`
}

type wsSession struct {
	mu       sync.Mutex
	entry    *gameEntry
	playerID string
	peer     *wsPeer
}

func newWSSession(peer *wsPeer) *wsSession {
	return &wsSession{peer: peer}
}

func (s *wsSession) setGame(entry *gameEntry, playerID string) *gameEntry {
	s.mu.Lock()
	previous := s.entry
	s.entry = entry
	s.playerID = playerID
	s.mu.Unlock()
	return previous
}

func (s *wsSession) current() (*gameEntry, string) {
	s.mu.Lock()
	entry := s.entry
	playerID := s.playerID
	s.mu.Unlock()
	return entry, playerID
}

type wsPeer struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func newWSPeer(encoder *json.Encoder) *wsPeer {
	return &wsPeer{encoder: encoder}
}

func (p *wsPeer) writeFrame(frame wsFrame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encoder.Encode(frame)
}

// NewServer builds a configured arena server. Storage is optional: with
// an empty path games live only in memory.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if config.MinPlayers <= 0 {
		config.MinPlayers = defaultMinPlayers
	}
	if config.RoundDuration <= 0 {
		config.RoundDuration = defaultRoundDuration
	}
	if config.ReadHeaderTimeout <= 0 {
		config.ReadHeaderTimeout = timeouts.ReadHeader
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = timeouts.Shutdown
	}

	var store *sqlite.Store
	var archive *gameArchive
	if strings.TrimSpace(config.StoragePath) != "" {
		opened, err := sqlite.Open(config.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("open arena storage: %w", err)
		}
		store = opened
		archive = newGameArchive(store, store)
	}

	hub := newGameHub(config.MinPlayers, config.RoundDuration, nil, nil)
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           newHandler(hub, archive, config.VoteVerifier),
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}

	return &Server{
		httpAddr:        httpAddr,
		shutdownTimeout: config.ShutdownTimeout,
		httpServer:      httpServer,
		store:           store,
	}, nil
}

// Run creates and serves an arena server until the context ends.
func Run(ctx context.Context, config Config) error {
	server, err := NewServer(config)
	if err != nil {
		return fmt.Errorf("init arena server: %w", err)
	}
	defer server.Close()

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve arena: %w", err)
	}
	return nil
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("arena server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("arena server listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close arena storage: %v", err)
		}
	}
}
