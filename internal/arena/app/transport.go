package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/louisbranch/stanks.space/internal/arena/action"
	"github.com/louisbranch/stanks.space/internal/arena/game"
	"github.com/louisbranch/stanks.space/internal/arena/vote"
	apperrors "github.com/louisbranch/stanks.space/internal/platform/errors"
	"golang.org/x/net/websocket"
)

// NewHandler creates arena routes with default game settings and no
// archival storage. Intended for tests and offline paths.
func NewHandler() http.Handler {
	return newHandler(newGameHub(defaultMinPlayers, defaultRoundDuration, nil, nil), nil, nil)
}

// NewHandlerWithConfig creates arena routes honoring the game settings
// in config. Archival storage is not wired; use NewServer for that.
func NewHandlerWithConfig(config Config) http.Handler {
	minPlayers := config.MinPlayers
	if minPlayers <= 0 {
		minPlayers = defaultMinPlayers
	}
	roundDuration := config.RoundDuration
	if roundDuration <= 0 {
		roundDuration = defaultRoundDuration
	}
	return newHandler(newGameHub(minPlayers, roundDuration, nil, nil), nil, config.VoteVerifier)
}

func newHandler(hub *gameHub, archive *gameArchive, verifier vote.Verifier) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	mux.HandleFunc("/games", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			entry, err := hub.create()
			if err != nil {
				http.Error(w, "failed to create game", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]string{"game_id": entry.id})
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string][]string{"games": hub.ids()})
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		gameID := strings.TrimSpace(r.URL.Query().Get("game_id"))
		if gameID == "" {
			http.Error(w, "game_id is required", http.StatusBadRequest)
			return
		}
		entry, ok := hub.get(gameID)
		if !ok {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(entry.state())
	})

	wsHandler := websocket.Handler(func(conn *websocket.Conn) {
		handleWSConn(conn, hub, archive, verifier)
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		wsHandler.ServeHTTP(w, r)
	})

	return mux
}

func handleWSConn(conn *websocket.Conn, hub *gameHub, archive *gameArchive, verifier vote.Verifier) {
	defer func() {
		_ = conn.Close()
	}()

	decoder := json.NewDecoder(conn)
	peer := newWSPeer(json.NewEncoder(conn))
	session := newWSSession(peer)
	defer func() {
		if entry, _ := session.current(); entry != nil {
			entry.leave(session.peer)
		}
	}()

	windowStart := time.Now()
	framesInWindow := 0
	decodeErrors := 0

	for {
		var frame wsFrame
		if err := decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			decodeErrors++
			_ = writeWSError(session.peer, "", string(apperrors.CodeInvalidAmount), "invalid frame payload", nil)
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			continue
		}
		decodeErrors = 0

		if len(frame.Payload) > maxFramePayloadBytes {
			_ = writeWSError(session.peer, frame.RequestID, string(apperrors.CodeInvalidAmount), "payload too large", nil)
			continue
		}

		now := time.Now()
		if now.Sub(windowStart) >= time.Second {
			windowStart = now
			framesInWindow = 0
		}
		framesInWindow++
		if framesInWindow > maxFramesPerSecond {
			_ = writeWSError(session.peer, frame.RequestID, string(apperrors.CodeActionNotAllowed), "rate limit exceeded", nil)
			return
		}

		switch frame.Type {
		case "arena.join":
			handleJoinFrame(session, hub, archive, frame)
		case "arena.move":
			handleMoveFrame(session, archive, frame)
		case "arena.fire":
			handleFireFrame(session, archive, frame)
		case "arena.invest":
			handleInvestFrame(session, archive, frame)
		case "arena.share":
			handleShareFrame(session, archive, frame)
		case "arena.vote":
			handleVoteFrame(session, archive, frame, verifier)
		case "arena.confirm":
			handleConfirmFrame(session, archive, frame)
		case "arena.round.next":
			handleRoundNextFrame(session, archive, frame)
		case "arena.state":
			handleStateFrame(session, frame)
		default:
			_ = writeWSError(session.peer, frame.RequestID, string(apperrors.CodeUnknown), "unsupported frame type", nil)
		}
	}
}

func handleJoinFrame(session *wsSession, hub *gameHub, archive *gameArchive, frame wsFrame) {
	var payload joinPayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		_ = writeWSError(session.peer, frame.RequestID, string(apperrors.CodeInvalidAmount), "invalid join payload", nil)
		return
	}

	gameID := strings.TrimSpace(payload.GameID)
	if gameID == "" {
		_ = writeWSError(session.peer, frame.RequestID, string(apperrors.CodeInvalidAmount), "game_id is required", nil)
		return
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		_ = writeWSError(session.peer, frame.RequestID, string(apperrors.CodeInvalidAmount), "name is required", nil)
		return
	}
	if utf8.RuneCountInString(name) > maxPlayerNameRunes {
		_ = writeWSError(session.peer, frame.RequestID, string(apperrors.CodeInvalidAmount), "name must be at most 64 characters", nil)
		return
	}

	entry, ok := hub.get(gameID)
	if !ok {
		_ = writeWSError(session.peer, frame.RequestID, string(apperrors.CodeNotFound), "game not found", nil)
		return
	}

	var player game.Player
	state, err := entry.withLock(func(g *game.Game) error {
		spawned, spawnErr := action.Spawn(g, payload.X, payload.Y, name, strings.TrimSpace(payload.AvatarRef))
		if spawnErr != nil {
			return spawnErr
		}
		player = spawned
		return nil
	})
	if err != nil {
		writeDomainError(session.peer, frame.RequestID, err)
		return
	}

	previous := session.setGame(entry, player.ID)
	if previous != nil && previous != entry {
		previous.leave(session.peer)
	}
	entry.join(session.peer)

	_ = session.peer.writeFrame(wsFrame{
		Type:      "arena.joined",
		RequestID: frame.RequestID,
		Payload: mustJSON(joinedPayload{
			GameID:     gameID,
			PlayerID:   player.ID,
			ServerTime: time.Now().UTC().Format(time.RFC3339),
		}),
	})

	broadcastState(entry, archive, state)
}

func handleMoveFrame(session *wsSession, archive *gameArchive, frame wsFrame) {
	entry, playerID, ok := requireJoined(session, frame)
	if !ok {
		return
	}
	var payload movePayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		_ = writeWSError(session.peer, frame.RequestID, string(apperrors.CodeInvalidAmount), "invalid move payload", nil)
		return
	}

	runMutation(session, entry, archive, frame, func(g *game.Game) error {
		return action.Move(g, playerID, payload.X, payload.Y)
	})
}

func handleFireFrame(session *wsSession, archive *gameArchive, frame wsFrame) {
	entry, playerID, ok := requireJoined(session, frame)
	if !ok {
		return
	}
	var payload firePayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		_ = writeWSError(session.peer, frame.RequestID, string(apperrors.CodeInvalidAmount), "invalid fire payload", nil)
		return
	}

	runMutation(session, entry, archive, frame, func(g *game.Game) error {
		return action.Fire(g, playerID, strings.TrimSpace(payload.TargetID), payload.Amount)
	})
}

func handleInvestFrame(session *wsSession, archive *gameArchive, frame wsFrame) {
	entry, playerID, ok := requireJoined(session, frame)
	if !ok {
		return
	}
	var payload investPayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		_ = writeWSError(session.peer, frame.RequestID, string(apperrors.CodeInvalidAmount), "invalid invest payload", nil)
		return
	}

	runMutation(session, entry, archive, frame, func(g *game.Game) error {
		return action.Invest(g, playerID, payload.Amount)
	})
}

func handleShareFrame(session *wsSession, archive *gameArchive, frame wsFrame) {
	entry, playerID, ok := requireJoined(session, frame)
	if !ok {
		return
	}
	var payload sharePayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		_ = writeWSError(session.peer, frame.RequestID, string(apperrors.CodeInvalidAmount), "invalid share payload", nil)
		return
	}

	runMutation(session, entry, archive, frame, func(g *game.Game) error {
		return action.Share(g, playerID, strings.TrimSpace(payload.ToID), payload.Amount)
	})
}

func handleVoteFrame(session *wsSession, archive *gameArchive, frame wsFrame, verifier vote.Verifier) {
	entry, playerID, ok := requireJoined(session, frame)
	if !ok {
		return
	}
	var payload votePayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		_ = writeWSError(session.peer, frame.RequestID, string(apperrors.CodeInvalidAmount), "invalid vote payload", nil)
		return
	}

	runMutation(session, entry, archive, frame, func(g *game.Game) error {
		return action.Vote(g, playerID, payload.Signature, verifier)
	})
}

func handleConfirmFrame(session *wsSession, archive *gameArchive, frame wsFrame) {
	entry, playerID, ok := requireJoined(session, frame)
	if !ok {
		return
	}
	payload := confirmPayload{Confirm: true}
	if len(frame.Payload) > 0 {
		if err := json.Unmarshal(frame.Payload, &payload); err != nil {
			_ = writeWSError(session.peer, frame.RequestID, string(apperrors.CodeInvalidAmount), "invalid confirm payload", nil)
			return
		}
	}

	runMutation(session, entry, archive, frame, func(g *game.Game) error {
		return g.ConfirmMove(playerID, payload.Confirm)
	})
}

func handleRoundNextFrame(session *wsSession, archive *gameArchive, frame wsFrame) {
	entry, _, ok := requireJoined(session, frame)
	if !ok {
		return
	}

	runMutation(session, entry, archive, frame, func(g *game.Game) error {
		return g.StartNextRound()
	})
}

func handleStateFrame(session *wsSession, frame wsFrame) {
	entry, _, ok := requireJoined(session, frame)
	if !ok {
		return
	}

	_ = session.peer.writeFrame(wsFrame{
		Type:      "arena.state",
		RequestID: frame.RequestID,
		Payload:   mustJSON(entry.state()),
	})
}

func requireJoined(session *wsSession, frame wsFrame) (*gameEntry, string, bool) {
	entry, playerID := session.current()
	if entry == nil {
		_ = writeWSError(session.peer, frame.RequestID, string(apperrors.CodeActionNotAllowed), "must join a game first", nil)
		return nil, "", false
	}
	return entry, playerID, true
}

// runMutation applies fn under the game's lock, replies with a domain
// error on rejection and broadcasts the new state on success.
func runMutation(session *wsSession, entry *gameEntry, archive *gameArchive, frame wsFrame, fn func(g *game.Game) error) {
	state, err := entry.withLock(fn)
	if err != nil {
		writeDomainError(session.peer, frame.RequestID, err)
		return
	}
	broadcastState(entry, archive, state)
}

func broadcastState(entry *gameEntry, archive *gameArchive, state game.State) {
	entry.broadcast(wsFrame{
		Type:    "arena.state",
		Payload: mustJSON(state),
	})
	archive.persist(entry.id, state)
}

func writeDomainError(peer *wsPeer, requestID string, err error) {
	code := apperrors.GetCode(err)
	_ = writeWSError(peer, requestID, string(code), err.Error(), apperrors.GetMetadata(err))
}

func writeWSError(peer *wsPeer, requestID string, code string, message string, details map[string]string) error {
	return peer.writeFrame(wsFrame{
		Type:      "arena.error",
		RequestID: requestID,
		Payload: mustJSON(wsErrorEnvelope{
			Error: wsError{
				Code:    code,
				Message: message,
				Details: details,
			},
		}),
	})
}

func mustJSON(value any) json.RawMessage {
	b, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return b
}
