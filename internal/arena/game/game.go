// Package game holds the arena game aggregate: the player registry,
// round lifecycle, elimination and winner state, and the append-only
// log. Mutators each enforce a single invariant; the action pipeline
// composes them and never writes player fields directly.
package game

import (
	"fmt"
	"time"

	"github.com/louisbranch/stanks.space/internal/arena/journal"
	apperrors "github.com/louisbranch/stanks.space/internal/platform/errors"
	"github.com/louisbranch/stanks.space/internal/platform/id"
)

var (
	// ErrPlayerNotFound indicates the referenced player is not registered.
	ErrPlayerNotFound = apperrors.New(apperrors.CodeNotFound, "Player not found!")
	// ErrGameEnded indicates a winner is already set.
	ErrGameEnded = apperrors.New(apperrors.CodeGameEnded, "The game has ended")
	// ErrAddAfterStart indicates a roster insert after round 1.
	ErrAddAfterStart = apperrors.New(apperrors.CodeGameAlreadyStarted, "Cannot add players after the game has started")
	// ErrRemoveAfterStart indicates a roster delete after round 1.
	ErrRemoveAfterStart = apperrors.New(apperrors.CodeGameAlreadyStarted, "Cannot remove players after the game has started")
	// ErrInvalidHearts indicates a hearts value below the floor.
	ErrInvalidHearts = apperrors.New(apperrors.CodeInvalidAmount, "The provided hearts amount is not valid")
	// ErrInvalidRange indicates a range value outside its clamp.
	ErrInvalidRange = apperrors.New(apperrors.CodeInvalidAmount, "The provided range amount is not valid")
	// ErrInvalidPoints indicates a points value below the floor.
	ErrInvalidPoints = apperrors.New(apperrors.CodeInvalidAmount, "The provided action points amount is not valid")
)

// Config carries the immutable game construction options.
type Config struct {
	// MinPlayers is the roster size required before the first round.
	MinPlayers int
	// RoundStartAt is the clock value (milliseconds) the first round
	// deadline counts from.
	RoundStartAt int64
	// RoundDuration is the round deadline length in milliseconds.
	RoundDuration int64
}

// Game is the arena aggregate. It assumes at most one in-flight
// mutation at a time; callers exposing it concurrently must add their
// own mutual-exclusion boundary.
type Game struct {
	now   func() time.Time
	newID func() (string, error)

	config Config

	// rounds holds one opaque token per advanced round; its length is
	// the current round number.
	rounds       []string
	roundStartAt int64
	winner       string

	players    map[string]*Player
	order      []string
	eliminated map[string]struct{}

	log *journal.Log
}

// New creates a game from config with injected clock and ID source.
// A nil clock defaults to time.Now; a nil ID source defaults to the
// platform ID generator.
func New(config Config, now func() time.Time, newID func() (string, error)) *Game {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &Game{
		now:          now,
		newID:        newID,
		config:       config,
		roundStartAt: config.RoundStartAt,
		players:      make(map[string]*Player),
		eliminated:   make(map[string]struct{}),
		log:          journal.New(),
	}
}

// NewPlayer constructs a player with a freshly assigned ID. The player
// is not registered until AddPlayer.
func (g *Game) NewPlayer(position Place, points, hearts, reach int, name, avatarRef string) (Player, error) {
	playerID, err := g.newID()
	if err != nil {
		return Player{}, fmt.Errorf("new player id: %w", err)
	}
	return Player{
		ID:        playerID,
		Position:  position,
		Points:    points,
		Hearts:    hearts,
		Range:     reach,
		Name:      name,
		AvatarRef: avatarRef,
		NextRound: true,
		Died:      false,
	}, nil
}

// Started reports whether the first round has begun.
func (g *Game) Started() bool {
	return g.CurrentRound() > 0
}

// CurrentRound returns the current round number.
func (g *Game) CurrentRound() int {
	return len(g.rounds)
}

// RoundTokens returns the opaque per-round tokens, one per advanced round.
func (g *Game) RoundTokens() []string {
	tokens := make([]string, len(g.rounds))
	copy(tokens, g.rounds)
	return tokens
}

// PlayersCount returns the number of players still in the game,
// excluding eliminated players.
func (g *Game) PlayersCount() int {
	return len(g.players) - len(g.eliminated)
}

// RoundStartAt returns the clock value the current round started at.
func (g *Game) RoundStartAt() int64 {
	return g.roundStartAt
}

// TimeLeftInRound returns the milliseconds remaining before the round
// deadline, floored at zero.
func (g *Game) TimeLeftInRound() int64 {
	left := g.roundStartAt + g.config.RoundDuration - g.now().UnixMilli()
	if left < 0 {
		return 0
	}
	return left
}

// Winner returns the winning player's ID, or empty when the game is
// still running.
func (g *Game) Winner() string {
	return g.winner
}

// Jury returns the eliminated player IDs in elimination-eligible order
// (roster insertion order).
func (g *Game) Jury() []string {
	jury := make([]string, 0, len(g.eliminated))
	for _, playerID := range g.order {
		if _, ok := g.eliminated[playerID]; ok {
			jury = append(jury, playerID)
		}
	}
	return jury
}

// GetPlayer returns a copy of the player with the given ID.
func (g *Game) GetPlayer(playerID string) (Player, error) {
	player, ok := g.players[playerID]
	if !ok {
		return Player{}, ErrPlayerNotFound
	}
	return *player, nil
}

// IsPositionOccupied reports whether any player, eliminated or not,
// sits at (x, y). Eliminated players still occupy their last cell.
func (g *Game) IsPositionOccupied(x, y int) bool {
	for _, player := range g.players {
		if player.Position.X == x && player.Position.Y == y {
			return true
		}
	}
	return false
}

// AddPlayer registers a player. Roster changes are allowed only before
// the game has started.
func (g *Game) AddPlayer(player Player) error {
	if g.Started() {
		return ErrAddAfterStart
	}
	if _, ok := g.players[player.ID]; !ok {
		g.order = append(g.order, player.ID)
	}
	g.players[player.ID] = &player
	return nil
}

// RemovePlayer deletes a player from the roster. Allowed only before
// the game has started.
func (g *Game) RemovePlayer(playerID string) error {
	if _, ok := g.players[playerID]; !ok {
		return ErrPlayerNotFound
	}
	if g.Started() {
		return ErrRemoveAfterStart
	}
	delete(g.players, playerID)
	for i, orderedID := range g.order {
		if orderedID == playerID {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return nil
}

// SetPlayerPoints sets a player's action points. Reaching the floor
// auto-confirms the player's turn: points and the nextRound flag move
// together so the cross-field invariant cannot be observed half-applied.
func (g *Game) SetPlayerPoints(playerID string, points int) error {
	if points < PointsMin {
		return ErrInvalidPoints
	}
	player, ok := g.players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	player.Points = points

	if player.Points == PointsMin {
		return g.ConfirmMove(playerID, true)
	}
	return nil
}

// SetPlayerHearts sets a player's health counter. Callers clamp at the
// floor before calling.
func (g *Game) SetPlayerHearts(playerID string, hearts int) error {
	if hearts < HeartsMin {
		return ErrInvalidHearts
	}
	player, ok := g.players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	player.Hearts = hearts
	return nil
}

// SetPlayerRange sets a player's attack/share reach within its clamp.
func (g *Game) SetPlayerRange(playerID string, reach int) error {
	if reach < RangeMin || reach > RangeMax {
		return ErrInvalidRange
	}
	player, ok := g.players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	player.Range = reach
	return nil
}

// SetPlayerPosition moves a player to (x, y). Collision rules belong to
// the action pipeline, not here.
func (g *Game) SetPlayerPosition(playerID string, x, y int) error {
	player, ok := g.players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	player.Position = Place{X: x, Y: y}
	return nil
}

// ConfirmMove confirms or resets a player's turn for the current round.
// Confirming is logged.
func (g *Game) ConfirmMove(playerID string, confirm bool) error {
	player, ok := g.players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	player.NextRound = confirm
	if confirm {
		g.AddLog(fmt.Sprintf("%s has confirmed their move", player.Name))
	}
	return nil
}

// SetPlayerDie marks a player dead and adds them to the jury. Death is
// monotonic; calling twice is idempotent.
func (g *Game) SetPlayerDie(playerID string) error {
	player, ok := g.players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	player.Died = true
	g.eliminated[playerID] = struct{}{}
	return nil
}

// AddLog appends a message to the game log.
func (g *Game) AddLog(message string) {
	g.log.Append(message, g.now())
}

// Log returns the log messages in append order.
func (g *Game) Log() []string {
	return g.log.Messages()
}

// Reset clears rounds, winner, players, eliminations and the log back
// to the empty state while keeping the construction config.
func (g *Game) Reset() {
	g.rounds = nil
	g.roundStartAt = g.config.RoundStartAt
	g.winner = ""
	g.players = make(map[string]*Player)
	g.order = nil
	g.eliminated = make(map[string]struct{})
	g.log.Reset()
}
