package action

import (
	"fmt"

	"github.com/louisbranch/stanks.space/internal/arena/game"
)

// Spawn creates a player at (x, y) with the starting loadout and adds
// them to the game. Spawning never checks position collisions; that is
// Move's responsibility. Registration fails once the game has started.
func Spawn(g *game.Game, x, y int, name, avatarRef string) (game.Player, error) {
	player, err := g.NewPlayer(
		game.Place{X: x, Y: y},
		game.PointsStart,
		game.HeartsStart,
		game.RangeStart,
		name,
		avatarRef,
	)
	if err != nil {
		return game.Player{}, err
	}

	if err := g.AddPlayer(player); err != nil {
		return game.Player{}, err
	}

	g.AddLog(fmt.Sprintf("Spawn %s", player.Name))

	return player, nil
}
