package action

import (
	"fmt"

	"github.com/louisbranch/stanks.space/internal/arena/game"
	apperrors "github.com/louisbranch/stanks.space/internal/platform/errors"
)

// ErrPositionOccupied indicates the destination cell already holds a
// player. Eliminated players still occupy their last cell.
var ErrPositionOccupied = apperrors.New(apperrors.CodePositionOccupied, "This position is unavailable for movement")

// Move relocates a player to (x, y), charging one action point per
// Chebyshev step.
func Move(g *game.Game, playerID string, x, y int) error {
	player, err := g.GetPlayer(playerID)
	if err != nil {
		return err
	}

	if player.NextRound {
		return ErrActionNotAllowed
	}
	if player.Points <= game.PointsMin {
		return ErrInsufficientPoints
	}

	to := game.Place{X: x, Y: y}
	distance := player.Position.Distance(to)
	pointsAfter := player.Points - distance
	if pointsAfter < game.PointsMin {
		return ErrInsufficientPoints
	}

	if g.IsPositionOccupied(x, y) {
		return ErrPositionOccupied
	}

	g.AddLog(fmt.Sprintf("%s moves on [%d,%d]", player.Name, to.X, to.Y))

	if err := g.SetPlayerPoints(playerID, pointsAfter); err != nil {
		return err
	}
	return g.SetPlayerPosition(playerID, to.X, to.Y)
}
