package action

import (
	"fmt"

	"github.com/louisbranch/stanks.space/internal/arena/game"
	apperrors "github.com/louisbranch/stanks.space/internal/platform/errors"
)

// ErrInvalidInvestAmount indicates an invest amount below the minimum.
var ErrInvalidInvestAmount = apperrors.New(apperrors.CodeInvalidAmount, "The provided invest amount is not valid")

// Invest converts action points into attack/share reach. The range cap
// reduces the effective spend: points are only charged for the portion
// of the increase actually applied.
func Invest(g *game.Game, playerID string, amount int) error {
	player, err := g.GetPlayer(playerID)
	if err != nil {
		return err
	}

	if player.NextRound {
		return ErrActionNotAllowed
	}
	if amount < game.InvestAmountMin {
		return ErrInvalidInvestAmount
	}
	if player.Points <= game.PointsMin || player.Points < amount {
		return ErrInsufficientPoints
	}

	investAmount := amount
	rangeAfter := player.Range + investAmount
	if rangeAfter > game.RangeMax {
		rangeAfter = game.RangeMax
		investAmount = game.RangeMax - player.Range
	}
	pointsAfter := player.Points - investAmount

	g.AddLog(fmt.Sprintf("%s increases range on %d", player.Name, investAmount))

	if err := g.SetPlayerRange(playerID, rangeAfter); err != nil {
		return err
	}
	return g.SetPlayerPoints(playerID, pointsAfter)
}
