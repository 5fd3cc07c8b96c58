package action

import (
	"fmt"

	"github.com/louisbranch/stanks.space/internal/arena/game"
	apperrors "github.com/louisbranch/stanks.space/internal/platform/errors"
)

var (
	// ErrInvalidFireAmount indicates a fire amount below the minimum.
	ErrInvalidFireAmount = apperrors.New(apperrors.CodeInvalidAmount, "The provided fire amount is not valid")
	// ErrFireOutOfRange indicates the victim is outside the attacker's reach.
	ErrFireOutOfRange = apperrors.New(apperrors.CodeOutOfRange, "The provided fire amount is not within the range")
)

// Fire spends amount points to remove amount hearts from the victim,
// clamped at the floor. A kill marks the victim dead and transfers the
// victim's remaining points to the attacker.
func Fire(g *game.Game, attackerID, victimID string, amount int) error {
	attacker, err := g.GetPlayer(attackerID)
	if err != nil {
		return err
	}
	victim, err := g.GetPlayer(victimID)
	if err != nil {
		return err
	}

	if attacker.NextRound {
		return ErrActionNotAllowed
	}
	if amount < game.FireAmountMin {
		return ErrInvalidFireAmount
	}
	if attacker.Points <= game.PointsMin || attacker.Points < amount {
		return ErrInsufficientPoints
	}
	if attacker.Position.Distance(victim.Position) > attacker.Range {
		return ErrFireOutOfRange
	}

	heartsAfter := victim.Hearts - amount
	if heartsAfter < game.HeartsMin {
		heartsAfter = game.HeartsMin
	}
	pointsAfter := attacker.Points - amount

	g.AddLog(fmt.Sprintf("%s attacks %s on %d", attacker.Name, victim.Name, amount))

	if err := g.SetPlayerHearts(victimID, heartsAfter); err != nil {
		return err
	}

	if heartsAfter == game.HeartsMin {
		if err := g.SetPlayerDie(victimID); err != nil {
			return err
		}
		g.AddLog(fmt.Sprintf("%s is killed by %s", victim.Name, attacker.Name))
		if victim.Points > game.PointsMin {
			pointsAfter += victim.Points
			g.AddLog(fmt.Sprintf("%s received %d points", attacker.Name, victim.Points))
			if err := g.SetPlayerPoints(victimID, game.PointsMin); err != nil {
				return err
			}
		}
	}

	// The attacker's balance is written last so the auto-confirm rule
	// sees the final value, transfer included.
	return g.SetPlayerPoints(attackerID, pointsAfter)
}
