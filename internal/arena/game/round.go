package game

import (
	"fmt"
	"strconv"

	apperrors "github.com/louisbranch/stanks.space/internal/platform/errors"
)

// StartNextRound advances the round lifecycle. The state machine is
// implicit: Lobby (round 0, waiting for the roster), Active (round >= 1,
// no winner), Ended (winner set).
//
// The call fails in Lobby with too few players and after the game has
// ended. With exactly one living player it records the winner without
// advancing the round counter. Otherwise it advances only when every
// living player confirmed their turn or the round deadline elapsed;
// when neither holds the call is a no-op so idle polling is safe.
func (g *Game) StartNextRound() error {
	if !g.Started() && g.PlayersCount() < g.config.MinPlayers {
		return apperrors.WithMetadata(
			apperrors.CodeNotEnoughPlayers,
			fmt.Sprintf(
				"Waiting for more players to join before starting the game. Currently, %d of the required %d players have joined",
				g.PlayersCount(), g.config.MinPlayers,
			),
			map[string]string{
				"current":  strconv.Itoa(g.PlayersCount()),
				"required": strconv.Itoa(g.config.MinPlayers),
			},
		)
	}

	if g.winner != "" {
		return ErrGameEnded
	}

	if g.PlayersCount() == 1 {
		for _, playerID := range g.order {
			player := g.players[playerID]
			if player.Died {
				continue
			}
			g.winner = player.ID
			g.AddLog(fmt.Sprintf("The winner is %s", player.Name))
			return nil
		}
		return nil
	}

	allConfirmed := true
	for _, playerID := range g.order {
		player := g.players[playerID]
		if !player.NextRound && !player.Died {
			allConfirmed = false
			break
		}
	}

	if !allConfirmed && g.TimeLeftInRound() != 0 {
		return nil
	}

	token, err := g.newID()
	if err != nil {
		return fmt.Errorf("new round token: %w", err)
	}
	g.rounds = append(g.rounds, token)
	g.roundStartAt = g.now().UnixMilli()

	g.AddLog(fmt.Sprintf("Round %d has started", g.CurrentRound()))

	// Points are not granted to players who never confirmed their move;
	// they also keep their pending nextRound state.
	for _, playerID := range g.order {
		player := g.players[playerID]
		if !player.NextRound {
			continue
		}
		if err := g.SetPlayerPoints(playerID, player.Points+1); err != nil {
			return err
		}
		if err := g.ConfirmMove(playerID, false); err != nil {
			return err
		}
	}
	return nil
}
