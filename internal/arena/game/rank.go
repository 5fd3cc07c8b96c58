package game

import (
	"fmt"
	"sort"
)

// Place returns a player's 1-based rank among living players by points,
// formatted with an ordinal suffix.
func (g *Game) Place(playerID string) (string, error) {
	if _, err := g.GetPlayer(playerID); err != nil {
		return "", err
	}

	rank := 0
	for i, living := range g.livingByPoints() {
		if living.ID == playerID {
			rank = i + 1
			break
		}
	}

	suffix := "th"
	switch rank % 10 {
	case 1:
		suffix = "st"
	case 2:
		suffix = "nd"
	}
	return fmt.Sprintf("%d%s", rank, suffix), nil
}

// Leader returns the living player with the most points.
func (g *Game) Leader() (Player, error) {
	living := g.livingByPoints()
	if len(living) == 0 {
		return Player{}, ErrPlayerNotFound
	}
	return living[0], nil
}

// livingByPoints returns copies of living players sorted by points,
// highest first, stable on roster order.
func (g *Game) livingByPoints() []Player {
	living := make([]Player, 0, len(g.players))
	for _, playerID := range g.order {
		player := g.players[playerID]
		if player.Died {
			continue
		}
		living = append(living, *player)
	}
	sort.SliceStable(living, func(i, j int) bool {
		return living[i].Points > living[j].Points
	})
	return living
}
