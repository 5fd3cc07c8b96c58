package game

import "strconv"

// State is the snapshot projection of a game for external consumers.
// Producing it has no side effects.
type State struct {
	GameStarted     bool             `json:"gameStarted"`
	CurrentRound    int              `json:"currentRound"`
	RoundStartAt    string           `json:"roundStartAt"`
	TimeLeftInRound string           `json:"timeLeftInRound"`
	Players         []PlayerSnapshot `json:"players"`
	Winner          *string          `json:"winner"`
	Logs            []string         `json:"logs"`
}

// State returns the current snapshot. Players appear in roster
// insertion order; winner is null until the game ends.
func (g *Game) State() State {
	players := make([]PlayerSnapshot, 0, len(g.players))
	for _, playerID := range g.order {
		players = append(players, g.players[playerID].ToSnapshot())
	}

	var winner *string
	if g.winner != "" {
		winnerID := g.winner
		winner = &winnerID
	}

	return State{
		GameStarted:     g.Started(),
		CurrentRound:    g.CurrentRound(),
		RoundStartAt:    strconv.FormatInt(g.roundStartAt, 10),
		TimeLeftInRound: strconv.FormatInt(g.TimeLeftInRound(), 10),
		Players:         players,
		Winner:          winner,
		Logs:            g.Log(),
	}
}
