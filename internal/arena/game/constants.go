package game

// Canonical game tuning. Every serialized value fits an 8-bit signed
// integer under this configuration.
const (
	// PlayersMin is the default minimum roster size to start a game.
	PlayersMin = 17

	// PointsStart is the action point balance at spawn.
	PointsStart = 0
	// PointsMin is the action point floor; reaching it auto-confirms the turn.
	PointsMin = 0

	// RangeStart is the attack/share reach at spawn.
	RangeStart = 2
	// RangeMin and RangeMax clamp the attack/share reach.
	RangeMin = 1
	RangeMax = 5

	// HeartsStart is the health counter at spawn.
	HeartsStart = 3
	// HeartsMin is the health floor; reaching it means death.
	HeartsMin = 0

	// FireAmountMin, InvestAmountMin and ShareAmountMin are the
	// per-action minimum spend amounts.
	FireAmountMin   = 1
	InvestAmountMin = 1
	ShareAmountMin  = 1
)
