package game

// Player is a participant in the arena. The ID is assigned once at
// creation and never changes; all other fields mutate only through the
// Game mutators.
type Player struct {
	ID        string
	Position  Place
	Points    int
	Hearts    int
	Range     int
	Name      string
	AvatarRef string
	NextRound bool
	Died      bool
}

// PlayerSnapshot is the serialized player shape exposed in state snapshots.
type PlayerSnapshot struct {
	ID        string `json:"id"`
	Position  []int  `json:"position"`
	Range     int    `json:"range"`
	Hearts    int    `json:"hearts"`
	Points    int    `json:"points"`
	Name      string `json:"name"`
	AvatarRef string `json:"avatarRef"`
	NextRound bool   `json:"nextRound"`
	Died      bool   `json:"died"`
}

// ToSnapshot returns the serialized form of the player.
func (p Player) ToSnapshot() PlayerSnapshot {
	return PlayerSnapshot{
		ID:        p.ID,
		Position:  p.Position.AsArray(),
		Range:     p.Range,
		Hearts:    p.Hearts,
		Points:    p.Points,
		Name:      p.Name,
		AvatarRef: p.AvatarRef,
		NextRound: p.NextRound,
		Died:      p.Died,
	}
}
