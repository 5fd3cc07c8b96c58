package game

// Place is a position on the 2D grid. Value type, no identity.
type Place struct {
	X int
	Y int
}

// AsArray returns the position as [x, y] for serialization.
func (p Place) AsArray() []int {
	return []int{p.X, p.Y}
}

// Distance returns the Chebyshev distance to other: the maximum of the
// absolute coordinate deltas. It governs 8-directional movement cost
// and attack/share reach.
func (p Place) Distance(other Place) int {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
