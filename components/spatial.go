package components

// Position represents an agent's committed world position.
type Position struct {
	X, Y int
}

// Staged is the position an agent moves to when the current tick commits.
// Only the decide phase writes it.
type Staged struct {
	X, Y int
}

// Manhattan returns |dx| + |dy| between two positions.
func Manhattan(a, b Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Offset returns the signed axis distances from other to p (p - other).
// A positive dx means other lies to the left of p; a positive dy means it lies above.
func Offset(p, other Position) (dx, dy int) {
	return p.X - other.X, p.Y - other.Y
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
