package components

// Identity is the stable handle of an agent. IDs are never reused, so they
// double as the tie-break order for neighbor search.
type Identity struct {
	ID     uint32
	Player bool // exempt from decisions, aging and respawn
}

// Lifespan counts the ticks an agent has been processed.
type Lifespan struct {
	Age int
}

// Expired reports whether the agent has outlived maxAge.
func (l Lifespan) Expired(maxAge int) bool {
	return l.Age > maxAge
}
