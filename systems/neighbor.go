// Package systems provides the per-agent rules of the simulation: neighbor
// search, voting, vote resolution and agent generation.
package systems

import (
	"github.com/pthm-cable/clique/components"
	"github.com/pthm-cable/clique/traits"
)

// Snapshot is the read-only state of one agent at the start of a tick.
type Snapshot struct {
	ID      uint32
	Player  bool
	Pos     components.Position
	Body    components.Body
	Persona traits.Personality
}

// Relation describes the nearest neighbor of an agent.
// DX and DY are self minus neighbor: a positive DX means the neighbor lies
// to the left, a positive DY means it lies above (y grows downward).
type Relation struct {
	Neighbor Snapshot
	DX, DY   int
	Dist     int // Manhattan distance, |DX| + |DY|
}

// Nearest returns the agent closest to self by Manhattan distance.
// Every other agent is a candidate regardless of distance. Ties go to the
// lowest ID, so the result does not depend on the order of population.
// ok is false when population holds nobody but self.
func Nearest(self Snapshot, population []Snapshot) (rel Relation, ok bool) {
	for i := range population {
		other := &population[i]
		if other.ID == self.ID {
			continue
		}
		d := components.Manhattan(self.Pos, other.Pos)
		if !ok || closer(d, other.ID, rel.Dist, rel.Neighbor.ID) {
			rel = relate(self, *other, d)
			ok = true
		}
	}
	return rel, ok
}

// closer orders candidates by distance, then by ID.
func closer(d int, id uint32, bestD int, bestID uint32) bool {
	if d != bestD {
		return d < bestD
	}
	return id < bestID
}

func relate(self, other Snapshot, dist int) Relation {
	dx, dy := components.Offset(self.Pos, other.Pos)
	return Relation{Neighbor: other, DX: dx, DY: dy, Dist: dist}
}
