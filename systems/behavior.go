package systems

import (
	"fmt"

	"github.com/pthm-cable/clique/components"
	"github.com/pthm-cable/clique/config"
)

// Direction is a one-unit move on the grid, or no move.
type Direction uint8

// Directions in vote order.
const (
	Up Direction = iota
	Down
	Right
	Left
	Stay

	NumDirections = 5
)

var directionNames = [NumDirections]string{"up", "down", "right", "left", "stay"}

func (d Direction) String() string {
	if d >= NumDirections {
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
	return directionNames[d]
}

// Delta returns the unit displacement of d. Up decreases y.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Right:
		return 1, 0
	case Left:
		return -1, 0
	}
	return 0, 0
}

// Opposite returns the reverse move. Stay is its own opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Right:
		return Left
	case Left:
		return Right
	}
	return Stay
}

// Move applies one step in direction d to p.
func Move(p components.Position, d Direction) components.Staged {
	dx, dy := d.Delta()
	return components.Staged{X: p.X + dx, Y: p.Y + dy}
}

// Approach returns the move that closes the dominant axis of the offset
// (dx, dy) = self - neighbor. Equal magnitudes resolve on the y axis.
func Approach(dx, dy int) Direction {
	switch {
	case dx == 0 && dy == 0:
		return Stay
	case abs(dx) > abs(dy):
		if dx > 0 {
			return Left
		}
		return Right
	case dy > 0:
		return Up
	default:
		return Down
	}
}

// Avoid returns the move that widens the dominant axis of the offset.
func Avoid(dx, dy int) Direction {
	switch {
	case dx == 0 && dy == 0:
		return Stay
	case abs(dx) > abs(dy):
		if dx > 0 {
			return Right
		}
		return Left
	case dy > 0:
		return Down
	default:
		return Up
	}
}

// Votes holds one count per direction, indexed by Direction.
type Votes [NumDirections]int

// Total returns the sum of all votes.
func (v Votes) Total() int {
	n := 0
	for _, c := range v {
		n += c
	}
	return n
}

// Float64s returns the votes as sampling weights.
func (v Votes) Float64s() []float64 {
	w := make([]float64, NumDirections)
	for i, c := range v {
		w[i] = float64(c)
	}
	return w
}

// Weights are the vote increments of each rule.
type Weights struct {
	StayBaseline int
	Proximity    int
	Kinship      int
	Shade        int
}

// DefaultWeights are the stock rule increments.
var DefaultWeights = Weights{StayBaseline: 1, Proximity: 2, Kinship: 1, Shade: 1}

// WeightsFromConfig reads the rule increments from the decision config.
func WeightsFromConfig(cfg *config.Config) Weights {
	d := cfg.Decision
	return Weights{
		StayBaseline: d.StayBaseline,
		Proximity:    d.ProximityWeight,
		Kinship:      d.KinshipWeight,
		Shade:        d.ShadeWeight,
	}
}

// Tally runs the voting rules for self against its nearest neighbor.
//
// Proximity, kinship and shade each vote independently. When self and the
// neighbor share a position every vote lands on Stay.
func Tally(self Snapshot, rel Relation, w Weights) Votes {
	var v Votes
	v[Stay] = w.StayBaseline

	toward := Approach(rel.DX, rel.DY)
	away := Avoid(rel.DX, rel.DY)
	if toward == away && (rel.DX != 0 || rel.DY != 0) {
		panic(fmt.Sprintf("systems: approach and avoid agree (%v) for offset (%d, %d)", toward, rel.DX, rel.DY))
	}

	persona := self.Persona
	other := rel.Neighbor

	if persona.Crowded(rel.Dist) {
		v[away] += w.Proximity
	}

	if self.Body.Kind == other.Body.Kind {
		v[toward] += w.Kinship
	} else if persona.Estranged(self.Body.Kind, other.Body.Kind) {
		v[away] += w.Kinship
	}

	diffs := self.Body.Color.ChannelDiffs(other.Body.Color)
	if persona.Prefers(diffs) {
		v[toward] += w.Shade
	} else if persona.Rejects(diffs) {
		v[away] += w.Shade
	}

	return v
}

// Idle returns the votes of an agent with no neighbor.
func Idle(w Weights) Votes {
	var v Votes
	v[Stay] = w.StayBaseline
	return v
}

// Decision is the outcome of one agent's decide step.
type Decision struct {
	Votes       Votes
	Direction   Direction
	Neighbor    uint32 // valid when HasNeighbor
	HasNeighbor bool
	Dist        int
}

// Decide tallies and resolves a single decision.
func Decide(self Snapshot, rel Relation, w Weights, r Resolver) Direction {
	return r.Resolve(Tally(self, rel, w))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
