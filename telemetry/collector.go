// Package telemetry provides population statistics, bookmarking, and CSV run output.
package telemetry

import (
	"github.com/pthm-cable/clique/components"
	"github.com/pthm-cable/clique/systems"
)

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	moves    [systems.NumDirections]int
	respawns int
	crowded  int
	isolated int
}

// NewCollector creates a new stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowDurationTicks: int32(windowTicks)}
}

// RecordMove records a resolved direction.
func (c *Collector) RecordMove(d systems.Direction) {
	if d < systems.NumDirections {
		c.moves[d]++
	}
}

// RecordCrowded records a decision made with the neighbor inside personal space.
func (c *Collector) RecordCrowded() {
	c.crowded++
}

// RecordIsolated records a decision made with no neighbor.
func (c *Collector) RecordIsolated() {
	c.isolated++
}

// RecordRespawn records an agent being replaced.
func (c *Collector) RecordRespawn() {
	c.respawns++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// PopulationSample is the state sampled at the end of a window.
type PopulationSample struct {
	Kinds         [components.NumKinds]int
	Ages          []float64
	NeighborDists []float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample PopulationSample) WindowStats {
	population := 0
	for _, n := range sample.Kinds {
		population += n
	}

	totalMoves := 0
	for _, n := range c.moves {
		totalMoves += n
	}
	var stayRate float64
	if totalMoves > 0 {
		stayRate = float64(c.moves[systems.Stay]) / float64(totalMoves)
	}

	ageMean, _, _, ageP50, ageP90 := Distribution(sample.Ages)
	nMean, nStd, nP10, nP50, nP90 := Distribution(sample.NeighborDists)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Population: population,
		Triangles:  sample.Kinds[components.KindTriangle],
		Squares:    sample.Kinds[components.KindSquare],
		Pentagons:  sample.Kinds[components.KindPentagon],
		Hexagons:   sample.Kinds[components.KindHexagon],
		Circles:    sample.Kinds[components.KindCircle],

		Respawns: c.respawns,
		Crowded:  c.crowded,
		Isolated: c.isolated,

		MovesUp:    c.moves[systems.Up],
		MovesDown:  c.moves[systems.Down],
		MovesRight: c.moves[systems.Right],
		MovesLeft:  c.moves[systems.Left],
		Stays:      c.moves[systems.Stay],
		StayRate:   stayRate,

		AgeMean: ageMean,
		AgeP50:  ageP50,
		AgeP90:  ageP90,

		NeighborMean: nMean,
		NeighborStd:  nStd,
		NeighborP10:  nP10,
		NeighborP50:  nP50,
		NeighborP90:  nP90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.moves = [systems.NumDirections]int{}
	c.respawns = 0
	c.crowded = 0
	c.isolated = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
