package telemetry

import (
	"testing"

	"github.com/pthm-cable/clique/components"
	"github.com/pthm-cable/clique/systems"
)

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(10)

	if c.ShouldFlush(9) {
		t.Error("flush requested before the window ended")
	}
	if !c.ShouldFlush(10) {
		t.Error("flush not requested at window end")
	}

	for _, d := range []systems.Direction{systems.Up, systems.Stay, systems.Stay, systems.Left} {
		c.RecordMove(d)
	}
	c.RecordCrowded()
	c.RecordIsolated()
	c.RecordRespawn()
	c.RecordRespawn()

	var sample PopulationSample
	sample.Kinds[components.KindSquare] = 3
	sample.Kinds[components.KindCircle] = 1
	sample.Ages = []float64{1, 2, 3, 10}
	sample.NeighborDists = []float64{5, 5}

	stats := c.Flush(10, sample)

	if stats.WindowStartTick != 0 || stats.WindowEndTick != 10 {
		t.Errorf("window = [%d, %d], want [0, 10]", stats.WindowStartTick, stats.WindowEndTick)
	}
	if stats.Population != 4 || stats.Squares != 3 || stats.Circles != 1 {
		t.Errorf("population %d squares %d circles %d", stats.Population, stats.Squares, stats.Circles)
	}
	if stats.MovesUp != 1 || stats.MovesLeft != 1 || stats.Stays != 2 {
		t.Errorf("moves up %d left %d stays %d", stats.MovesUp, stats.MovesLeft, stats.Stays)
	}
	if stats.StayRate != 0.5 {
		t.Errorf("stay rate = %v, want 0.5", stats.StayRate)
	}
	if stats.Respawns != 2 || stats.Crowded != 1 || stats.Isolated != 1 {
		t.Errorf("respawns %d crowded %d isolated %d", stats.Respawns, stats.Crowded, stats.Isolated)
	}
	if stats.AgeMean != 4 {
		t.Errorf("age mean = %v, want 4", stats.AgeMean)
	}
	if stats.NeighborMean != 5 || stats.NeighborStd != 0 {
		t.Errorf("neighbor mean %v std %v", stats.NeighborMean, stats.NeighborStd)
	}

	// Counters reset for the next window
	next := c.Flush(20, PopulationSample{})
	if next.WindowStartTick != 10 {
		t.Errorf("next window starts at %d, want 10", next.WindowStartTick)
	}
	if next.Respawns != 0 || next.Stays != 0 || next.StayRate != 0 {
		t.Error("counters were not reset")
	}
}

func TestNewCollectorMinimumWindow(t *testing.T) {
	if c := NewCollector(0); c.WindowDurationTicks() != 1 {
		t.Errorf("window = %d, want 1", c.WindowDurationTicks())
	}
}
