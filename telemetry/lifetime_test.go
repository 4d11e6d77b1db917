package telemetry

import (
	"testing"

	"github.com/pthm-cable/clique/components"
)

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.Register(7, 100, components.KindHexagon)

	lt.RecordDecision(7, Outcome{Stayed: true, Kin: true})
	lt.RecordDecision(7, Outcome{Crowded: true, Kin: true})
	lt.RecordDecision(7, Outcome{Isolated: true})
	lt.RecordDecision(8, Outcome{Stayed: true}) // unknown agents are ignored

	if lt.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", lt.Count())
	}

	s := lt.Remove(7)
	if s == nil {
		t.Fatal("Remove returned nil")
	}
	if lt.Get(7) != nil || lt.Count() != 0 {
		t.Error("agent still tracked after Remove")
	}

	rec := s.Record(7, 130)
	want := LifetimeRecord{
		ID: 7, Kind: "hexagon", BirthTick: 100, EndTick: 130,
		Moves: 2, Stays: 1, Crowded: 1, Kin: 2, Isolated: 1, KinShare: 2.0 / 3.0,
	}
	if rec != want {
		t.Errorf("Record() = %+v, want %+v", rec, want)
	}
}

func TestKinShareEmpty(t *testing.T) {
	var s LifetimeStats
	if got := s.KinShare(); got != 0 {
		t.Errorf("KinShare() = %v, want 0", got)
	}
}
