package traits

import (
	"testing"

	"github.com/pthm-cable/clique/components"
	"github.com/pthm-cable/clique/config"
)

func TestNewFixedThresholds(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		kind      components.Kind
		wantSpace int
	}{
		{components.KindTriangle, 80},
		{components.KindSquare, 70},
		{components.KindPentagon, 45},
		{components.KindHexagon, 40},
		{components.KindCircle, 35},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			p := New(tt.kind, cfg)
			if p.PersonalSpace != tt.wantSpace {
				t.Errorf("PersonalSpace = %d, want %d", p.PersonalSpace, tt.wantSpace)
			}
			if p.ShadePreference != 50 || p.ShadeTolerance != 150 {
				t.Errorf("shade thresholds = %d/%d, want 50/150", p.ShadePreference, p.ShadeTolerance)
			}
			if p.KinshipTolerance != 2 {
				t.Errorf("KinshipTolerance = %d, want 2", p.KinshipTolerance)
			}
		})
	}
}

func TestNewUnknownKindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown kind")
		}
	}()
	New(components.Kind(42), config.Default())
}

func TestShadeRules(t *testing.T) {
	p := Personality{ShadePreference: 50, ShadeTolerance: 150}

	tests := []struct {
		name        string
		diffs       [3]int
		wantPrefers bool
		wantRejects bool
	}{
		{"identical", [3]int{0, 0, 0}, true, false},
		{"at preference", [3]int{50, 50, 50}, true, false},
		{"between thresholds", [3]int{100, 100, 100}, false, false},
		{"at tolerance", [3]int{150, 150, 150}, false, false},
		{"beyond tolerance", [3]int{151, 151, 151}, false, true},
		{"one channel disagrees on preference", [3]int{10, 10, 60}, false, false},
		{"one channel disagrees on rejection", [3]int{200, 200, 20}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Prefers(tt.diffs); got != tt.wantPrefers {
				t.Errorf("Prefers(%v) = %v, want %v", tt.diffs, got, tt.wantPrefers)
			}
			if got := p.Rejects(tt.diffs); got != tt.wantRejects {
				t.Errorf("Rejects(%v) = %v, want %v", tt.diffs, got, tt.wantRejects)
			}
		})
	}
}

func TestCrowdedAndEstranged(t *testing.T) {
	p := Personality{PersonalSpace: 10, KinshipTolerance: 2}

	if !p.Crowded(9) {
		t.Error("distance 9 should be crowded with personal space 10")
	}
	if p.Crowded(10) {
		t.Error("distance 10 should not be crowded with personal space 10")
	}
	if !p.Estranged(components.KindTriangle, components.KindHexagon) {
		t.Error("index gap 3 should exceed tolerance 2")
	}
	if p.Estranged(components.KindTriangle, components.KindPentagon) {
		t.Error("index gap 2 should be tolerated")
	}
}
