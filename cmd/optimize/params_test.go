package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/clique/components"
	"github.com/pthm-cable/clique/config"
	"github.com/pthm-cable/clique/game"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestApplyToConfigProducesValidConfig(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	// Out of range values clamp; a tolerance below the preference is lifted
	pv.ApplyToConfig(cfg, []float64{-3, 2.6, 100, 110, 70, 9})
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.Decision.ProximityWeight != 0 || cfg.Decision.KinshipWeight != 3 || cfg.Decision.ShadeWeight != 8 {
		t.Errorf("weights = %+v", cfg.Decision)
	}
	if cfg.Personality.ShadeTolerance < cfg.Personality.ShadePreference {
		t.Errorf("tolerance %d below preference %d", cfg.Personality.ShadeTolerance, cfg.Personality.ShadePreference)
	}
	if cfg.Personality.KinshipTolerance != 4 {
		t.Errorf("kinship tolerance = %d, want 4", cfg.Personality.KinshipTolerance)
	}
}

func TestExtractMatchesDefaults(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Default())
	want := pv.DefaultVector()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: extracted %v, default %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestKinRatio(t *testing.T) {
	view := func(id uint32, x int, kind components.Kind) game.AgentView {
		return game.AgentView{
			ID:       id,
			Position: components.Position{X: x},
			Body:     components.Body{Kind: kind, Extent: 10},
		}
	}
	agents := []game.AgentView{
		view(1, 0, components.KindSquare),
		view(2, 10, components.KindSquare),
		view(3, 100, components.KindTriangle),
		view(4, 115, components.KindCircle),
	}
	if got := kinRatio(agents); got != 0.5 {
		t.Errorf("kinRatio = %v, want 0.5", got)
	}
	if got := kinRatio(nil); got != 0 {
		t.Errorf("kinRatio(nil) = %v, want 0", got)
	}
}

func TestComputeQualityBounds(t *testing.T) {
	if q := computeQuality(nil); q != 0 {
		t.Errorf("nil run quality = %v", q)
	}
	perfect := &runResult{kinRatio: 1}
	if q := computeQuality(perfect); q < qualityWeightKin || q > 1 {
		t.Errorf("quality %v out of range", q)
	}
}
