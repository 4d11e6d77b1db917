package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/clique/components"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Simulation.Population != 50 {
		t.Errorf("population = %d, want 50", cfg.Simulation.Population)
	}
	if cfg.Simulation.MaxAge != 10000 {
		t.Errorf("max_age = %d, want 10000", cfg.Simulation.MaxAge)
	}
	if cfg.Player.Movement != 2 {
		t.Errorf("player.movement = %d, want 2", cfg.Player.Movement)
	}
	if cfg.Decision.Policy != PolicyWeighted {
		t.Errorf("decision.policy = %q, want %q", cfg.Decision.Policy, PolicyWeighted)
	}
	if cfg.Derived.TickPeriod != 25*time.Millisecond {
		t.Errorf("tick period = %v, want 25ms", cfg.Derived.TickPeriod)
	}
	if len(cfg.Derived.KindOrder) != components.NumKinds {
		t.Fatalf("kind order has %d kinds, want %d", len(cfg.Derived.KindOrder), components.NumKinds)
	}
	if cfg.Derived.KindOrder[len(cfg.Derived.KindOrder)-1] != components.KindCircle {
		t.Errorf("terminal kind = %v, want circle", cfg.Derived.KindOrder[len(cfg.Derived.KindOrder)-1])
	}
	if got := cfg.Shape(components.KindTriangle).Mean; got != 80 {
		t.Errorf("triangle mean = %v, want 80", got)
	}
	if got := cfg.Shape(components.KindCircle).Dev; got != 5 {
		t.Errorf("circle dev = %v, want 5", got)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
simulation:
  population: 7
decision:
  policy: argmax
shapes:
  circle: {mean: 12, dev: 1}
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Simulation.Population != 7 {
		t.Errorf("population = %d, want 7", cfg.Simulation.Population)
	}
	// Untouched keys keep their defaults
	if cfg.Simulation.MaxAge != 10000 {
		t.Errorf("max_age = %d, want default 10000", cfg.Simulation.MaxAge)
	}
	if cfg.Decision.Policy != PolicyArgMax {
		t.Errorf("policy = %q, want argmax", cfg.Decision.Policy)
	}
	if got := cfg.Shape(components.KindCircle).Mean; got != 12 {
		t.Errorf("circle mean = %v, want 12", got)
	}
	if got := cfg.Shape(components.KindSquare).Mean; got != 70 {
		t.Errorf("square mean = %v, want default 70", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"missing kind entry", func(c *Config) { delete(c.Shapes, "hexagon") }, "missing entry for hexagon"},
		{"unknown kind entry", func(c *Config) { c.Shapes["star"] = ShapeConfig{Mean: 1} }, "unknown shape kind"},
		{"non-positive mean", func(c *Config) { c.Shapes["square"] = ShapeConfig{Mean: 0, Dev: 1} }, "shapes.square.mean"},
		{"probability of one", func(c *Config) { c.Generation.SpawnProbability = 1 }, "spawn_probability"},
		{"single kind ignores probability", func(c *Config) {
			c.Generation.Kinds = []string{"circle"}
			c.Generation.SpawnProbability = 0
		}, ""},
		{"duplicate kind", func(c *Config) { c.Generation.Kinds = []string{"square", "square"} }, "listed twice"},
		{"unknown policy", func(c *Config) { c.Decision.Policy = "vote" }, "unknown policy"},
		{"unknown color mode", func(c *Config) { c.Generation.ColorMode = "cmyk" }, "unknown mode"},
		{"zero stay baseline", func(c *Config) { c.Decision.StayBaseline = 0 }, "stay_baseline"},
		{"empty population", func(c *Config) { c.Simulation.Population = 0 }, "population"},
		{"negative max age", func(c *Config) { c.Simulation.MaxAge = -1 }, "max_age"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestFinalizeRecomputesDerived(t *testing.T) {
	cfg := Default()
	cfg.Generation.Kinds = []string{"square", "hexagon"}
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}
	want := []components.Kind{components.KindSquare, components.KindHexagon}
	if len(cfg.Derived.KindOrder) != len(want) {
		t.Fatalf("kind order = %v, want %v", cfg.Derived.KindOrder, want)
	}
	for i := range want {
		if cfg.Derived.KindOrder[i] != want[i] {
			t.Errorf("kind order[%d] = %v, want %v", i, cfg.Derived.KindOrder[i], want[i])
		}
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Simulation.Population = 3
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Simulation.Population != 3 {
		t.Errorf("population = %d, want 3", loaded.Simulation.Population)
	}
}

func TestCfgBeforeInitPanics(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Cfg()
}

func TestCloneIsDeep(t *testing.T) {
	cfg := Default()
	c := cfg.Clone()
	c.Shapes["circle"] = ShapeConfig{Mean: 1, Dev: 0}
	c.Generation.Kinds[0] = "circle"
	c.Decision.KinshipWeight = 9

	if cfg.Shapes["circle"].Mean == 1 {
		t.Error("clone shares the shapes map")
	}
	if cfg.Generation.Kinds[0] != "triangle" {
		t.Error("clone shares the kinds slice")
	}
	if cfg.Decision.KinshipWeight == 9 {
		t.Error("clone shares decision weights")
	}
}
