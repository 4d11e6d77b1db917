// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/clique/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Decision policies.
const (
	PolicyWeighted = "weighted"
	PolicyArgMax   = "argmax"
)

// Color modes.
const (
	ColorGray = "gray"
	ColorRGB  = "rgb"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig           `yaml:"screen"`
	Simulation  SimulationConfig       `yaml:"simulation"`
	Player      PlayerConfig           `yaml:"player"`
	Shapes      map[string]ShapeConfig `yaml:"shapes"`
	Generation  GenerationConfig       `yaml:"generation"`
	Personality PersonalityConfig      `yaml:"personality"`
	Decision    DecisionConfig         `yaml:"decision"`
	Parallel    ParallelConfig         `yaml:"parallel"`
	Telemetry   TelemetryConfig        `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds the visible area. The core only uses it for spawn bounds.
type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SimulationConfig holds population and timing parameters.
type SimulationConfig struct {
	TickPeriodMS int   `yaml:"tick_period_ms"` // owned by the tick source, not the core
	Population   int   `yaml:"population"`     // autonomous agents (player excluded)
	MaxAge       int   `yaml:"max_age"`
	Seed         int64 `yaml:"seed"` // 0 = time-based
}

// PlayerConfig holds the player's shape and input displacement.
type PlayerConfig struct {
	Movement int `yaml:"movement"`
	Radius   int `yaml:"radius"`
}

// ShapeConfig is the size distribution of one kind.
// A shapes entry in a user file replaces the default entry as a whole.
type ShapeConfig struct {
	Mean float64 `yaml:"mean"`
	Dev  float64 `yaml:"dev"`
}

// GenerationConfig holds agent generation parameters.
type GenerationConfig struct {
	Kinds            []string `yaml:"kinds"`             // walk order, last entry is terminal
	SpawnProbability float64  `yaml:"spawn_probability"` // stop chance per non-terminal kind
	SpawnMargin      int      `yaml:"spawn_margin"`
	ColorMode        string   `yaml:"color_mode"`
	MaxResample      int      `yaml:"max_resample"`
}

// PersonalityConfig holds the fixed personality thresholds.
type PersonalityConfig struct {
	ShadePreference  int `yaml:"shade_preference"`
	ShadeTolerance   int `yaml:"shade_tolerance"`
	KinshipTolerance int `yaml:"kinship_tolerance"`
}

// DecisionConfig holds vote weights and the resolution policy.
type DecisionConfig struct {
	Policy          string `yaml:"policy"`
	StayBaseline    int    `yaml:"stay_baseline"`
	ProximityWeight int    `yaml:"proximity_weight"`
	KinshipWeight   int    `yaml:"kinship_weight"`
	ShadeWeight     int    `yaml:"shade_weight"`
}

// ParallelConfig holds decide-phase parallelism settings.
type ParallelConfig struct {
	Threshold int `yaml:"threshold"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow     int `yaml:"stats_window"`
	PerfWindow      int `yaml:"perf_window"`
	BookmarkHistory int `yaml:"bookmark_history"` // windows averaged by the bookmark detector
}

// ShapeStats is a validated per-kind size entry.
type ShapeStats struct {
	Mean float64
	Dev  float64
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	KindOrder  []components.Kind                 // parsed generation.kinds
	Shapes     [components.NumKinds]ShapeStats   // indexed by kind
	TickPeriod time.Duration
}

// Shape returns the size entry of a kind. Unknown kinds panic: every kind
// is guaranteed an entry by validation.
func (c *Config) Shape(k components.Kind) ShapeStats {
	if !k.Valid() {
		panic(fmt.Sprintf("config: no shape entry for %v", k))
	}
	return c.Derived.Shapes[k]
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize validates the config and recomputes derived values.
// Call it after changing fields by hand.
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	c.computeDerived()
	return nil
}

// Validate reports every configuration defect found.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		add("screen: size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Simulation.Population < 1 {
		add("simulation.population: need at least one agent, got %d", c.Simulation.Population)
	}
	if c.Simulation.MaxAge < 0 {
		add("simulation.max_age: must not be negative, got %d", c.Simulation.MaxAge)
	}
	if c.Simulation.TickPeriodMS <= 0 {
		add("simulation.tick_period_ms: must be positive, got %d", c.Simulation.TickPeriodMS)
	}
	if c.Player.Radius <= 0 {
		add("player.radius: must be positive, got %d", c.Player.Radius)
	}

	for _, k := range components.AllKinds {
		s, ok := c.Shapes[k.String()]
		if !ok {
			add("shapes: missing entry for %s", k)
			continue
		}
		if s.Mean <= 0 {
			add("shapes.%s.mean: must be positive, got %v", k, s.Mean)
		}
		if s.Dev < 0 {
			add("shapes.%s.dev: must not be negative, got %v", k, s.Dev)
		}
	}
	for name := range c.Shapes {
		if _, err := components.ParseKind(name); err != nil {
			add("shapes: %v", err)
		}
	}

	gen := c.Generation
	if len(gen.Kinds) == 0 {
		add("generation.kinds: must list at least one kind")
	}
	seen := make(map[string]bool, len(gen.Kinds))
	for _, name := range gen.Kinds {
		if _, err := components.ParseKind(name); err != nil {
			add("generation.kinds: %v", err)
		}
		if seen[name] {
			add("generation.kinds: %q listed twice", name)
		}
		seen[name] = true
	}
	if len(gen.Kinds) > 1 && (gen.SpawnProbability <= 0 || gen.SpawnProbability >= 1) {
		add("generation.spawn_probability: must be in (0, 1), got %v", gen.SpawnProbability)
	}
	if gen.SpawnMargin < 0 {
		add("generation.spawn_margin: must not be negative, got %d", gen.SpawnMargin)
	}
	if gen.ColorMode != ColorGray && gen.ColorMode != ColorRGB {
		add("generation.color_mode: unknown mode %q", gen.ColorMode)
	}
	if gen.MaxResample < 1 {
		add("generation.max_resample: must be at least 1, got %d", gen.MaxResample)
	}

	d := c.Decision
	if d.Policy != PolicyWeighted && d.Policy != PolicyArgMax {
		add("decision.policy: unknown policy %q", d.Policy)
	}
	if d.StayBaseline < 1 {
		add("decision.stay_baseline: must be at least 1, got %d", d.StayBaseline)
	}
	if d.ProximityWeight < 0 || d.KinshipWeight < 0 || d.ShadeWeight < 0 {
		add("decision: weights must not be negative")
	}

	if c.Telemetry.StatsWindow < 1 {
		add("telemetry.stats_window: must be at least 1, got %d", c.Telemetry.StatsWindow)
	}

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.KindOrder = c.Derived.KindOrder[:0]
	for _, name := range c.Generation.Kinds {
		k, _ := components.ParseKind(name)
		c.Derived.KindOrder = append(c.Derived.KindOrder, k)
	}
	for _, k := range components.AllKinds {
		s := c.Shapes[k.String()]
		c.Derived.Shapes[k] = ShapeStats{Mean: s.Mean, Dev: s.Dev}
	}
	c.Derived.TickPeriod = time.Duration(c.Simulation.TickPeriodMS) * time.Millisecond
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Shapes = make(map[string]ShapeConfig, len(c.Shapes))
	for name, s := range c.Shapes {
		out.Shapes[name] = s
	}
	out.Generation.Kinds = slices.Clone(c.Generation.Kinds)
	out.Derived.KindOrder = slices.Clone(c.Derived.KindOrder)
	return &out
}
