// Package game owns the simulated population and advances it one tick at a time.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/clique/camera"
	"github.com/pthm-cable/clique/components"
	"github.com/pthm-cable/clique/config"
	"github.com/pthm-cable/clique/systems"
	"github.com/pthm-cable/clique/telemetry"
	"github.com/pthm-cable/clique/traits"
)

// seedStream is the second PCG word; the run seed is the first.
const seedStream = 0x9e3779b97f4a7c15

// Options configures a new Game.
type Options struct {
	Config        *config.Config // nil uses config.Cfg()
	Seed          int64
	LogStats      bool
	OutputDir     string // empty disables CSV output
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand
	seed  int64

	agentMapper *ecs.Map6[
		components.Identity,
		components.Position,
		components.Staged,
		components.Body,
		traits.Personality,
		components.Lifespan,
	]
	agentFilter *ecs.Filter6[
		components.Identity,
		components.Position,
		components.Staged,
		components.Body,
		traits.Personality,
		components.Lifespan,
	]

	// Individual component mappers for lookups
	posMap    *ecs.Map1[components.Position]
	stagedMap *ecs.Map1[components.Staged]

	player ecs.Entity
	nextID uint32
	tick   int32

	camera    *camera.Camera
	generator *systems.Generator
	resolver  systems.Resolver
	weights   systems.Weights
	parallel  *parallelState
	expired   []expiredAgent

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	lifetimes        *telemetry.LifetimeTracker
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
}

// New creates a game and seeds the initial population plus the player.
func New(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	rng := rand.New(rand.NewPCG(uint64(opts.Seed), seedStream))

	generator, err := systems.NewGenerator(cfg, rng)
	if err != nil {
		return nil, err
	}
	resolver, err := systems.NewResolver(cfg.Decision.Policy, rng)
	if err != nil {
		return nil, err
	}

	outputManager, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := outputManager.WriteConfig(cfg); err != nil {
		outputManager.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	world := ecs.NewWorld()

	g := &Game{
		cfg:   cfg,
		world: world,
		rng:   rng,
		seed:  opts.Seed,
		agentMapper: ecs.NewMap6[
			components.Identity,
			components.Position,
			components.Staged,
			components.Body,
			traits.Personality,
			components.Lifespan,
		](world),
		agentFilter: ecs.NewFilter6[
			components.Identity,
			components.Position,
			components.Staged,
			components.Body,
			traits.Personality,
			components.Lifespan,
		](world),
		posMap:    ecs.NewMap1[components.Position](world),
		stagedMap: ecs.NewMap1[components.Staged](world),

		camera:    camera.New(cfg.Screen.Width, cfg.Screen.Height),
		generator: generator,
		resolver:  resolver,
		weights:   systems.WeightsFromConfig(cfg),
		parallel:  newParallelState(cfg.Parallel.Threshold),

		collector:        telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		lifetimes:        telemetry.NewLifetimeTracker(),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory),
		outputManager:    outputManager,
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
	}

	if err := g.spawnInitialPopulation(); err != nil {
		outputManager.Close()
		return nil, err
	}

	slog.Debug("game created",
		"seed", opts.Seed,
		"population", cfg.Simulation.Population,
		"policy", cfg.Decision.Policy,
	)
	return g, nil
}

// AdvanceTick runs one simulation step.
//
// Every agent decides from the state at the start of the tick, then all
// moves commit together. Agents past the maximum age are replaced before
// the step returns. An error means a replacement could not be generated;
// the expired agent then stays in place and is retried next tick.
func (g *Game) AdvanceTick() error {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseSnapshot)
	g.takeSnapshot()

	g.perfCollector.StartPhase(telemetry.PhaseDecide)
	g.decide()

	g.perfCollector.StartPhase(telemetry.PhaseCommit)
	expired := g.commitMoves()

	g.perfCollector.StartPhase(telemetry.PhaseRespawn)
	err := g.respawnExpired(expired)

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
	return err
}

// Tick returns the number of completed steps.
func (g *Game) Tick() int32 {
	return g.tick
}

// Seed returns the seed the game was created with.
func (g *Game) Seed() int64 {
	return g.seed
}

// Config returns the game's configuration.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Camera returns the viewport following the player.
func (g *Game) Camera() *camera.Camera {
	return g.camera
}

// Population returns the number of autonomous agents.
func (g *Game) Population() int {
	n := 0
	query := g.agentFilter.Query()
	for query.Next() {
		id, _, _, _, _, _ := query.Get()
		if !id.Player {
			n++
		}
	}
	return n
}

// Close stops the worker pool, dumps the final population and closes output files.
func (g *Game) Close() error {
	g.stopParallelWorkers()

	var errs []error
	if g.outputManager != nil {
		errs = append(errs, g.outputManager.WriteAgents(g.agentRecords()))
		errs = append(errs, g.outputManager.Close())
	}
	return errors.Join(errs...)
}
