package main

import (
	"fmt"
	"math"
	"sync"

	"github.com/pthm-cable/clique/config"
	"github.com/pthm-cable/clique/game"
	"github.com/pthm-cable/clique/systems"
	"github.com/pthm-cable/clique/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	ticks      int
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, ticks int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		ticks:      ticks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	windowStats []telemetry.WindowStats // collected via StatsCallback each window
	kinRatio    float64                 // share of agents whose nearest neighbor is kin at the end
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Runs that fail to build or advance score zero quality.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r, err := fe.runSimulation(x, s)
			if err != nil {
				fmt.Printf("seed %d: %v\n", s, err)
				return
			}
			results[idx] = computeQuality(r)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, q := range results {
		total += q
	}
	quality := total / float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = quality
	fe.mu.Unlock()

	return -quality
}

// runSimulation executes a single headless simulation run.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) (*runResult, error) {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	// Seeds already run concurrently
	cfg.Parallel.Threshold = math.MaxInt

	result := &runResult{}
	g, err := game.New(game.Options{
		Config: cfg,
		Seed:   seed,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	defer g.Close()

	for i := 0; i < fe.ticks; i++ {
		if err := g.AdvanceTick(); err != nil {
			return nil, err
		}
	}

	result.kinRatio = kinRatio(g.Agents())
	return result, nil
}

// kinRatio returns the share of autonomous agents whose nearest neighbor
// has the same kind.
func kinRatio(agents []game.AgentView) float64 {
	snaps := make([]systems.Snapshot, len(agents))
	for i, a := range agents {
		snaps[i] = systems.Snapshot{ID: a.ID, Player: a.Player, Pos: a.Position, Body: a.Body}
	}
	index := systems.NewNeighborIndex(snaps)

	var kin, total int
	for _, s := range snaps {
		if s.Player {
			continue
		}
		rel, ok := index.Nearest(s)
		if !ok {
			continue
		}
		total++
		if rel.Neighbor.Body.Kind == s.Body.Kind {
			kin++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(kin) / float64(total)
}

// Quality component weights.
const (
	qualityWeightKin      = 0.60
	qualityWeightCohesion = 0.25
	qualityWeightActivity = 0.15

	qualityWarmupWindows = 1 // skip first N windows (warmup)
	cohesionScale        = 150.0
)

// computeQuality scores a run in [0, 1]. Kin clustering dominates; tight
// neighborhoods and agents that keep moving add the rest.
func computeQuality(r *runResult) float64 {
	if r == nil {
		return 0
	}
	windows := r.windowStats
	if len(windows) > qualityWarmupWindows {
		windows = windows[qualityWarmupWindows:]
	}

	var cohesion, activity float64
	for _, w := range windows {
		cohesion += math.Exp(-w.NeighborP50 / cohesionScale)
		activity += 1 - w.StayRate
	}
	if n := float64(len(windows)); n > 0 {
		cohesion /= n
		activity /= n
	}

	quality := qualityWeightKin*r.kinRatio +
		qualityWeightCohesion*cohesion +
		qualityWeightActivity*activity
	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
