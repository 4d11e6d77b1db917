package game

import (
	"log/slog"

	"github.com/pthm-cable/clique/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.samplePopulation())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// samplePopulation collects kind counts, ages and the neighbor distances of
// the last decide phase.
func (g *Game) samplePopulation() telemetry.PopulationSample {
	var sample telemetry.PopulationSample

	query := g.agentFilter.Query()
	for query.Next() {
		id, _, _, body, _, life := query.Get()
		if id.Player {
			continue
		}
		sample.Kinds[body.Kind]++
		sample.Ages = append(sample.Ages, float64(life.Age))
	}

	for i := range g.parallel.intents {
		if in := &g.parallel.intents[i]; in.HasNeighbor {
			sample.NeighborDists = append(sample.NeighborDists, float64(in.Dist))
		}
	}
	return sample
}
