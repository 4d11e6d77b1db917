package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population at window end
	Population int `csv:"population"`
	Triangles  int `csv:"triangles"`
	Squares    int `csv:"squares"`
	Pentagons  int `csv:"pentagons"`
	Hexagons   int `csv:"hexagons"`
	Circles    int `csv:"circles"`

	// Events during window
	Respawns int `csv:"respawns"`
	Crowded  int `csv:"crowded"`  // decisions where the neighbor was inside personal space
	Isolated int `csv:"isolated"` // decisions with no neighbor at all

	// Moves taken during window
	MovesUp    int     `csv:"moves_up"`
	MovesDown  int     `csv:"moves_down"`
	MovesRight int     `csv:"moves_right"`
	MovesLeft  int     `csv:"moves_left"`
	Stays      int     `csv:"stays"`
	StayRate   float64 `csv:"stay_rate"`

	// Age distribution (sampled at window end)
	AgeMean float64 `csv:"age_mean"`
	AgeP50  float64 `csv:"age_p50"`
	AgeP90  float64 `csv:"age_p90"`

	// Nearest-neighbor distance distribution (last tick of the window)
	NeighborMean float64 `csv:"neighbor_mean"`
	NeighborStd  float64 `csv:"neighbor_std"`
	NeighborP10  float64 `csv:"neighbor_p10"`
	NeighborP50  float64 `csv:"neighbor_p50"`
	NeighborP90  float64 `csv:"neighbor_p90"`
}

// Percentile returns the p-th quantile of a sorted slice: the smallest value
// with at least a p share of the samples at or below it.
// Returns 0 if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = min(max(p, 0), 1)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Distribution calculates mean, sample standard deviation and percentiles.
func Distribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	if n == 1 {
		mean = sorted[0]
	} else {
		mean, std = stat.MeanStdDev(sorted, nil)
	}

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("population", s.Population),
		slog.Int("triangles", s.Triangles),
		slog.Int("squares", s.Squares),
		slog.Int("pentagons", s.Pentagons),
		slog.Int("hexagons", s.Hexagons),
		slog.Int("circles", s.Circles),
		slog.Int("respawns", s.Respawns),
		slog.Int("crowded", s.Crowded),
		slog.Int("isolated", s.Isolated),
		slog.Float64("stay_rate", s.StayRate),
		slog.Float64("age_mean", s.AgeMean),
		slog.Float64("neighbor_mean", s.NeighborMean),
		slog.Float64("neighbor_p50", s.NeighborP50),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"population", s.Population,
		"triangles", s.Triangles,
		"squares", s.Squares,
		"pentagons", s.Pentagons,
		"hexagons", s.Hexagons,
		"circles", s.Circles,
		"respawns", s.Respawns,
		"crowded", s.Crowded,
		"isolated", s.Isolated,
		"stay_rate", s.StayRate,
		"age_mean", s.AgeMean,
		"age_p90", s.AgeP90,
		"neighbor_mean", s.NeighborMean,
		"neighbor_std", s.NeighborStd,
		"neighbor_p50", s.NeighborP50,
	)
}
