package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.0},
		{"p75", []float64{1, 2, 3, 4, 5, 6, 7, 8}, 0.75, 6.0},
		{"clamped above", []float64{1, 2, 3}, 1.5, 3.0},
		{"clamped below", []float64{1, 2, 3}, -1, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestDistribution(t *testing.T) {
	values := []float64{9, 2, 4, 4, 5, 4, 7, 5}
	mean, std, _, p50, _ := Distribution(values)

	if math.Abs(mean-5) > 0.001 {
		t.Errorf("mean = %v, want 5", mean)
	}
	if want := math.Sqrt(32.0 / 7); math.Abs(std-want) > 0.001 {
		t.Errorf("std = %v, want %v", std, want)
	}
	if p50 != 4 {
		t.Errorf("p50 = %v, want 4", p50)
	}
	// Input is left untouched
	if values[0] != 9 {
		t.Error("Distribution sorted its input in place")
	}
}

func TestDistributionSmall(t *testing.T) {
	if m, s, p10, p50, p90 := Distribution(nil); m != 0 || s != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("expected zeros for empty input")
	}
	m, s, _, p50, _ := Distribution([]float64{42})
	if m != 42 || s != 0 || p50 != 42 {
		t.Errorf("single value: mean %v std %v p50 %v", m, s, p50)
	}
}
