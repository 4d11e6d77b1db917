// Package main provides CMA-ES tuning of the decision parameters.
package main

import (
	"math"

	"github.com/pthm-cable/clique/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Vote weights (stay_baseline locked at 1)
			{Name: "proximity_weight", Path: "decision.proximity_weight", Min: 0, Max: 8, Default: 2},
			{Name: "kinship_weight", Path: "decision.kinship_weight", Min: 0, Max: 8, Default: 1},
			{Name: "shade_weight", Path: "decision.shade_weight", Min: 0, Max: 8, Default: 1},
			// Personality
			{Name: "shade_preference", Path: "personality.shade_preference", Min: 5, Max: 120, Default: 50},
			{Name: "shade_tolerance", Path: "personality.shade_tolerance", Min: 60, Max: 250, Default: 150},
			{Name: "kinship_tolerance", Path: "personality.kinship_tolerance", Min: 0, Max: 4, Default: 2},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds and rounds them to the
// integers the config stores.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Round(min(max(v[i], spec.Min), spec.Max))
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)

	cfg.Decision.StayBaseline = 1
	cfg.Decision.ProximityWeight = int(c[0])
	cfg.Decision.KinshipWeight = int(c[1])
	cfg.Decision.ShadeWeight = int(c[2])

	cfg.Personality.ShadePreference = int(c[3])
	cfg.Personality.ShadeTolerance = max(int(c[4]), int(c[3]))
	cfg.Personality.KinshipTolerance = int(c[5])
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		float64(cfg.Decision.ProximityWeight),
		float64(cfg.Decision.KinshipWeight),
		float64(cfg.Decision.ShadeWeight),
		float64(cfg.Personality.ShadePreference),
		float64(cfg.Personality.ShadeTolerance),
		float64(cfg.Personality.KinshipTolerance),
	}
}
