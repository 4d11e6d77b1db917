// Package traits defines the behavioral thresholds an agent carries for life.
package traits

import (
	"fmt"
	"math"

	"github.com/pthm-cable/clique/components"
	"github.com/pthm-cable/clique/config"
)

// Personality is an immutable bundle of thresholds assigned at creation.
// It is a value type: every agent owns its own copy.
type Personality struct {
	KinshipTolerance int // largest kind index gap tolerated before repulsion
	ShadePreference  int // color difference still attractive
	ShadeTolerance   int // color difference beyond which the neighbor repels
	PersonalSpace    int // Manhattan distance below which proximity repels
}

// New builds the fixed-threshold personality of a kind. The shade and
// kinship thresholds are shared constants; personal space is the kind's
// mean size.
func New(kind components.Kind, cfg *config.Config) Personality {
	if !kind.Valid() {
		panic(fmt.Sprintf("traits: unknown kind %d", kind))
	}
	p := cfg.Personality
	return Personality{
		KinshipTolerance: p.KinshipTolerance,
		ShadePreference:  p.ShadePreference,
		ShadeTolerance:   p.ShadeTolerance,
		PersonalSpace:    int(math.Round(cfg.Shape(kind).Mean)),
	}
}

// Prefers reports whether every channel difference is within the shade preference.
func (p Personality) Prefers(diffs [3]int) bool {
	for _, d := range diffs {
		if d > p.ShadePreference {
			return false
		}
	}
	return true
}

// Rejects reports whether every channel difference exceeds the shade tolerance.
func (p Personality) Rejects(diffs [3]int) bool {
	for _, d := range diffs {
		if d <= p.ShadeTolerance {
			return false
		}
	}
	return true
}

// Crowded reports whether a neighbor at the given Manhattan distance is too close.
func (p Personality) Crowded(dist int) bool {
	return dist < p.PersonalSpace
}

// Estranged reports whether two kinds are further apart than tolerated.
func (p Personality) Estranged(self, other components.Kind) bool {
	return components.KinshipDistance(self, other) > p.KinshipTolerance
}
