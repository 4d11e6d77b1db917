package systems

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/clique/config"
)

// Resolver turns a vote tally into a single direction.
type Resolver interface {
	Resolve(v Votes) Direction
}

// WeightedDraw picks a direction with probability proportional to its votes.
// Stay always carries the baseline vote, so the distribution is never empty.
type WeightedDraw struct {
	src rand.Source
}

// NewWeightedDraw creates a resolver drawing from src.
func NewWeightedDraw(src rand.Source) *WeightedDraw {
	return &WeightedDraw{src: src}
}

func (w *WeightedDraw) Resolve(v Votes) Direction {
	if v.Total() <= 0 {
		return Stay
	}
	c := distuv.NewCategorical(v.Float64s(), w.src)
	return Direction(c.Rand())
}

// ArgMax picks the direction with the most votes, the first in vote order on ties.
type ArgMax struct{}

func (ArgMax) Resolve(v Votes) Direction {
	best := Direction(0)
	for d := Direction(1); d < NumDirections; d++ {
		if v[d] > v[best] {
			best = d
		}
	}
	return best
}

// NewResolver returns the resolver for a decision policy.
func NewResolver(policy string, src rand.Source) (Resolver, error) {
	switch policy {
	case config.PolicyWeighted:
		return NewWeightedDraw(src), nil
	case config.PolicyArgMax:
		return ArgMax{}, nil
	}
	return nil, fmt.Errorf("unknown decision policy %q", policy)
}
