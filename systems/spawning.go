package systems

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/clique/components"
	"github.com/pthm-cable/clique/config"
	"github.com/pthm-cable/clique/traits"
)

// ErrResampleExhausted is returned when a rejection-sampled attribute keeps
// landing on a forbidden value.
var ErrResampleExhausted = errors.New("resample limit reached")

// Area is an inclusive rectangle in world coordinates.
type Area struct {
	MinX, MinY, MaxX, MaxY int
}

// Spawn is a freshly generated agent, ready to be placed in the world.
type Spawn struct {
	Pos     components.Position
	Body    components.Body
	Persona traits.Personality
	Age     int
}

// Generator creates agents from the generation config.
type Generator struct {
	cfg *config.Config
	rng *rand.Rand
}

// NewGenerator checks that cfg can produce agents and binds it to rng.
func NewGenerator(cfg *config.Config, rng *rand.Rand) (*Generator, error) {
	if cfg == nil {
		return nil, errors.New("generator: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	if len(cfg.Derived.KindOrder) == 0 {
		return nil, errors.New("generator: config has no kind order, call Finalize first")
	}
	return &Generator{cfg: cfg, rng: rng}, nil
}

// Kind walks the kind order, stopping at each kind with the spawn
// probability. The last kind is taken when the walk runs out.
func (g *Generator) Kind() components.Kind {
	order := g.cfg.Derived.KindOrder
	p := g.cfg.Generation.SpawnProbability
	for _, k := range order[:len(order)-1] {
		if g.rng.Float64() < p {
			return k
		}
	}
	return order[len(order)-1]
}

// Extent draws a size for kind from its normal distribution, redrawing
// until the size is at least one unit.
func (g *Generator) Extent(kind components.Kind) (int, error) {
	s := g.cfg.Shape(kind)
	dist := distuv.Normal{Mu: s.Mean, Sigma: s.Dev, Src: g.rng}
	for range g.cfg.Generation.MaxResample {
		if size := int(dist.Rand()); size > 0 {
			return size, nil
		}
	}
	return 0, fmt.Errorf("extent for %v: %w", kind, ErrResampleExhausted)
}

// Color draws an agent color. White is redrawn since it marks the player.
func (g *Generator) Color() (components.Color, error) {
	for range g.cfg.Generation.MaxResample {
		var c components.Color
		if g.cfg.Generation.ColorMode == config.ColorRGB {
			c = components.Color{R: g.channel(), G: g.channel(), B: g.channel()}
		} else {
			c = components.Shade(g.channel())
		}
		if !c.Reserved() {
			return c, nil
		}
	}
	return components.Color{}, fmt.Errorf("color: %w", ErrResampleExhausted)
}

func (g *Generator) channel() uint8 {
	return uint8(g.rng.IntN(256))
}

// Position draws a point uniformly from area grown by the spawn margin.
func (g *Generator) Position(area Area) components.Position {
	m := g.cfg.Generation.SpawnMargin
	return components.Position{
		X: area.MinX - m + g.rng.IntN(area.MaxX-area.MinX+2*m+1),
		Y: area.MinY - m + g.rng.IntN(area.MaxY-area.MinY+2*m+1),
	}
}

// Age returns the starting age. Seeded agents start at a random age so
// the initial population does not expire in a single tick.
func (g *Generator) Age(seeding bool) int {
	maxAge := g.cfg.Simulation.MaxAge
	if !seeding || maxAge == 0 {
		return 0
	}
	return g.rng.IntN(maxAge)
}

// Generate creates one agent inside area.
func (g *Generator) Generate(area Area, seeding bool) (Spawn, error) {
	if area.MaxX < area.MinX || area.MaxY < area.MinY {
		return Spawn{}, fmt.Errorf("generate: empty spawn area %+v", area)
	}

	kind := g.Kind()
	extent, err := g.Extent(kind)
	if err != nil {
		return Spawn{}, err
	}
	color, err := g.Color()
	if err != nil {
		return Spawn{}, err
	}
	pos := g.Position(area)

	return Spawn{
		Pos:     pos,
		Body:    components.Body{Kind: kind, Extent: extent, Color: color},
		Persona: traits.New(kind, g.cfg),
		Age:     g.Age(seeding),
	}, nil
}
