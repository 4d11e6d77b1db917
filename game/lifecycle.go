package game

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/clique/components"
	"github.com/pthm-cable/clique/systems"
	"github.com/pthm-cable/clique/traits"
)

// expiredAgent is an agent collected during commit for replacement.
type expiredAgent struct {
	entity ecs.Entity
	id     uint32
}

// spawnInitialPopulation creates the starting agents, then the player.
func (g *Game) spawnInitialPopulation() error {
	for i := 0; i < g.cfg.Simulation.Population; i++ {
		spawn, err := g.generator.Generate(g.spawnArea(), true)
		if err != nil {
			return fmt.Errorf("seeding agent %d: %w", i, err)
		}
		g.spawnAgent(spawn)
	}
	g.spawnPlayer()
	return nil
}

// spawnArea is the visible world area new agents are placed around.
func (g *Game) spawnArea() systems.Area {
	minX, minY, maxX, maxY := g.camera.VisibleWorldBounds()
	return systems.Area{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// spawnAgent places a generated agent in the world under a fresh ID.
func (g *Game) spawnAgent(s systems.Spawn) ecs.Entity {
	id := components.Identity{ID: g.nextID}
	g.nextID++

	pos := s.Pos
	staged := components.Staged(s.Pos)
	body := s.Body
	persona := s.Persona
	life := components.Lifespan{Age: s.Age}

	g.lifetimes.Register(id.ID, g.tick, body.Kind)
	return g.agentMapper.NewEntity(&id, &pos, &staged, &body, &persona, &life)
}

// spawnPlayer places the player at the center of the view.
func (g *Game) spawnPlayer() {
	id := components.Identity{ID: g.nextID, Player: true}
	g.nextID++

	pos := components.Position{X: g.camera.X, Y: g.camera.Y}
	staged := components.Staged(pos)
	body := components.Body{
		Kind:   components.KindCircle,
		Extent: g.cfg.Player.Radius,
		Color:  components.White,
	}
	persona := traits.Personality{}
	life := components.Lifespan{}

	g.player = g.agentMapper.NewEntity(&id, &pos, &staged, &body, &persona, &life)
}

// commitMoves applies every staged position and ages the agents.
// Structural changes are deferred: the world is locked while a query is open.
func (g *Game) commitMoves() []expiredAgent {
	maxAge := g.cfg.Simulation.MaxAge
	g.expired = g.expired[:0]

	query := g.agentFilter.Query()
	for query.Next() {
		id, pos, staged, _, _, life := query.Get()
		if id.Player {
			continue
		}

		*pos = components.Position(*staged)
		life.Age++

		if life.Expired(maxAge) {
			g.expired = append(g.expired, expiredAgent{entity: query.Entity(), id: id.ID})
		}
	}

	// Replace in ID order so runs stay reproducible
	slices.SortFunc(g.expired, func(a, b expiredAgent) int {
		return cmp.Compare(a.id, b.id)
	})
	return g.expired
}

// respawnExpired replaces each expired agent with a newly generated one.
// A replacement is generated before its predecessor is removed.
func (g *Game) respawnExpired(expired []expiredAgent) error {
	for _, dead := range expired {
		spawn, err := g.generator.Generate(g.spawnArea(), false)
		if err != nil {
			return fmt.Errorf("respawning agent %d: %w", dead.id, err)
		}
		g.world.RemoveEntity(dead.entity)
		g.retire(dead.id)
		g.spawnAgent(spawn)
		g.collector.RecordRespawn()
	}
	return nil
}

// retire closes the lifetime record of a removed agent.
func (g *Game) retire(id uint32) {
	stats := g.lifetimes.Remove(id)
	if stats == nil {
		return
	}
	if err := g.outputManager.WriteLifetime(stats.Record(id, g.tick)); err != nil {
		slog.Error("failed to write lifetime", "error", err)
	}
}
