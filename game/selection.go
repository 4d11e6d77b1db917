package game

import (
	"cmp"
	"slices"

	"github.com/pthm-cable/clique/components"
	"github.com/pthm-cable/clique/systems"
	"github.com/pthm-cable/clique/telemetry"
)

// AgentView is a read-only copy of one agent, for renderers and tests.
type AgentView struct {
	ID       uint32
	Player   bool
	Position components.Position
	Body     components.Body
	Age      int
}

// Agents returns every agent, player included, ordered by ID.
func (g *Game) Agents() []AgentView {
	var views []AgentView
	query := g.agentFilter.Query()
	for query.Next() {
		id, pos, _, body, _, life := query.Get()
		views = append(views, AgentView{
			ID:       id.ID,
			Player:   id.Player,
			Position: *pos,
			Body:     *body,
			Age:      life.Age,
		})
	}
	slices.SortFunc(views, func(a, b AgentView) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return views
}

// AgentAt returns the agent drawn under screen point (sx, sy), if any.
// Overlapping shapes resolve to the one whose center is closest.
func (g *Game) AgentAt(sx, sy int) (AgentView, bool) {
	wx, wy := g.camera.ScreenToWorld(sx, sy)
	target := components.Position{X: wx, Y: wy}

	var best AgentView
	bestDist := -1
	for _, a := range g.Agents() {
		d := components.Manhattan(a.Position, target)
		if d > a.Body.Extent {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = a, d
		}
	}
	return best, bestDist >= 0
}

// LastDecision returns the decision agent id made in the most recent tick.
func (g *Game) LastDecision(id uint32) (systems.Decision, bool) {
	p := g.parallel
	i, found := slices.BinarySearchFunc(p.entities, id, func(e entitySnapshot, id uint32) int {
		return cmp.Compare(e.ID, id)
	})
	if !found || i >= len(p.intents) || p.entities[i].Player {
		return systems.Decision{}, false
	}
	return p.intents[i].Decision, true
}

// Lifetime returns the running totals of a live agent.
func (g *Game) Lifetime(id uint32) (telemetry.LifetimeStats, bool) {
	s := g.lifetimes.Get(id)
	if s == nil {
		return telemetry.LifetimeStats{}, false
	}
	return *s, true
}

// agentRecords converts the population for a CSV dump.
func (g *Game) agentRecords() []telemetry.AgentRecord {
	agents := g.Agents()
	records := make([]telemetry.AgentRecord, len(agents))
	for i, a := range agents {
		records[i] = telemetry.AgentRecord{
			ID:     a.ID,
			Player: a.Player,
			X:      a.Position.X,
			Y:      a.Position.Y,
			Kind:   a.Body.Kind.String(),
			Extent: a.Body.Extent,
			R:      a.Body.Color.R,
			G:      a.Body.Color.G,
			B:      a.Body.Color.B,
			Age:    a.Age,
		}
	}
	return records
}
