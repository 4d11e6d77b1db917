package game

import (
	"github.com/pthm-cable/clique/components"
	"github.com/pthm-cable/clique/systems"
)

// MovePlayer shifts the player by the configured movement in direction d
// and keeps the camera centered on it.
func (g *Game) MovePlayer(d systems.Direction) {
	dx, dy := d.Delta()
	step := g.cfg.Player.Movement
	pos := g.posMap.Get(g.player)
	g.SetPlayerPosition(components.Position{X: pos.X + dx*step, Y: pos.Y + dy*step})
}

// SetPlayerPosition moves the player to p. Agents see the new position from
// the next tick on.
func (g *Game) SetPlayerPosition(p components.Position) {
	*g.posMap.Get(g.player) = p
	*g.stagedMap.Get(g.player) = components.Staged(p)
	g.camera.Follow(p.X, p.Y)
}

// PlayerPosition returns the player's current position.
func (g *Game) PlayerPosition() components.Position {
	return *g.posMap.Get(g.player)
}
