package systems

import (
	"github.com/dhconnelly/rtreego"

	"github.com/pthm-cable/clique/components"
)

// R-tree branching factors.
const (
	treeMinChildren = 25
	treeMaxChildren = 50
)

// pointTolerance is the half-size of the box stored for each agent.
const pointTolerance = 0.5

// indexedAgent is an agent stored in the R-tree.
type indexedAgent struct {
	idx  int
	rect rtreego.Rect
}

func (a *indexedAgent) Bounds() rtreego.Rect {
	return a.rect
}

// NeighborIndex answers nearest-neighbor queries over one tick's snapshot.
// It is read-only after construction and safe for concurrent queries.
type NeighborIndex struct {
	agents []Snapshot
	tree   *rtreego.Rtree
}

// NewNeighborIndex bulk-loads the snapshot into an R-tree.
// The slice is retained and must not be modified while the index is in use.
func NewNeighborIndex(agents []Snapshot) *NeighborIndex {
	items := make([]rtreego.Spatial, len(agents))
	for i := range agents {
		items[i] = &indexedAgent{idx: i, rect: toPoint(agents[i].Pos).ToRect(pointTolerance)}
	}
	return &NeighborIndex{
		agents: agents,
		tree:   rtreego.NewTree(2, treeMinChildren, treeMaxChildren, items...),
	}
}

// Len returns the number of indexed agents.
func (ix *NeighborIndex) Len() int {
	return len(ix.agents)
}

// Nearest returns the same neighbor as the linear Nearest over the indexed
// snapshot. The closest agent by Euclidean distance bounds the Manhattan
// distance of the answer, so only the box of that half-size is scanned.
func (ix *NeighborIndex) Nearest(self Snapshot) (Relation, bool) {
	bound := -1
	for _, s := range ix.tree.NearestNeighbors(2, toPoint(self.Pos)) {
		if s == nil {
			continue
		}
		other := &ix.agents[s.(*indexedAgent).idx]
		if other.ID == self.ID {
			continue
		}
		bound = components.Manhattan(self.Pos, other.Pos)
		break
	}
	if bound < 0 {
		return Nearest(self, ix.agents)
	}

	side := float64(2*bound) + 2*pointTolerance
	box, err := rtreego.NewRect(rtreego.Point{
		float64(self.Pos.X-bound) - pointTolerance,
		float64(self.Pos.Y-bound) - pointTolerance,
	}, []float64{side, side})
	if err != nil {
		return Nearest(self, ix.agents)
	}

	var rel Relation
	ok := false
	for _, s := range ix.tree.SearchIntersect(box) {
		other := &ix.agents[s.(*indexedAgent).idx]
		if other.ID == self.ID {
			continue
		}
		d := components.Manhattan(self.Pos, other.Pos)
		if d > bound {
			continue
		}
		if !ok || closer(d, other.ID, rel.Dist, rel.Neighbor.ID) {
			rel = relate(self, *other, d)
			ok = true
		}
	}
	if !ok {
		return Nearest(self, ix.agents)
	}
	return rel, true
}

func toPoint(p components.Position) rtreego.Point {
	return rtreego.Point{float64(p.X), float64(p.Y)}
}
