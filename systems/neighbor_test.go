package systems

import (
	"math/rand/v2"
	"testing"

	"github.com/pthm-cable/clique/components"
)

func TestNearest(t *testing.T) {
	self := snap(5, 0, 0, components.KindCircle, 0, 10)

	tests := []struct {
		name   string
		others []Snapshot
		wantID uint32
		dx, dy int
	}{
		{
			name:   "closest by manhattan",
			others: []Snapshot{snap(1, 30, 30, 0, 0, 10), snap(2, 0, 50, 0, 0, 10)},
			wantID: 2, dx: 0, dy: -50,
		},
		{
			name:   "tie goes to lowest id",
			others: []Snapshot{snap(9, 10, 0, 0, 0, 10), snap(3, 0, -10, 0, 0, 10), snap(4, -5, 5, 0, 0, 10)},
			wantID: 3, dx: 0, dy: 10,
		},
		{
			name:   "no distance cutoff",
			others: []Snapshot{snap(7, 100000, -100000, 0, 0, 10)},
			wantID: 7, dx: -100000, dy: 100000,
		},
		{
			name:   "shared position",
			others: []Snapshot{snap(8, 0, 0, 0, 0, 10), snap(6, 1, 0, 0, 0, 10)},
			wantID: 8, dx: 0, dy: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pop := append([]Snapshot{self}, tt.others...)
			rel, ok := Nearest(self, pop)
			if !ok {
				t.Fatal("no neighbor found")
			}
			if rel.Neighbor.ID != tt.wantID {
				t.Errorf("neighbor = %d, want %d", rel.Neighbor.ID, tt.wantID)
			}
			if rel.DX != tt.dx || rel.DY != tt.dy {
				t.Errorf("offset = (%d, %d), want (%d, %d)", rel.DX, rel.DY, tt.dx, tt.dy)
			}
			if rel.Dist != abs(tt.dx)+abs(tt.dy) {
				t.Errorf("dist = %d, want %d", rel.Dist, abs(tt.dx)+abs(tt.dy))
			}
		})
	}
}

func TestNearestAlone(t *testing.T) {
	self := snap(1, 0, 0, components.KindCircle, 0, 10)
	if _, ok := Nearest(self, []Snapshot{self}); ok {
		t.Error("expected no neighbor for a lone agent")
	}
	if _, ok := NewNeighborIndex([]Snapshot{self}).Nearest(self); ok {
		t.Error("index: expected no neighbor for a lone agent")
	}
	if _, ok := NewNeighborIndex(nil).Nearest(self); ok {
		t.Error("index: expected no neighbor in an empty index")
	}
}

func TestNeighborIndexMatchesLinear(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 9))

	for _, size := range []int{2, 3, 17, 120, 400} {
		pop := make([]Snapshot, size)
		for i := range pop {
			// A small field forces plenty of distance ties.
			pop[i] = snap(uint32(i+1), rng.IntN(60)-30, rng.IntN(60)-30, 0, 0, 10)
		}
		ix := NewNeighborIndex(pop)
		if ix.Len() != size {
			t.Fatalf("index holds %d agents, want %d", ix.Len(), size)
		}

		for _, self := range pop {
			want, wantOK := Nearest(self, pop)
			got, gotOK := ix.Nearest(self)
			if gotOK != wantOK {
				t.Fatalf("size %d agent %d: ok = %v, want %v", size, self.ID, gotOK, wantOK)
			}
			if got.Neighbor.ID != want.Neighbor.ID || got.Dist != want.Dist {
				t.Errorf("size %d agent %d: index found %d at %d, linear found %d at %d",
					size, self.ID, got.Neighbor.ID, got.Dist, want.Neighbor.ID, want.Dist)
			}
		}
	}
}

func TestNeighborIndexSparse(t *testing.T) {
	// Agent 2 is nearest by Euclidean distance, agent 3 by Manhattan distance.
	self := snap(1, 0, 0, 0, 0, 10)
	pop := []Snapshot{
		self,
		snap(2, 44, 44, 0, 0, 10), // manhattan 88, euclid ~62
		snap(3, 0, 65, 0, 0, 10),  // manhattan 65, euclid 65
	}
	rel, ok := NewNeighborIndex(pop).Nearest(self)
	if !ok || rel.Neighbor.ID != 3 {
		t.Errorf("nearest = %d (ok %v), want 3", rel.Neighbor.ID, ok)
	}
}
