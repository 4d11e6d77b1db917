// Package components defines the ECS components of a simulated shape.
package components

import "fmt"

// Kind is a shape category. Kinds are ordered by side count with the circle
// last, and the order is meaningful: kinship distance is the index gap.
type Kind uint8

const (
	KindTriangle Kind = iota
	KindSquare
	KindPentagon
	KindHexagon
	KindCircle

	NumKinds = 5
)

var kindNames = [NumKinds]string{"triangle", "square", "pentagon", "hexagon", "circle"}

// AllKinds lists every kind in order.
var AllKinds = [NumKinds]Kind{KindTriangle, KindSquare, KindPentagon, KindHexagon, KindCircle}

// Index returns the kind's position in the ordered kind list.
func (k Kind) Index() int { return int(k) }

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return k < NumKinds }

// Sides returns the polygon side count (1 for circles).
func (k Kind) Sides() int {
	switch k {
	case KindTriangle:
		return 3
	case KindSquare:
		return 4
	case KindPentagon:
		return 5
	case KindHexagon:
		return 6
	case KindCircle:
		return 1
	}
	panic(fmt.Sprintf("components: unknown kind %d", k))
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// ParseKind maps a kind name to its Kind.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shape kind %q", name)
}

// KinshipDistance is the absolute index difference between two kinds.
func KinshipDistance(a, b Kind) int {
	d := a.Index() - b.Index()
	if d < 0 {
		return -d
	}
	return d
}

// Color is an RGB color. A shade is a gray color (R == G == B).
type Color struct {
	R, G, B uint8
}

// White is reserved for the player.
var White = Color{R: 255, G: 255, B: 255}

// Shade returns the gray color with the given intensity.
func Shade(v uint8) Color {
	return Color{R: v, G: v, B: v}
}

// Gray reports whether the color is a single shade.
func (c Color) Gray() bool {
	return c.R == c.G && c.G == c.B
}

// Reserved reports whether the color is the player's.
func (c Color) Reserved() bool {
	return c == White
}

// ChannelDiffs returns the absolute per-channel difference to other.
func (c Color) ChannelDiffs(other Color) [3]int {
	return [3]int{
		abs(int(c.R) - int(other.R)),
		abs(int(c.G) - int(other.G)),
		abs(int(c.B) - int(other.B)),
	}
}

// Body holds an agent's shape.
type Body struct {
	Kind   Kind
	Extent int // radius for circles, side length otherwise
	Color  Color
}
