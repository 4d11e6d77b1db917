// Package camera provides the viewport that maps the unbounded world onto
// the screen. The decision core never reads it; it only decides where
// shapes are drawn and where new ones spawn.
package camera

// Camera is the viewport into the simulation world.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y int

	// Viewport dimensions (screen size)
	ViewportW, ViewportH int
}

// New creates a camera whose world and screen coordinates coincide.
func New(viewportW, viewportH int) *Camera {
	return &Camera{
		X:         viewportW / 2,
		Y:         viewportH / 2,
		ViewportW: viewportW,
		ViewportH: viewportH,
	}
}

// Offset returns the translation added to world coordinates to get screen coordinates.
func (c *Camera) Offset() (ox, oy int) {
	return c.ViewportW/2 - c.X, c.ViewportH/2 - c.Y
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy int) (sx, sy int) {
	ox, oy := c.Offset()
	return wx + ox, wy + oy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy int) (wx, wy int) {
	ox, oy := c.Offset()
	return sx - ox, sy - oy
}

// IsVisible returns true if a shape at (wx, wy) with the given extent
// overlaps the screen.
func (c *Camera) IsVisible(wx, wy, extent int) bool {
	sx, sy := c.WorldToScreen(wx, wy)
	return sx+extent >= 0 && sx-extent <= c.ViewportW &&
		sy+extent >= 0 && sy-extent <= c.ViewportH
}

// Follow centers the camera on a world position.
func (c *Camera) Follow(wx, wy int) {
	c.X, c.Y = wx, wy
}

// Pan moves the camera by the given delta.
func (c *Camera) Pan(dx, dy int) {
	c.X += dx
	c.Y += dy
}

// Resize updates viewport dimensions, keeping the camera center.
func (c *Camera) Resize(viewportW, viewportH int) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Reset returns the camera to its initial position.
func (c *Camera) Reset() {
	c.X = c.ViewportW / 2
	c.Y = c.ViewportH / 2
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY int) {
	minX, minY = c.ScreenToWorld(0, 0)
	maxX, maxY = c.ScreenToWorld(c.ViewportW, c.ViewportH)
	return
}
