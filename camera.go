package hearttree

import "math"

// Camera is a perspective camera on the +Z axis looking toward -Z, with Y up.
// It maps world positions onto a viewport measured in pixels.
type Camera struct {
	// FOV is the vertical field of view in degrees.
	FOV float64
	// Aspect is the viewport width divided by its height.
	Aspect float64
	// Near and Far bound the visible depth range.
	Near, Far float64
	// Z is the camera position on the Z axis.
	Z float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	focal float64 // 1 / tan(FOV/2), cached by updateProjection
}

// NewCamera creates a camera at z with the given field of view and viewport
// size.
func NewCamera(fov, z float64, width, height int) *Camera {
	c := &Camera{
		FOV:  fov,
		Near: 0.1,
		Far:  1000,
		Z:    z,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport resizes the viewport and sets Aspect to width/height.
func (c *Camera) SetViewport(width, height int) {
	c.Viewport = Rect{Width: float64(width), Height: float64(height)}
	if height > 0 {
		c.Aspect = float64(width) / float64(height)
	}
	c.updateProjection()
}

func (c *Camera) updateProjection() {
	c.focal = 1 / math.Tan(c.FOV*math.Pi/360)
}

// Project maps a world position to viewport pixels. unit is the number of
// pixels one world unit spans at that depth. ok is false when p lies outside
// the near/far range.
func (c *Camera) Project(p Vec3) (sx, sy, unit float64, ok bool) {
	depth := c.Z - p.Z
	if depth < c.Near || depth > c.Far || c.Aspect == 0 {
		return 0, 0, 0, false
	}
	ndcX := p.X * c.focal / (c.Aspect * depth)
	ndcY := p.Y * c.focal / depth
	w, h := c.Viewport.Width, c.Viewport.Height
	sx = c.Viewport.X + (ndcX+1)*w/2
	sy = c.Viewport.Y + (1-ndcY)*h/2
	unit = c.focal / depth * h / 2
	return sx, sy, unit, true
}

// VisibleHalfHeight returns half the world-space height visible at depth z.
func (c *Camera) VisibleHalfHeight(z float64) float64 {
	return (c.Z - z) / c.focal
}
