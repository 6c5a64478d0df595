package hearttree

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Composer owns the offscreen frame the scene renders into and the
// post-processing passes applied before it reaches the screen.
type Composer struct {
	width, height int
	target        *ebiten.Image
	passes        []Filter
	pool          *renderTexturePool
	op            ebiten.DrawImageOptions
}

// NewComposer allocates a width×height offscreen target.
func NewComposer(width, height int, pool *renderTexturePool) (*Composer, error) {
	c := &Composer{pool: pool}
	if err := c.SetSize(width, height); err != nil {
		return nil, err
	}
	return c, nil
}

// AddPass appends a post-processing filter. Passes run in insertion order.
func (c *Composer) AddPass(f Filter) {
	c.passes = append(c.passes, f)
}

// SetSize reallocates the offscreen target. Sizes below one pixel are
// rejected.
func (c *Composer) SetSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("composer size %dx%d: %w", width, height, ErrInvalidSize)
	}
	if c.target != nil {
		if c.width == width && c.height == height {
			return nil
		}
		c.target.Deallocate()
	}
	c.width, c.height = width, height
	c.target = ebiten.NewImageWithOptions(image.Rect(0, 0, width, height), nil)
	return nil
}

// Size returns the offscreen target dimensions.
func (c *Composer) Size() (int, int) {
	return c.width, c.height
}

// Begin clears the offscreen target and returns it for drawing.
func (c *Composer) Begin() *ebiten.Image {
	c.target.Clear()
	return c.target
}

// Present runs the passes over the offscreen frame and draws the result onto
// screen, stretched to fill it, at the given opacity.
func (c *Composer) Present(screen *ebiten.Image, alpha float64) {
	out, used := applyFilters(c.passes, c.target, c.pool)
	defer func() {
		for _, rt := range used {
			c.pool.releaseTarget(rt)
		}
	}()

	sb := screen.Bounds()
	op := &c.op
	op.GeoM.Reset()
	op.GeoM.Scale(float64(sb.Dx())/float64(c.width), float64(sb.Dy())/float64(c.height))
	op.GeoM.Translate(float64(sb.Min.X), float64(sb.Min.Y))
	op.ColorScale.Reset()
	op.ColorScale.ScaleAlpha(float32(clamp01(alpha)))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(out, op)
}

// Dispose releases the offscreen target.
func (c *Composer) Dispose() {
	if c.target != nil {
		c.target.Deallocate()
		c.target = nil
	}
}
