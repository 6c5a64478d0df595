package hearttree

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Filter is a post-processing pass applied to a rendered frame.
type Filter interface {
	// Apply renders src into dst with the filter effect.
	Apply(src, dst *ebiten.Image)
	// Padding returns the extra pixels needed around the source to accommodate
	// the effect. Zero means no padding.
	Padding() int
}

// --- Kage shader sources ---
// Ebitengine uses premultiplied alpha; shaders un-premultiply before
// processing and re-premultiply output.

const brightPassShaderSrc = `//kage:unit pixels
package main

var Threshold float
var SmoothWidth float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a == 0 {
		return vec4(0)
	}
	rgb := c.rgb / c.a
	lum := dot(rgb, vec3(0.299, 0.587, 0.114))
	w := smoothstep(Threshold, Threshold+SmoothWidth, lum)
	return vec4(rgb*c.a*w, c.a*w)
}
`

func compileShader(name, src string) (*ebiten.Shader, error) {
	s, err := ebiten.NewShader([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("compile %s shader: %w", name, err)
	}
	return s, nil
}

// --- BlurFilter ---

// BlurFilter applies a Kawase iterative blur using downscale/upscale passes.
// Bilinear filtering during DrawImage does the work; no Kage shader.
type BlurFilter struct {
	Radius int
	temps  []*ebiten.Image
	imgOp  ebiten.DrawImageOptions
}

// NewBlurFilter creates a blur filter with the given radius (in pixels).
func NewBlurFilter(radius int) *BlurFilter {
	if radius < 0 {
		radius = 0
	}
	return &BlurFilter{Radius: radius}
}

// blurPasses returns the number of halvings for a radius: ceil(log2(radius)),
// minimum 1.
func blurPasses(radius int) int {
	passes := int(math.Ceil(math.Log2(float64(radius))))
	if passes < 1 {
		passes = 1
	}
	return passes
}

// Apply renders a Kawase blur from src into dst using iterative downscale/upscale.
func (f *BlurFilter) Apply(src, dst *ebiten.Image) {
	op := &f.imgOp
	if f.Radius <= 0 {
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.Filter = ebiten.FilterNearest
		dst.DrawImage(src, op)
		return
	}

	passes := blurPasses(f.Radius)
	srcBounds := src.Bounds()
	w, h := srcBounds.Dx(), srcBounds.Dy()

	for len(f.temps) < passes {
		f.temps = append(f.temps, nil)
	}
	for i := passes; i < len(f.temps); i++ {
		if f.temps[i] != nil {
			f.temps[i].Deallocate()
			f.temps[i] = nil
		}
	}
	f.temps = f.temps[:passes]

	current := src
	for i := range passes {
		w = max(w/2, 1)
		h = max(h/2, 1)
		if f.temps[i] == nil || f.temps[i].Bounds().Dx() != w || f.temps[i].Bounds().Dy() != h {
			if f.temps[i] != nil {
				f.temps[i].Deallocate()
			}
			f.temps[i] = ebiten.NewImage(w, h)
		} else {
			f.temps[i].Clear()
		}
		f.scaleInto(current, f.temps[i])
		current = f.temps[i]
	}

	for i := passes - 2; i >= 0; i-- {
		f.temps[i].Clear()
		f.scaleInto(current, f.temps[i])
		current = f.temps[i]
	}

	f.scaleInto(current, dst)
}

// scaleInto draws src stretched over dst's bounds with bilinear filtering.
func (f *BlurFilter) scaleInto(src, dst *ebiten.Image) {
	op := &f.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	sb, db := src.Bounds(), dst.Bounds()
	op.GeoM.Scale(float64(db.Dx())/float64(sb.Dx()), float64(db.Dy())/float64(sb.Dy()))
	op.GeoM.Translate(float64(db.Min.X), float64(db.Min.Y))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
}

// Padding returns the blur radius.
func (f *BlurFilter) Padding() int { return f.Radius }

// --- BloomFilter ---

// bloomRadiusPixels maps a bloom radius in [0, 1] to a blur radius in pixels.
const bloomRadiusPixels = 48

// bloomSmoothWidth is the luminance band over which the bright pass fades in.
const bloomSmoothWidth = 0.01

// BloomFilter adds glow around bright regions: a luminance bright pass, a
// Kawase blur, and an additive composite over the source.
type BloomFilter struct {
	// Strength scales the blurred highlights before they are added.
	Strength float64
	// Threshold is the luminance below which pixels do not glow.
	Threshold float64

	blur     *BlurFilter
	shader   *ebiten.Shader
	pool     *renderTexturePool
	uniforms map[string]any
	shaderOp ebiten.DrawRectShaderOptions
	imgOp    ebiten.DrawImageOptions
}

// NewBloomFilter compiles the bright-pass shader. radius is in [0, 1] and
// scales the glow spread.
func NewBloomFilter(strength, radius, threshold float64, pool *renderTexturePool) (*BloomFilter, error) {
	shader, err := compileShader("bloom bright-pass", brightPassShaderSrc)
	if err != nil {
		return nil, err
	}
	return &BloomFilter{
		Strength:  strength,
		Threshold: threshold,
		blur:      NewBlurFilter(int(math.Round(clamp01(radius) * bloomRadiusPixels))),
		shader:    shader,
		pool:      pool,
		uniforms:  make(map[string]any, 2),
	}, nil
}

// Apply copies src into dst and adds the blurred highlights on top.
func (f *BloomFilter) Apply(src, dst *ebiten.Image) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	f.imgOp.GeoM.Reset()
	f.imgOp.ColorScale.Reset()
	f.imgOp.Blend = ebiten.BlendSourceOver
	dst.DrawImage(src, &f.imgOp)

	bright := f.pool.acquireTarget(w, h)
	defer f.pool.releaseTarget(bright)
	blurred := f.pool.acquireTarget(w, h)
	defer f.pool.releaseTarget(blurred)

	f.uniforms["Threshold"] = float32(f.Threshold)
	f.uniforms["SmoothWidth"] = float32(bloomSmoothWidth)
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	bright.view.DrawRectShader(w, h, f.shader, &f.shaderOp)

	f.blur.Apply(bright.view, blurred.view)

	f.imgOp.GeoM.Reset()
	f.imgOp.ColorScale.Reset()
	s := float32(f.Strength)
	f.imgOp.ColorScale.Scale(s, s, s, s)
	f.imgOp.Blend = ebiten.BlendLighter
	dst.DrawImage(blurred.view, &f.imgOp)
}

// Padding returns 0; bloom runs over the whole frame.
func (f *BloomFilter) Padding() int { return 0 }

// applyFilters runs a filter chain on src, ping-ponging between pooled
// images. Returns the image holding the final result and the pooled targets
// the caller must release once it has been drawn.
func applyFilters(filters []Filter, src *ebiten.Image, pool *renderTexturePool) (*ebiten.Image, []renderTarget) {
	if len(filters) == 0 {
		return src, nil
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	var used []renderTarget
	current := src
	for _, f := range filters {
		rt := pool.acquireTarget(w, h)
		used = append(used, rt)
		f.Apply(current, rt.view)
		current = rt.view
	}
	return current, used
}
