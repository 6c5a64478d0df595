package hearttree

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"unicode/utf8"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"
	"golang.org/x/image/font/gofont/goregular"
)

// Texture is an immutable sprite image shared by reference. It starts with a
// single reference; the image is deallocated when the last one is released.
type Texture struct {
	image     *ebiten.Image
	refs      int
	onRelease func()
}

// NewTexture wraps img with one reference.
func NewTexture(img *ebiten.Image) *Texture {
	return &Texture{image: img, refs: 1}
}

// Image returns the underlying image, or nil once released.
func (t *Texture) Image() *ebiten.Image {
	return t.image
}

// Retain adds a reference and returns t.
func (t *Texture) Retain() *Texture {
	t.refs++
	return t
}

// Release drops a reference. The image is deallocated when none remain.
// Releasing an already released texture is a no-op.
func (t *Texture) Release() {
	if t.refs <= 0 {
		return
	}
	t.refs--
	if t.refs > 0 {
		return
	}
	if t.image != nil {
		t.image.Deallocate()
		t.image = nil
	}
	if t.onRelease != nil {
		t.onRelease()
	}
}

// Released reports whether every reference has been released.
func (t *Texture) Released() bool {
	return t.refs <= 0
}

// TextureSource produces sprite textures. Every call allocates a new texture
// owned by the caller.
type TextureSource interface {
	GlyphTexture(glyph string, glow Color) *Texture
	DotTexture(c Color) *Texture
}

const (
	glyphCanvasSize = 256
	glyphGlowRadius = 35
	glyphPasses     = 2
	dotCanvasSize   = 128
	dotMidStop      = 0.8
	dotMidAlpha     = 0x33 / 255.0
)

// TextureGenerator rasterizes glyphs and glow dots on the CPU with gg and
// uploads them as textures. The glyph glow is blurred on the GPU.
type TextureGenerator struct {
	face text.Face
	blur *BlurFilter

	glyphScratch  *ebiten.Image
	shadowScratch *ebiten.Image
	blurScratch   *ebiten.Image

	live int
}

// NewTextureGenerator loads the font at fontPath, or Go Regular when
// fontPath is empty. Glyphs the font lacks are drawn as heart silhouettes.
func NewTextureGenerator(fontPath string) (*TextureGenerator, error) {
	src, err := loadFontSource(fontPath)
	if err != nil {
		return nil, err
	}
	return &TextureGenerator{
		face: src.Face(glyphCanvasSize / 2.2),
		blur: NewBlurFilter(glyphGlowRadius),
	}, nil
}

func loadFontSource(path string) (*text.FontSource, error) {
	if path == "" {
		src, err := text.NewFontSource(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("load fallback font: %w", err)
		}
		return src, nil
	}
	src, err := text.NewFontSourceFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", path, err)
	}
	return src, nil
}

// Live returns the number of generated textures not yet released.
func (g *TextureGenerator) Live() int {
	return g.live
}

func (g *TextureGenerator) track(img *ebiten.Image) *Texture {
	g.live++
	t := NewTexture(img)
	t.onRelease = func() { g.live-- }
	return t
}

// GlyphTexture renders glyph in white, centered on a square canvas, over a
// soft glow in the glow color. Glow and glyph are composited twice to
// intensify the glow.
func (g *TextureGenerator) GlyphTexture(glyph string, glow Color) *Texture {
	size := glyphCanvasSize
	g.ensureScratch(size)

	g.glyphScratch.WritePixels(g.rasterGlyph(glyph).Pix)

	g.shadowScratch.Clear()
	var cm colorm.ColorM
	cm.Scale(0, 0, 0, glow.A)
	cm.Translate(glow.R, glow.G, glow.B, 0)
	colorm.DrawImage(g.shadowScratch, g.glyphScratch, cm, &colorm.DrawImageOptions{})

	g.blurScratch.Clear()
	g.blur.Apply(g.shadowScratch, g.blurScratch)

	out := ebiten.NewImage(size, size)
	for range glyphPasses {
		out.DrawImage(g.blurScratch, nil)
		out.DrawImage(g.glyphScratch, nil)
	}
	return g.track(out)
}

// DotTexture renders a radial gradient from opaque c at the center through
// a faint mid stop to transparent at the edge.
func (g *TextureGenerator) DotTexture(c Color) *Texture {
	return g.track(ebiten.NewImageFromImage(rasterDot(c, dotCanvasSize)))
}

func (g *TextureGenerator) ensureScratch(size int) {
	if g.glyphScratch != nil {
		return
	}
	g.glyphScratch = ebiten.NewImage(size, size)
	g.shadowScratch = ebiten.NewImage(size, size)
	g.blurScratch = ebiten.NewImage(size, size)
}

// rasterGlyph draws glyph centered on a glyphCanvasSize square. Color emoji
// keep their colors; outline glyphs are white.
func (g *TextureGenerator) rasterGlyph(glyph string) *image.RGBA {
	size := glyphCanvasSize
	r, _ := utf8.DecodeRuneInString(glyph)
	if r == utf8.RuneError || !g.face.HasGlyph(r) {
		return rasterHeart(size, float64(size)/2.2)
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	m := g.face.Metrics()
	x := (float64(size) - g.face.Advance(glyph)) / 2
	y := float64(size)/2 + (m.Ascent-m.Descent)/2
	text.DrawWithEmoji(img, glyph, g.face, x, y, color.White)
	return img
}

// rasterHeart fills the heart curve, extent pixels tall, centered on a size
// square.
func rasterHeart(size int, extent float64) *image.RGBA {
	dc := gg.NewContext(size, size)
	defer func() { _ = dc.Close() }()

	const steps = 96
	// The curve spans x in [-16, 16] and y in roughly [-17, 12].
	scale := extent / 29
	cx, cy := float64(size)/2, float64(size)/2-2.5*scale
	dc.SetRGBA(1, 1, 1, 1)
	for i := range steps {
		x, y := HeartPoint(i, steps)
		px, py := cx+x*scale, cy-y*scale
		if i == 0 {
			dc.MoveTo(px, py)
		} else {
			dc.LineTo(px, py)
		}
	}
	dc.ClosePath()
	if err := dc.Fill(); err != nil {
		Logger().Warn("heart fallback fill failed", "error", err)
	}
	return toRGBA(dc.Image())
}

func rasterDot(c Color, size int) *image.RGBA {
	dc := gg.NewContext(size, size)
	defer func() { _ = dc.Close() }()

	half := float64(size) / 2
	grad := gg.NewRadialGradientBrush(half, half, 0, half).
		AddColorStop(0, c.gg()).
		AddColorStop(dotMidStop, c.WithAlpha(dotMidAlpha).gg()).
		AddColorStop(1, gg.RGBA{})
	dc.SetFillBrush(grad)
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	if err := dc.Fill(); err != nil {
		Logger().Warn("dot gradient fill failed", "error", err)
	}
	return toRGBA(dc.Image())
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
