package hearttree

import (
	"math"
	"math/rand/v2"

	"github.com/tanema/gween/ease"
)

// HeartEmoji pairs a heart glyph with the color of its glow.
type HeartEmoji struct {
	Glyph string
	Glow  Color
}

// Hearts is the fixed heart palette shared by the field, bursts and tree.
var Hearts = [...]HeartEmoji{
	{"💖", ColorFromHex("#FF69B4")},
	{"❤️", ColorFromHex("#FF4B4B")},
	{"💕", ColorFromHex("#FFB6C1")},
	{"💞", ColorFromHex("#FF6EB4")},
	{"💓", ColorFromHex("#F48FB1")},
	{"💗", ColorFromHex("#FFC0CB")},
}

// HeartAt returns the palette entry for index i, cycling through the palette.
func HeartAt(i int) HeartEmoji {
	return Hearts[i%len(Hearts)]
}

// HeartGlow returns the glow color for glyph, or the first palette color
// when glyph is not a palette heart.
func HeartGlow(glyph string) Color {
	for _, h := range Hearts {
		if h.Glyph == glyph {
			return h.Glow
		}
	}
	return Hearts[0].Glow
}

// HeartCurve evaluates the parametric heart at t:
//
//	x = 16 sin³t
//	y = 13 cos t − 5 cos 2t − 2 cos 3t − cos 4t
func HeartCurve(t float64) (x, y float64) {
	s := math.Sin(t)
	x = 16 * s * s * s
	y = 13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)
	return x, y
}

// HeartPoint samples the curve at t = i/count·2π.
func HeartPoint(i, count int) (x, y float64) {
	return HeartCurve(float64(i) / float64(count) * 2 * math.Pi)
}

// FieldConfig controls the ambient particle field. Ranges are sampled
// uniformly per particle.
type FieldConfig struct {
	HeartCount int
	// HeartSpread is the extent of the initial heart box on X, Y and Z.
	HeartSpread Vec3
	// HeartOffsetY shifts the initial heart box vertically.
	HeartOffsetY  float64
	HeartScale    Range
	Speed         Range
	SwayPhase     Range
	SwaySpeed     Range
	SwayAmplitude Range

	OutlineCount    int
	OutlineScale    float64
	OutlineZ        float64
	OutlineZSpread  float64
	OutlineDotScale Range
	OutlineColor    Color
	OutlineAlpha    float64
	OutlineDelay    float64
	OutlineFade     float32

	SparkleCount   int
	SparkleRadius  Range
	SparkleScale   Range
	SparkleOpacity Range
	SparkleTwinkle Range

	// GroupOffsetY lifts the outline and sparkles.
	GroupOffsetY float64
}

// DefaultFieldConfig returns the field used by the showcase.
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{
		HeartCount:    50,
		HeartSpread:   Vec3{80, 80, 40},
		HeartOffsetY:  -10,
		HeartScale:    Range{0.1, 0.6},
		Speed:         Range{0.1, 0.5},
		SwayPhase:     Range{0, math.Pi},
		SwaySpeed:     Range{0.1, 0.6},
		SwayAmplitude: Range{0, 2},

		OutlineCount:    120,
		OutlineScale:    1.1,
		OutlineZ:        -4,
		OutlineZSpread:  2,
		OutlineDotScale: Range{0.3, 0.6},
		OutlineColor:    ColorFromHex("#FFC0CB"),
		OutlineAlpha:    0.5,
		OutlineDelay:    2.5,
		OutlineFade:     5,

		SparkleCount:   100,
		SparkleRadius:  Range{8, 28},
		SparkleScale:   Range{0.1, 0.4},
		SparkleOpacity: Range{0.2, 0.6},
		SparkleTwinkle: Range{0.5, 2},

		GroupOffsetY: 4,
	}
}

// FloatingHeart is a glow dot drifting upward with a sideways sway.
type FloatingHeart struct {
	*Node
	Speed         float64
	SwayPhase     float64
	SwaySpeed     float64
	SwayAmplitude float64
}

// Sparkle is a white dot whose opacity oscillates around a base value.
type Sparkle struct {
	*Node
	BaseOpacity  float64
	TwinkleSpeed float64
}

// ParticleField owns the floating hearts, the heart outline and the
// sparkles, and advances them every tick.
type ParticleField struct {
	config FieldConfig

	Hearts   *Node
	Outline  *Node
	Sparkles *Node

	hearts   []*FloatingHeart
	sparkles []*Sparkle
	timeline *Timeline

	// Ceiling is the height above which hearts wrap to -Ceiling.
	Ceiling float64
	// SpreadX is the horizontal range wrapped hearts are re-sampled in.
	SpreadX float64
}

// NewParticleField builds every particle with textures from src. ceiling is
// the wrap height for floating hearts.
func NewParticleField(cfg FieldConfig, src TextureSource, ceiling float64) *ParticleField {
	f := &ParticleField{
		config:   cfg,
		Hearts:   NewGroup("hearts"),
		Outline:  NewGroup("outline"),
		Sparkles: NewGroup("sparkles"),
		timeline: NewTimeline(),
		Ceiling:  ceiling,
		SpreadX:  cfg.HeartSpread.X,
	}
	f.buildHearts(src)
	f.buildOutline(src)
	f.buildSparkles(src)
	return f
}

func (f *ParticleField) buildHearts(src TextureSource) {
	cfg := &f.config
	f.hearts = make([]*FloatingHeart, 0, cfg.HeartCount)
	for range cfg.HeartCount {
		h := Hearts[rand.IntN(len(Hearts))]
		n := NewSprite("heart", src.DotTexture(h.Glow))
		n.BlendMode = BlendAdd
		n.SetPosition(
			centered(cfg.HeartSpread.X),
			centered(cfg.HeartSpread.Y)+cfg.HeartOffsetY,
			centered(cfg.HeartSpread.Z),
		)
		n.SetScale(cfg.HeartScale.Random())
		f.Hearts.AddChild(n)
		f.hearts = append(f.hearts, &FloatingHeart{
			Node:          n,
			Speed:         cfg.Speed.Random(),
			SwayPhase:     cfg.SwayPhase.Random(),
			SwaySpeed:     cfg.SwaySpeed.Random(),
			SwayAmplitude: cfg.SwayAmplitude.Random(),
		})
	}
}

// buildOutline places dots along the heart curve. They share one texture and
// fade in together through the group alpha.
func (f *ParticleField) buildOutline(src TextureSource) {
	cfg := &f.config
	f.Outline.Y = cfg.GroupOffsetY
	f.Outline.Alpha = 0
	tex := src.DotTexture(cfg.OutlineColor)
	for i := range cfg.OutlineCount {
		x, y := HeartPoint(i, cfg.OutlineCount)
		n := NewSprite("outline", tex.Retain())
		n.BlendMode = BlendAdd
		n.SetPosition(x*cfg.OutlineScale, y*cfg.OutlineScale, centered(cfg.OutlineZSpread)+cfg.OutlineZ)
		n.SetScale(cfg.OutlineDotScale.Random())
		f.Outline.AddChild(n)
	}
	tex.Release()
	f.timeline.Add(TweenAlpha(f.Outline, cfg.OutlineAlpha, cfg.OutlineFade, ease.OutQuad), cfg.OutlineDelay)
}

func (f *ParticleField) buildSparkles(src TextureSource) {
	cfg := &f.config
	f.Sparkles.Y = cfg.GroupOffsetY
	f.sparkles = make([]*Sparkle, 0, cfg.SparkleCount)
	tex := src.DotTexture(ColorWhite)
	for range cfg.SparkleCount {
		r := cfg.SparkleRadius.Random()
		theta := 2 * math.Pi * rand.Float64()
		phi := math.Acos(2*rand.Float64() - 1)
		n := NewSprite("sparkle", tex.Retain())
		n.BlendMode = BlendAdd
		n.SetPosition(
			r*math.Sin(phi)*math.Sin(theta),
			r*math.Cos(phi),
			r*math.Sin(phi)*math.Cos(theta),
		)
		n.SetScale(cfg.SparkleScale.Random())
		s := &Sparkle{
			Node:         n,
			BaseOpacity:  cfg.SparkleOpacity.Random(),
			TwinkleSpeed: cfg.SparkleTwinkle.Random(),
		}
		n.Alpha = s.BaseOpacity
		f.Sparkles.AddChild(n)
		f.sparkles = append(f.sparkles, s)
	}
	tex.Release()
}

// Roots returns the groups to render, back layers first.
func (f *ParticleField) Roots() []*Node {
	return []*Node{f.Hearts, f.Outline, f.Sparkles}
}

// FloatingHearts returns the floating hearts. The slice MUST NOT be mutated.
func (f *ParticleField) FloatingHearts() []*FloatingHeart {
	return f.hearts
}

// SparkleList returns the sparkles. The slice MUST NOT be mutated.
func (f *ParticleField) SparkleList() []*Sparkle {
	return f.sparkles
}

// Update advances drift, twinkle and the outline fade. elapsed is the time
// since the field was created.
func (f *ParticleField) Update(dt, elapsed float64) {
	for _, h := range f.hearts {
		h.update(dt, elapsed, f.Ceiling, f.SpreadX)
	}
	for _, s := range f.sparkles {
		s.Alpha = s.Opacity(elapsed)
	}
	f.timeline.Update(dt)
}

func (h *FloatingHeart) update(dt, elapsed, ceiling, spreadX float64) {
	h.Y += h.Speed * dt
	h.X += math.Sin(elapsed*h.SwaySpeed+h.SwayPhase) * h.SwayAmplitude * dt
	if h.Y > ceiling {
		h.Y = -ceiling
		h.X = centered(spreadX)
	}
}

// Opacity returns the sparkle's opacity at elapsed seconds, which lies in
// [0, BaseOpacity].
func (s *Sparkle) Opacity(elapsed float64) float64 {
	return s.BaseOpacity * (0.5 + 0.5*math.Sin(elapsed*s.TwinkleSpeed))
}

// Dispose releases every particle.
func (f *ParticleField) Dispose() {
	f.Hearts.Dispose()
	f.Outline.Dispose()
	f.Sparkles.Dispose()
	f.hearts = nil
	f.sparkles = nil
}
