package hearttree

import (
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

const (
	burstCount      = 40
	burstCameraZ    = 30
	burstScale      = 3
	burstSpread     = 0.8
	burstFadeDelay  = 0.4
	burstFade       = 0.6
	burstCompleteAt = 1.0
)

var burstRadius = Range{4, 12}

// BurstConfig selects the glyphs of a burst and its completion hooks.
type BurstConfig struct {
	// Emoji returns the glyph for particle i.
	Emoji func(i int) string
	// Color returns the glow color for a glyph.
	Color func(glyph string) Color
	// OnComplete fires on a fixed timer once the particles have had time to
	// fade. It does not wait for them.
	OnComplete func()
	// OnFinished fires when the last particle has been removed and the
	// overlay has released its surface.
	OnFinished func()
}

// Burst is a one-shot overlay: a ring of glyph sprites that fly out from the
// center and fade, drawn above the main scene with its own camera.
type Burst struct {
	root     *Node
	camera   *Camera
	timeline *Timeline
	renderer *renderer
	pool     *renderTexturePool
	surface  renderTarget
	hasSurf  bool
	spawned  int
	done     bool
	config   BurstConfig
	op       ebiten.DrawImageOptions
}

// NewBurst spawns the burst particles. width and height are the overlay size
// in pixels; fov is the camera's vertical field of view.
func NewBurst(cfg BurstConfig, src TextureSource, pool *renderTexturePool, fov float64, width, height int) *Burst {
	b := &Burst{
		root:     NewGroup("burst"),
		camera:   NewCamera(fov, burstCameraZ, width, height),
		timeline: NewTimeline(),
		renderer: newRenderer(),
		pool:     pool,
		config:   cfg,
	}
	for i := range burstCount {
		glyph := cfg.Emoji(i)
		n := NewSprite("burst", src.GlyphTexture(glyph, cfg.Color(glyph)))
		n.BlendMode = BlendAdd
		b.root.AddChild(n)
		b.spawned++

		angle := rand.Float64() * 2 * math.Pi
		r := burstRadius.Random()
		b.timeline.Add(TweenScale(n, burstScale, burstSpread, ease.OutCubic).From(0, 0), 0)
		b.timeline.Add(TweenPosition(n, Vec3{math.Cos(angle) * r, math.Sin(angle) * r, 0}, burstSpread, ease.OutCubic).From(0, 0, 0), 0)
		fade := TweenAlpha(n, 0, burstFade, ease.InQuad)
		fade.OnComplete = n.Dispose
		b.timeline.Add(fade, burstFadeDelay)
	}
	return b
}

// Spawned returns the number of particles emitted.
func (b *Burst) Spawned() int {
	return b.spawned
}

// Live returns the number of particles not yet removed.
func (b *Burst) Live() int {
	return b.root.NumChildren()
}

// Done reports whether the burst has torn itself down.
func (b *Burst) Done() bool {
	return b.done
}

// Update advances the particles. Once none remain the overlay releases its
// surface and OnFinished fires.
func (b *Burst) Update(dt float64) {
	if b.done {
		return
	}
	b.timeline.Update(dt)
	if b.root.NumChildren() == 0 {
		b.teardown()
	}
}

// Draw renders the particles onto screen through the overlay surface.
func (b *Burst) Draw(screen *ebiten.Image) {
	if b.done {
		return
	}
	sb := screen.Bounds()
	w, h := sb.Dx(), sb.Dy()
	if w == 0 || h == 0 {
		return
	}
	if !b.hasSurf || b.surface.view.Bounds().Dx() != w || b.surface.view.Bounds().Dy() != h {
		b.releaseSurface()
		b.surface = b.pool.acquireTarget(w, h)
		b.hasSurf = true
		b.camera.SetViewport(w, h)
	}
	b.surface.view.Clear()
	b.renderer.draw(b.surface.view, b.camera, b.root)

	b.op.GeoM.Reset()
	b.op.GeoM.Translate(float64(sb.Min.X), float64(sb.Min.Y))
	screen.DrawImage(b.surface.view, &b.op)
}

func (b *Burst) teardown() {
	b.done = true
	b.releaseSurface()
	b.root.Dispose()
	Logger().Debug("burst finished", "spawned", b.spawned)
	if b.config.OnFinished != nil {
		b.config.OnFinished()
	}
}

func (b *Burst) releaseSurface() {
	if b.hasSurf {
		b.pool.releaseTarget(b.surface)
		b.hasSurf = false
	}
}

// heartBurstConfig cycles through the heart palette.
func heartBurstConfig() BurstConfig {
	return BurstConfig{
		Emoji: func(i int) string { return HeartAt(i).Glyph },
		Color: HeartGlow,
	}
}

const (
	pleadingGlyph = "🥹"
	pleadingGlow  = "#87CEEB"
)

// pleadingBurstConfig uses a single pleading face with a sky-blue glow.
func pleadingBurstConfig(onComplete func()) BurstConfig {
	glow := ColorFromHex(pleadingGlow)
	return BurstConfig{
		Emoji:      func(int) string { return pleadingGlyph },
		Color:      func(string) Color { return glow },
		OnComplete: onComplete,
	}
}
