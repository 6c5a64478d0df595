package hearttree

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrInvalidSize is returned for zero or negative surface sizes.
var ErrInvalidSize = errors.New("hearttree: invalid size")

// ceilingDivisor turns the logical viewport height into the floating-heart
// wrap height.
const ceilingDivisor = 20

// Scene is the composer object: it owns the main camera, the particle field,
// the tree sequence, any running bursts and the post-processing chain.
// Until Init succeeds its frame loop only advances bursts and timers.
type Scene struct {
	config  Config
	source  TextureSource
	message *MessageTarget

	camera   *Camera
	composer *Composer
	renderer *renderer
	pool     renderTexturePool

	field  *ParticleField
	tree   *HeartTree
	timers *Timeline
	bursts []*Burst

	elapsed float64
	delta   float64

	// Logical viewport size and device pixel ratio.
	width, height int
	dpr           float64

	// Opacity fades the composed frame on the screen.
	Opacity float64

	initialized bool

	debug           bool
	stats           debugStats
	screenshotQueue []string
	// ScreenshotDir is the directory Screenshot writes PNG files to.
	ScreenshotDir string
}

// NewScene creates an uninitialized scene that builds its sprites from src
// and reveals its closing text on msg.
func NewScene(cfg Config, src TextureSource, msg *MessageTarget) *Scene {
	return &Scene{
		config:        cfg,
		source:        src,
		message:       msg,
		renderer:      newRenderer(),
		timers:        NewTimeline(),
		width:         cfg.Window.Width,
		height:        cfg.Window.Height,
		dpr:           1,
		Opacity:       1,
		debug:         cfg.Debug,
		ScreenshotDir: cfg.ScreenshotDir,
	}
}

// Init builds the render pipeline and every sprite, then starts the tree
// sequence for the yes or no path. A failure leaves the scene uninitialized
// and releases whatever was built. Panics raised while allocating resources
// are returned as errors.
func (s *Scene) Init(yes bool) (err error) {
	if s.initialized {
		return nil
	}
	var (
		composer *Composer
		field    *ParticleField
		tree     *HeartTree
	)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("init render scene: %v", r)
		}
		if err == nil {
			return
		}
		if tree != nil {
			tree.Dispose()
		}
		if field != nil {
			field.Dispose()
		}
		if composer != nil {
			composer.Dispose()
		}
		Logger().Error("scene init failed", "error", err)
	}()

	pw, ph := s.PixelSize()
	composer, err = NewComposer(pw, ph, &s.pool)
	if err != nil {
		return fmt.Errorf("init render scene: %w", err)
	}
	if b := s.config.Bloom; b.Enabled {
		bloom, err := NewBloomFilter(b.Strength, b.Radius, b.Threshold, &s.pool)
		if err != nil {
			return fmt.Errorf("init render scene: %w", err)
		}
		composer.AddPass(bloom)
	}

	camera := NewCamera(s.config.Camera.FOV, s.config.Camera.Z, pw, ph)
	camera.Aspect = float64(s.width) / float64(s.height)
	field = NewParticleField(DefaultFieldConfig(), s.source, s.ceiling())
	tree = GrowTree(DefaultTreeConfig(), s.source, s.message, yes)

	// Nothing below can fail; the scene only sees a complete pipeline.
	s.composer, s.camera, s.field, s.tree = composer, camera, field, tree
	s.elapsed, s.delta = 0, 0
	s.initialized = true
	Logger().Info("scene initialized", "yes", yes, "width", pw, "height", ph)
	return nil
}

// Initialized reports whether Init has succeeded.
func (s *Scene) Initialized() bool {
	return s.initialized
}

// RunHeartBurst plays a burst of palette hearts over the scene.
func (s *Scene) RunHeartBurst() *Burst {
	return s.RunBurst(heartBurstConfig())
}

// RunPleadingBurst plays a burst of pleading faces and calls onComplete
// one second later.
func (s *Scene) RunPleadingBurst(onComplete func()) *Burst {
	return s.RunBurst(pleadingBurstConfig(onComplete))
}

// RunBurst starts a burst overlay. cfg.OnComplete is scheduled on the scene
// timers; it does not wait for the particles.
func (s *Scene) RunBurst(cfg BurstConfig) *Burst {
	pw, ph := s.PixelSize()
	b := NewBurst(cfg, s.source, &s.pool, s.config.Camera.FOV, pw, ph)
	s.bursts = append(s.bursts, b)
	if cfg.OnComplete != nil {
		s.timers.Call(cfg.OnComplete, s.timers.Elapsed()+burstCompleteAt)
	}
	return b
}

// After schedules fn on the scene timers, delay seconds from now.
func (s *Scene) After(delay float64, fn func()) {
	s.timers.Call(fn, s.timers.Elapsed()+delay)
}

// Tween runs g on the scene timers starting now.
func (s *Scene) Tween(g *TweenGroup) {
	s.timers.Add(g, s.timers.Elapsed())
}

// Resize sets the logical viewport size and device pixel ratio. The render
// target becomes width·dpr × height·dpr pixels and the camera aspect
// width/height.
func (s *Scene) Resize(width, height int, dpr float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize %dx%d: %w", width, height, ErrInvalidSize)
	}
	if dpr <= 0 {
		dpr = 1
	}
	s.width, s.height, s.dpr = width, height, dpr
	if !s.initialized {
		return nil
	}
	pw, ph := s.PixelSize()
	s.camera.SetViewport(pw, ph)
	s.camera.Aspect = float64(width) / float64(height)
	if err := s.composer.SetSize(pw, ph); err != nil {
		return err
	}
	s.field.Ceiling = s.ceiling()
	return nil
}

// Size returns the logical viewport size.
func (s *Scene) Size() (int, int) {
	return s.width, s.height
}

// PixelSize returns the render target size in pixels.
func (s *Scene) PixelSize() (int, int) {
	return pixelSize(s.width, s.height, s.dpr)
}

// pixelSize scales a logical size by dpr, rounding to whole pixels.
func pixelSize(width, height int, dpr float64) (int, int) {
	return max(int(math.Round(float64(width)*dpr)), 1),
		max(int(math.Round(float64(height)*dpr)), 1)
}

// Camera returns the main camera, or nil before Init.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// Composer returns the post-processing composer, or nil before Init.
func (s *Scene) Composer() *Composer {
	return s.composer
}

// Field returns the particle field, or nil before Init.
func (s *Scene) Field() *ParticleField {
	return s.field
}

// Tree returns the growth sequence, or nil before Init.
func (s *Scene) Tree() *HeartTree {
	return s.tree
}

// Bursts returns the bursts still running.
func (s *Scene) Bursts() []*Burst {
	return s.bursts
}

// Elapsed returns the scene clock since Init.
func (s *Scene) Elapsed() float64 {
	return s.elapsed
}

// Delta returns the duration of the last tick.
func (s *Scene) Delta() float64 {
	return s.delta
}

func (s *Scene) ceiling() float64 {
	return float64(s.height) / ceilingDivisor
}

// Update advances one tick of 1/TPS seconds.
func (s *Scene) Update() error {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	s.step(1 / float64(ebiten.TPS()))
	if s.debug {
		s.stats.updateTime += time.Since(t0)
	}
	return nil
}

func (s *Scene) step(dt float64) {
	s.timers.Update(dt)
	s.updateBursts(dt)
	if !s.initialized {
		return
	}
	s.delta = dt
	s.elapsed += dt
	s.field.Update(dt, s.elapsed)
	s.tree.Update(dt)
}

func (s *Scene) updateBursts(dt float64) {
	live := s.bursts[:0]
	for _, b := range s.bursts {
		b.Update(dt)
		if !b.Done() {
			live = append(live, b)
		}
	}
	clear(s.bursts[len(live):])
	s.bursts = live
}

// Draw composes the scene onto screen with bloom, then the bursts and the
// message above it.
func (s *Scene) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	if s.initialized {
		target := s.composer.Begin()
		roots := append(s.field.Roots(), s.tree.Root)
		s.stats.sprites = s.renderer.draw(target, s.camera, roots...)
		s.composer.Present(screen, s.Opacity)
	}
	for _, b := range s.bursts {
		b.Draw(screen)
	}
	if s.message != nil {
		s.message.Draw(screen)
	}
	if s.debug {
		s.stats.drawTime += time.Since(t0)
		s.debugFrame(screen)
	}
	s.flushScreenshots(screen)
}

// Dispose releases every sprite, texture and offscreen image.
func (s *Scene) Dispose() {
	if s.field != nil {
		s.field.Dispose()
	}
	if s.tree != nil {
		s.tree.Dispose()
	}
	if s.composer != nil {
		s.composer.Dispose()
	}
	s.pool.Drain()
	s.initialized = false
}
