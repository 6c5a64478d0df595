package hearttree

import (
	"errors"
	"testing"

	"github.com/tanema/gween/ease"
)

// testConfig disables bloom so tests do not compile shaders.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Bloom.Enabled = false
	return cfg
}

func newTestScene(t *testing.T) (*Scene, *stubSource, *MessageTarget) {
	t.Helper()
	src := &stubSource{}
	msg := NewMessageTarget(nil)
	return NewScene(testConfig(), src, msg), src, msg
}

func TestSceneDefaults(t *testing.T) {
	s, _, _ := newTestScene(t)
	if s.Initialized() {
		t.Error("new scene should not be initialized")
	}
	if w, h := s.Size(); w != 960 || h != 640 {
		t.Errorf("Size = %dx%d, want 960x640", w, h)
	}
	if s.Opacity != 1 {
		t.Errorf("Opacity = %f, want 1", s.Opacity)
	}
	if s.Camera() != nil || s.Composer() != nil || s.Field() != nil || s.Tree() != nil {
		t.Error("render objects should not exist before Init")
	}
}

func TestSceneStepBeforeInit(t *testing.T) {
	s, _, _ := newTestScene(t)
	runFor(1, s.step)
	if s.Elapsed() != 0 {
		t.Errorf("Elapsed = %f before Init, want 0", s.Elapsed())
	}
}

func TestSceneBurstsRunBeforeInit(t *testing.T) {
	s, src, _ := newTestScene(t)
	b := s.RunHeartBurst()
	if len(s.Bursts()) != 1 {
		t.Fatalf("Bursts = %d, want 1", len(s.Bursts()))
	}
	runFor(1.1, s.step)
	if !b.Done() {
		t.Error("burst should finish without Init")
	}
	if len(s.Bursts()) != 0 {
		t.Errorf("Bursts = %d after teardown, want 0", len(s.Bursts()))
	}
	if src.live != 0 {
		t.Errorf("live textures = %d, want 0", src.live)
	}
}

func TestScenePleadingBurstCompletes(t *testing.T) {
	s, _, _ := newTestScene(t)
	called := 0
	s.RunPleadingBurst(func() { called++ })

	runFor(0.95, s.step)
	if called != 0 {
		t.Fatalf("onComplete fired early (%d)", called)
	}
	runFor(0.1, s.step)
	if called != 1 {
		t.Errorf("onComplete called %d times, want 1", called)
	}
	runFor(1, s.step)
	if called != 1 {
		t.Errorf("onComplete called %d times later, want 1", called)
	}
}

func TestSceneTweenAndAfter(t *testing.T) {
	s, _, _ := newTestScene(t)
	s.Opacity = 0
	s.Tween(TweenValue(&s.Opacity, 1, 2, ease.Linear))
	fired := false
	s.After(0.5, func() { fired = true })

	runFor(0.4, s.step)
	if fired {
		t.Error("After fired early")
	}
	runFor(2, s.step)
	if !fired {
		t.Error("After did not fire")
	}
	if !approxEqual(s.Opacity, 1, 1e-4) {
		t.Errorf("Opacity = %f, want 1", s.Opacity)
	}
}

func TestSceneInit(t *testing.T) {
	s, src, _ := newTestScene(t)
	if err := s.Init(true); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !s.Initialized() {
		t.Fatal("scene not initialized")
	}
	if s.Camera().FOV != 75 || s.Camera().Z != 35 {
		t.Errorf("camera fov/z = %f/%f, want 75/35", s.Camera().FOV, s.Camera().Z)
	}
	if s.Camera().Aspect != 960.0/640.0 {
		t.Errorf("Aspect = %f, want %f", s.Camera().Aspect, 960.0/640.0)
	}
	if w, h := s.Composer().Size(); w != 960 || h != 640 {
		t.Errorf("composer = %dx%d, want 960x640", w, h)
	}
	if s.Field().Ceiling != 32 {
		t.Errorf("Ceiling = %f, want 32", s.Field().Ceiling)
	}
	if s.Tree().Root.NumChildren() != 150 {
		t.Errorf("tree sprites = %d, want 150", s.Tree().Root.NumChildren())
	}

	// A second Init is a no-op.
	before := src.live
	if err := s.Init(false); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if src.live != before {
		t.Errorf("second Init allocated %d textures", src.live-before)
	}

	s.Dispose()
	if src.live != 0 {
		t.Errorf("live textures after Dispose = %d, want 0", src.live)
	}
}

func TestSceneUpdateAfterInit(t *testing.T) {
	s, _, msg := newTestScene(t)
	if err := s.Init(false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	runFor(8.5, s.step)
	if !approxEqual(s.Elapsed(), 8.5, 0.05) {
		t.Errorf("Elapsed = %f, want about 8.5", s.Elapsed())
	}
	if !approxEqual(s.Delta(), 1.0/60, epsilon) {
		t.Errorf("Delta = %f, want 1/60", s.Delta())
	}
	if msg.Shown() != 1 {
		t.Fatalf("Shown = %d, want 1", msg.Shown())
	}
	if msg.Lines[0] != NoMessage[0] {
		t.Errorf("message = %q, want the no message", msg.Lines)
	}
	if !approxEqual(s.Field().Outline.Alpha, 0.5, 1e-3) {
		t.Errorf("outline alpha = %f, want 0.5", s.Field().Outline.Alpha)
	}
}

func TestSceneResize(t *testing.T) {
	s, _, _ := newTestScene(t)
	if err := s.Init(true); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := s.Resize(800, 600, 2); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if w, h := s.Composer().Size(); w != 1600 || h != 1200 {
		t.Errorf("composer = %dx%d, want 1600x1200", w, h)
	}
	if w, h := s.PixelSize(); w != 1600 || h != 1200 {
		t.Errorf("PixelSize = %dx%d, want 1600x1200", w, h)
	}
	if s.Camera().Aspect != 800.0/600.0 {
		t.Errorf("Aspect = %f, want %f", s.Camera().Aspect, 800.0/600.0)
	}
	if s.Camera().Viewport.Width != 1600 || s.Camera().Viewport.Height != 1200 {
		t.Errorf("viewport = %+v, want 1600x1200", s.Camera().Viewport)
	}
	if s.Field().Ceiling != 30 {
		t.Errorf("Ceiling = %f, want 30", s.Field().Ceiling)
	}
}

func TestSceneResizeInvalid(t *testing.T) {
	s, _, _ := newTestScene(t)
	tests := []struct{ w, h int }{{0, 600}, {800, 0}, {-1, -1}}
	for _, tt := range tests {
		if err := s.Resize(tt.w, tt.h, 1); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("Resize(%d, %d) = %v, want ErrInvalidSize", tt.w, tt.h, err)
		}
	}
	if w, h := s.Size(); w != 960 || h != 640 {
		t.Errorf("Size = %dx%d after rejected resizes, want 960x640", w, h)
	}
}

func TestSceneResizeBeforeInit(t *testing.T) {
	s, _, _ := newTestScene(t)
	if err := s.Resize(400, 300, 0); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if err := s.Init(true); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if w, h := s.Composer().Size(); w != 400 || h != 300 {
		t.Errorf("composer = %dx%d, want 400x300", w, h)
	}
}

func TestPixelSize(t *testing.T) {
	tests := []struct {
		w, h   int
		dpr    float64
		pw, ph int
	}{
		{960, 640, 1, 960, 640},
		{960, 640, 2, 1920, 1280},
		{101, 51, 1.5, 152, 77},
		{1, 1, 0.1, 1, 1},
	}
	for _, tt := range tests {
		pw, ph := pixelSize(tt.w, tt.h, tt.dpr)
		if pw != tt.pw || ph != tt.ph {
			t.Errorf("pixelSize(%d, %d, %v) = %dx%d, want %dx%d", tt.w, tt.h, tt.dpr, pw, ph, tt.pw, tt.ph)
		}
	}
}

func TestSceneScreenshotQueue(t *testing.T) {
	s, _, _ := newTestScene(t)
	s.Screenshot("a")
	s.Screenshot("b")
	if len(s.screenshotQueue) != 2 {
		t.Errorf("queue = %d, want 2", len(s.screenshotQueue))
	}
}
