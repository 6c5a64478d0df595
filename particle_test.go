package hearttree

import (
	"math"
	"testing"
)

func TestHeartCurveClosed(t *testing.T) {
	x0, y0 := HeartCurve(0)
	x1, y1 := HeartCurve(2 * math.Pi)
	if !approxEqual(x0, x1, 1e-9) || !approxEqual(y0, y1, 1e-9) {
		t.Errorf("curve not closed: (%f, %f) vs (%f, %f)", x0, y0, x1, y1)
	}
}

func TestHeartCurveKnownPoints(t *testing.T) {
	tests := []struct {
		t, x, y float64
	}{
		{0, 0, 5},
		{math.Pi / 2, 16, 4},
		{math.Pi, 0, -17},
	}
	for _, tt := range tests {
		x, y := HeartCurve(tt.t)
		if !approxEqual(x, tt.x, 1e-9) || !approxEqual(y, tt.y, 1e-9) {
			t.Errorf("HeartCurve(%f) = (%f, %f), want (%f, %f)", tt.t, x, y, tt.x, tt.y)
		}
	}
}

func TestHeartCurveDeterministic(t *testing.T) {
	for i := range 150 {
		ax, ay := HeartPoint(i, 150)
		bx, by := HeartPoint(i, 150)
		if ax != bx || ay != by {
			t.Fatalf("HeartPoint(%d) differs between calls", i)
		}
	}
}

func TestHeartCurveSymmetric(t *testing.T) {
	const n = 120
	for i := 1; i < n/2; i++ {
		ax, ay := HeartPoint(i, n)
		bx, by := HeartPoint(n-i, n)
		if !approxEqual(ax, -bx, 1e-9) || !approxEqual(ay, by, 1e-9) {
			t.Errorf("points %d and %d not mirrored: (%f, %f) vs (%f, %f)", i, n-i, ax, ay, bx, by)
		}
	}
}

func TestHeartPalette(t *testing.T) {
	if len(Hearts) != 6 {
		t.Fatalf("palette size = %d, want 6", len(Hearts))
	}
	if HeartAt(7) != Hearts[1] {
		t.Error("HeartAt should cycle through the palette")
	}
	if got := HeartGlow("💕"); got != ColorFromHex("#FFB6C1") {
		t.Errorf("HeartGlow(💕) = %+v", got)
	}
	if got := HeartGlow("?"); got != Hearts[0].Glow {
		t.Errorf("HeartGlow(unknown) = %+v, want first palette color", got)
	}
}

func newTestField(t *testing.T) (*ParticleField, *stubSource) {
	t.Helper()
	src := &stubSource{}
	return NewParticleField(DefaultFieldConfig(), src, 30), src
}

func TestParticleFieldCounts(t *testing.T) {
	f, src := newTestField(t)

	if got := len(f.FloatingHearts()); got != 50 {
		t.Errorf("hearts = %d, want 50", got)
	}
	if got := f.Outline.NumChildren(); got != 120 {
		t.Errorf("outline = %d, want 120", got)
	}
	if got := len(f.SparkleList()); got != 100 {
		t.Errorf("sparkles = %d, want 100", got)
	}
	// 50 heart dots plus one shared outline and one shared sparkle texture.
	if src.live != 52 {
		t.Errorf("live textures = %d, want 52", src.live)
	}

	f.Dispose()
	if src.live != 0 {
		t.Errorf("live textures after Dispose = %d, want 0", src.live)
	}
}

func TestFloatingHeartInitialRanges(t *testing.T) {
	f, _ := newTestField(t)
	cfg := DefaultFieldConfig()
	for i, h := range f.FloatingHearts() {
		if h.X < -40 || h.X >= 40 || h.Y < -50 || h.Y >= 30 || h.Z < -20 || h.Z >= 20 {
			t.Errorf("heart %d at (%f, %f, %f) outside the spawn box", i, h.X, h.Y, h.Z)
		}
		if !cfg.HeartScale.Contains(h.ScaleX) || !cfg.Speed.Contains(h.Speed) ||
			!cfg.SwaySpeed.Contains(h.SwaySpeed) || !cfg.SwayAmplitude.Contains(h.SwayAmplitude) {
			t.Errorf("heart %d has out-of-range parameters: %+v", i, h)
		}
		if h.BlendMode != BlendAdd {
			t.Errorf("heart %d BlendMode = %d, want BlendAdd", i, h.BlendMode)
		}
	}
}

func TestFloatingHeartWraps(t *testing.T) {
	f, _ := newTestField(t)
	h := f.FloatingHearts()[0]
	h.Y = f.Ceiling - 0.001
	h.Speed = 0.5

	f.Update(0.1, 1)

	if h.Y != -f.Ceiling {
		t.Errorf("Y = %f, want %f after wrapping", h.Y, -f.Ceiling)
	}
	if h.X < -40 || h.X >= 40 {
		t.Errorf("X = %f, want re-sampled in [-40, 40)", h.X)
	}
}

func TestFloatingHeartWrapInvariant(t *testing.T) {
	f, _ := newTestField(t)
	elapsed := 0.0
	runFor(300, func(dt float64) {
		before := make([]float64, len(f.hearts))
		for i, h := range f.hearts {
			before[i] = h.Y + h.Speed*dt
		}
		elapsed += dt
		f.Update(dt, elapsed)
		for i, h := range f.hearts {
			if before[i] > f.Ceiling && h.Y != -f.Ceiling {
				t.Fatalf("heart %d crossed the ceiling but Y = %f", i, h.Y)
			}
			if h.Y > f.Ceiling {
				t.Fatalf("heart %d above the ceiling after update: %f", i, h.Y)
			}
		}
	})
}

func TestFloatingHeartDrifts(t *testing.T) {
	f, _ := newTestField(t)
	h := f.FloatingHearts()[0]
	h.SetPosition(0, 0, 0)
	h.Speed = 0.4
	h.SwayAmplitude = 0

	f.Update(0.5, 0.5)

	if !approxEqual(h.Y, 0.2, 1e-9) || h.X != 0 {
		t.Errorf("position = (%f, %f), want (0, 0.2)", h.X, h.Y)
	}
}

func TestSparkleOpacityBounded(t *testing.T) {
	f, _ := newTestField(t)
	for _, s := range f.SparkleList() {
		for step := range 1000 {
			elapsed := float64(step) * 0.05
			o := s.Opacity(elapsed)
			if o < 0 || o > s.BaseOpacity+1e-12 {
				t.Fatalf("opacity %f outside [0, %f] at %f", o, s.BaseOpacity, elapsed)
			}
		}
	}
}

func TestSparkleOpacityContinuous(t *testing.T) {
	s := &Sparkle{Node: NewGroup("s"), BaseOpacity: 0.6, TwinkleSpeed: 2}
	const dt = 1.0 / 60
	// |d/dt| <= base * 0.5 * twinkle.
	maxStep := s.BaseOpacity*0.5*s.TwinkleSpeed*dt + 1e-12
	prev := s.Opacity(0)
	for i := 1; i < 600; i++ {
		o := s.Opacity(float64(i) * dt)
		if math.Abs(o-prev) > maxStep {
			t.Fatalf("opacity jumps by %f at step %d", math.Abs(o-prev), i)
		}
		prev = o
	}
}

func TestSparklePlacement(t *testing.T) {
	f, _ := newTestField(t)
	cfg := DefaultFieldConfig()
	if f.Sparkles.Y != 4 {
		t.Errorf("sparkle group Y = %f, want 4", f.Sparkles.Y)
	}
	for i, s := range f.SparkleList() {
		r := math.Sqrt(s.X*s.X + s.Y*s.Y + s.Z*s.Z)
		if r < cfg.SparkleRadius.Min-1e-9 || r > cfg.SparkleRadius.Max+1e-9 {
			t.Errorf("sparkle %d radius %f outside [8, 28]", i, r)
		}
		if !cfg.SparkleOpacity.Contains(s.BaseOpacity) || !cfg.SparkleTwinkle.Contains(s.TwinkleSpeed) {
			t.Errorf("sparkle %d parameters out of range", i)
		}
	}
}

func TestSparkleUpdateSetsAlpha(t *testing.T) {
	f, _ := newTestField(t)
	f.Update(1.0/60, 1.3)
	for i, s := range f.SparkleList() {
		if s.Alpha != s.Opacity(1.3) {
			t.Fatalf("sparkle %d Alpha = %f, want %f", i, s.Alpha, s.Opacity(1.3))
		}
	}
}

func TestOutlineOnCurve(t *testing.T) {
	f, _ := newTestField(t)
	cfg := DefaultFieldConfig()
	for i, n := range f.Outline.Children() {
		x, y := HeartPoint(i, cfg.OutlineCount)
		if !approxEqual(n.X, x*1.1, 1e-9) || !approxEqual(n.Y, y*1.1, 1e-9) {
			t.Errorf("outline %d at (%f, %f), want (%f, %f)", i, n.X, n.Y, x*1.1, y*1.1)
		}
		if n.Z < -5 || n.Z >= -3 {
			t.Errorf("outline %d z = %f, want in [-5, -3)", i, n.Z)
		}
	}
}

func TestOutlineFadesIn(t *testing.T) {
	f, _ := newTestField(t)
	if f.Outline.Alpha != 0 {
		t.Fatalf("outline alpha = %f, want 0 at start", f.Outline.Alpha)
	}
	elapsed := 0.0
	step := func(dt float64) {
		elapsed += dt
		f.Update(dt, elapsed)
	}
	runFor(2.4, step)
	if f.Outline.Alpha != 0 {
		t.Errorf("outline alpha = %f before 2.5 s, want 0", f.Outline.Alpha)
	}
	runFor(5.2, step)
	if math.Abs(f.Outline.Alpha-0.5) > 1e-3 {
		t.Errorf("outline alpha = %f after fade, want 0.5", f.Outline.Alpha)
	}
}
