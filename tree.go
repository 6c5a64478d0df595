package hearttree

import (
	"math"
	"math/rand/v2"

	"github.com/tanema/gween/ease"
)

// TreeConfig holds the timings of the growth sequence.
type TreeConfig struct {
	Count        int
	Start        Vec3
	CurveScale   float64
	ZSpread      float64
	GroupOffsetY float64

	BaseDelay float64
	Stagger   float64

	MoveDuration    float32
	PopScale        float64
	PopDuration     float32
	PopOvershoot    float32
	SettleScale     float64
	SettleDuration  float32
	SettleOverlap   float64
	RotateDuration  float32
	MessageDelay    float64
	ContainerFade   float32
	TextFade        float32
	TextFadeOverlap float64
}

// DefaultTreeConfig returns the sequence used by the showcase.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		Count:        150,
		Start:        Vec3{0, -10, 0},
		CurveScale:   0.65,
		ZSpread:      4,
		GroupOffsetY: 4,

		BaseDelay: 0.2,
		Stagger:   0.02,

		MoveDuration:    1.8,
		PopScale:        3,
		PopDuration:     0.9,
		PopOvershoot:    2,
		SettleScale:     2.2,
		SettleDuration:  1.0,
		SettleOverlap:   0.6,
		RotateDuration:  2.0,
		MessageDelay:    0.2,
		ContainerFade:   1.5,
		TextFade:        1.5,
		TextFadeOverlap: 0.5,
	}
}

// HeartTree grows glyph sprites from a common point onto the heart curve,
// then reveals a message.
type HeartTree struct {
	Root     *Node
	config   TreeConfig
	timeline *Timeline
	targets  []Vec3
	message  *MessageTarget

	spriteEnd float64
	revealAt  float64
}

// GrowTree builds the sprites and schedules the sequence. The message for
// the yes or no path is revealed on msg once the last sprite settles; a nil
// msg skips the reveal.
func GrowTree(cfg TreeConfig, src TextureSource, msg *MessageTarget, yes bool) *HeartTree {
	t := &HeartTree{
		Root:     NewGroup("tree"),
		config:   cfg,
		timeline: NewTimeline(),
		targets:  make([]Vec3, 0, cfg.Count),
		message:  msg,
	}
	t.Root.Y = cfg.GroupOffsetY

	for i := range cfg.Count {
		h := HeartAt(i)
		n := NewSprite("tree", src.GlyphTexture(h.Glyph, h.Glow))
		n.SetPosition(cfg.Start.X, cfg.Start.Y, cfg.Start.Z)
		n.SetScale(0)
		t.Root.AddChild(n)

		x, y := HeartPoint(i, cfg.Count)
		target := Vec3{x * cfg.CurveScale, y * cfg.CurveScale, centered(cfg.ZSpread)}
		t.targets = append(t.targets, target)
		t.schedule(n, target, cfg.BaseDelay+float64(i)*cfg.Stagger)
	}

	t.spriteEnd = t.timeline.Duration()
	t.revealAt = t.timeline.LastEnd() + cfg.MessageDelay
	lines := MessageText(yes)
	t.timeline.Call(func() { t.reveal(lines) }, t.revealAt)
	return t
}

// schedule chains one sprite's animations from its offset.
func (t *HeartTree) schedule(n *Node, target Vec3, at float64) {
	cfg := &t.config
	tl := t.timeline

	tl.Add(TweenPosition(n, target, cfg.MoveDuration, ease.OutExpo), at)

	tl.Add(TweenScale(n, cfg.PopScale, cfg.PopDuration, OutBack(cfg.PopOvershoot)).From(0, 0), at)
	settleAt := at + float64(cfg.PopDuration) - cfg.SettleOverlap
	tl.Add(TweenScale(n, cfg.SettleScale, cfg.SettleDuration, ease.InOutCubic), settleAt)

	spin := (rand.Float64() - 0.5) * math.Pi
	tl.Add(TweenRotation(n, 0, cfg.RotateDuration, ease.OutQuart).From(spin), at)
}

// reveal shows lines and fades the panel in, then the text.
func (t *HeartTree) reveal(lines []string) {
	cfg := &t.config
	m := t.message
	if m == nil {
		return
	}
	m.Show(lines)
	start := t.timeline.Elapsed()
	t.timeline.Add(TweenValue(&m.ContainerAlpha, 1, cfg.ContainerFade, ease.OutQuad), start)
	textAt := start + float64(cfg.ContainerFade) - cfg.TextFadeOverlap
	t.timeline.Add(TweenValue(&m.TextAlpha, 1, cfg.TextFade, ease.OutExpo), textAt)
	t.timeline.Add(TweenValue(&m.OffsetY, 0, cfg.TextFade, ease.OutExpo), textAt)
	Logger().Info("message revealed", "lines", len(lines))
}

// Targets returns each sprite's final position, relative to the tree group.
func (t *HeartTree) Targets() []Vec3 {
	return t.targets
}

// Duration returns the offset at which the sprite animations end.
func (t *HeartTree) Duration() float64 {
	return t.spriteEnd
}

// RevealAt returns the offset at which the message is revealed.
func (t *HeartTree) RevealAt() float64 {
	return t.revealAt
}

// Update advances the sequence by dt seconds.
func (t *HeartTree) Update(dt float64) {
	t.timeline.Update(dt)
}

// Dispose releases every sprite.
func (t *HeartTree) Dispose() {
	t.Root.Dispose()
}
