package hearttree

import (
	"math"
	"testing"
)

func newTestTree(t *testing.T, yes bool) (*HeartTree, *MessageTarget, *stubSource) {
	t.Helper()
	src := &stubSource{}
	msg := NewMessageTarget(nil)
	return GrowTree(DefaultTreeConfig(), src, msg, yes), msg, src
}

func TestGrowTreeSprites(t *testing.T) {
	tree, _, src := newTestTree(t, true)
	if got := tree.Root.NumChildren(); got != 150 {
		t.Fatalf("sprites = %d, want 150", got)
	}
	if tree.Root.Y != 4 {
		t.Errorf("group Y = %f, want 4", tree.Root.Y)
	}
	for i, g := range src.glyphs {
		if g != Hearts[i%6].Glyph {
			t.Fatalf("glyph %d = %q, want %q", i, g, Hearts[i%6].Glyph)
		}
	}
	for i, n := range tree.Root.Children() {
		if n.X != 0 || n.Y != -10 || n.Z != 0 || n.ScaleX != 0 {
			t.Fatalf("sprite %d starts at (%f, %f, %f) scale %f", i, n.X, n.Y, n.Z, n.ScaleX)
		}
	}
}

func TestGrowTreeTargets(t *testing.T) {
	tree, _, _ := newTestTree(t, true)
	targets := tree.Targets()
	if len(targets) != 150 {
		t.Fatalf("targets = %d, want 150", len(targets))
	}
	for i, p := range targets {
		x, y := HeartPoint(i, 150)
		if !approxEqual(p.X, x*0.65, epsilon) || !approxEqual(p.Y, y*0.65, epsilon) {
			t.Errorf("target %d = (%f, %f), want (%f, %f)", i, p.X, p.Y, x*0.65, y*0.65)
		}
		if math.Abs(p.Z) > 2 {
			t.Errorf("target %d z = %f, want |z| <= 2", i, p.Z)
		}
	}
}

func TestGrowTreeDuration(t *testing.T) {
	tree, _, _ := newTestTree(t, true)
	// Last sprite starts at 0.2 + 149·0.02 and rotates for 2 s; the message
	// follows 0.2 s later.
	if got := tree.Duration(); !approxEqual(got, 5.18, 1e-9) {
		t.Errorf("Duration = %f, want 5.18", got)
	}
	if got := tree.RevealAt(); !approxEqual(got, 5.38, 1e-9) {
		t.Errorf("RevealAt = %f, want 5.38", got)
	}

	// The reveal schedules fades; neither value moves.
	runFor(8.5, tree.Update)
	if got := tree.Duration(); !approxEqual(got, 5.18, 1e-9) {
		t.Errorf("Duration = %f after the reveal, want 5.18", got)
	}
	if got := tree.RevealAt(); !approxEqual(got, 5.38, 1e-9) {
		t.Errorf("RevealAt = %f after the reveal, want 5.38", got)
	}
}

func TestGrowTreeWithoutMessage(t *testing.T) {
	src := &stubSource{}
	tree := GrowTree(DefaultTreeConfig(), src, nil, true)
	runFor(8.5, tree.Update)
	if got := tree.Root.NumChildren(); got != 150 {
		t.Errorf("sprites = %d, want 150", got)
	}
	tree.Dispose()
	if src.live != 0 {
		t.Errorf("live textures = %d, want 0", src.live)
	}
}

func TestGrowTreeSettles(t *testing.T) {
	tree, _, _ := newTestTree(t, true)
	runFor(6, tree.Update)
	targets := tree.Targets()
	for i, n := range tree.Root.Children() {
		p := targets[i]
		if !approxEqual(n.X, p.X, 1e-3) || !approxEqual(n.Y, p.Y, 1e-3) || !approxEqual(n.Z, p.Z, 1e-3) {
			t.Errorf("sprite %d at (%f, %f, %f), want %+v", i, n.X, n.Y, n.Z, p)
		}
		if !approxEqual(n.ScaleX, 2.2, 1e-3) || !approxEqual(n.ScaleY, 2.2, 1e-3) {
			t.Errorf("sprite %d scale = %f, want 2.2", i, n.ScaleX)
		}
		if !approxEqual(n.Rotation, 0, 1e-3) {
			t.Errorf("sprite %d rotation = %f, want 0", i, n.Rotation)
		}
	}
}

func TestGrowTreeStagger(t *testing.T) {
	tree, _, _ := newTestTree(t, true)
	runFor(0.3, tree.Update)
	children := tree.Root.Children()
	if children[0].ScaleX == 0 {
		t.Error("first sprite should have started by 0.3 s")
	}
	if children[149].ScaleX != 0 || children[149].Y != -10 {
		t.Error("last sprite should not have moved by 0.3 s")
	}
}

func TestGrowTreeRevealsMessage(t *testing.T) {
	tests := []struct {
		name string
		yes  bool
		want []string
	}{
		{"yes", true, YesMessage},
		{"no", false, NoMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, msg, _ := newTestTree(t, tt.yes)
			runFor(5.3, tree.Update)
			if msg.Visible() {
				t.Fatal("message visible before the sprites settle")
			}
			runFor(3.2, tree.Update)
			if msg.Shown() != 1 {
				t.Fatalf("Shown = %d, want 1", msg.Shown())
			}
			if len(msg.Lines) != len(tt.want) {
				t.Fatalf("Lines = %q, want %q", msg.Lines, tt.want)
			}
			for i := range tt.want {
				if msg.Lines[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, msg.Lines[i], tt.want[i])
				}
			}
			if !approxEqual(msg.ContainerAlpha, 1, 1e-3) || !approxEqual(msg.TextAlpha, 1, 1e-3) {
				t.Errorf("alpha = %f/%f, want 1/1", msg.ContainerAlpha, msg.TextAlpha)
			}
			if !approxEqual(msg.OffsetY, 0, 1e-3) {
				t.Errorf("OffsetY = %f, want 0", msg.OffsetY)
			}
		})
	}
}

func TestGrowTreeTextFollowsContainer(t *testing.T) {
	tree, msg, _ := newTestTree(t, true)
	runFor(5.5, tree.Update)
	if !msg.Visible() {
		t.Fatal("message not revealed by 5.5 s")
	}
	if msg.ContainerAlpha <= 0 {
		t.Error("container should be fading in")
	}
	if msg.TextAlpha != 0 {
		t.Errorf("TextAlpha = %f, want 0 until the container is nearly in", msg.TextAlpha)
	}
}

func TestHeartTreeDispose(t *testing.T) {
	tree, _, src := newTestTree(t, false)
	tree.Dispose()
	if src.live != 0 {
		t.Errorf("live textures = %d, want 0", src.live)
	}
}
