package hearttree

import "testing"

func TestWorldPositionSumsAncestors(t *testing.T) {
	root := NewGroup("root")
	root.SetPosition(0, 4, 0)
	mid := NewGroup("mid")
	mid.SetPosition(1, 2, 3)
	leaf := NewGroup("leaf")
	leaf.SetPosition(10, 20, -5)
	root.AddChild(mid)
	mid.AddChild(leaf)

	got := leaf.WorldPosition()
	want := Vec3{11, 26, -2}
	if got != want {
		t.Errorf("WorldPosition = %+v, want %+v", got, want)
	}
}

func TestWorldAlphaMultiplies(t *testing.T) {
	root := NewGroup("root")
	root.Alpha = 0.5
	child := NewGroup("child")
	child.Alpha = 0.4
	root.AddChild(child)

	if got := child.WorldAlpha(); !approxEqual(got, 0.2, epsilon) {
		t.Errorf("WorldAlpha = %f, want 0.2", got)
	}
}

func TestWorldStateCompose(t *testing.T) {
	n := NewGroup("n")
	n.SetPosition(1, 2, 3)
	n.Alpha = 0.5

	w := rootState.compose(n).compose(n)

	if w.pos != (Vec3{2, 4, 6}) {
		t.Errorf("pos = %+v, want {2 4 6}", w.pos)
	}
	if !approxEqual(w.alpha, 0.25, epsilon) {
		t.Errorf("alpha = %f, want 0.25", w.alpha)
	}
}

func TestGroupDoesNotScaleChildren(t *testing.T) {
	root := NewGroup("root")
	root.SetScale(5)
	child := NewGroup("child")
	child.SetPosition(1, 1, 1)
	root.AddChild(child)

	if got := child.WorldPosition(); got != (Vec3{1, 1, 1}) {
		t.Errorf("WorldPosition = %+v, want {1 1 1}", got)
	}
}
