package hearttree

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields simultaneously. Start values
// are captured on the first Update unless From set them explicitly, so a
// group queued on a Timeline picks up whatever the fields hold when its
// offset is reached. If the target node is disposed, the group stops
// immediately.
type TweenGroup struct {
	tweens   [4]*gween.Tween
	count    int
	fields   [4]*float64
	to       [4]float64
	duration float32
	fn       ease.TweenFunc
	target   *Node
	Done     bool

	// OnComplete runs once, on the Update that finishes the group.
	OnComplete func()
}

func newTweenGroup(target *Node, duration float32, fn ease.TweenFunc, fields []*float64, to []float64) *TweenGroup {
	g := &TweenGroup{count: len(fields), target: target, duration: duration, fn: fn}
	copy(g.fields[:], fields)
	copy(g.to[:], to)
	return g
}

// From sets the animated fields to vals immediately and uses them as the
// start values.
func (g *TweenGroup) From(vals ...float64) *TweenGroup {
	for i := 0; i < g.count && i < len(vals); i++ {
		*g.fields[i] = vals[i]
	}
	g.begin()
	return g
}

// Duration returns the group's duration in seconds.
func (g *TweenGroup) Duration() float64 {
	return float64(g.duration)
}

func (g *TweenGroup) begin() {
	for i := 0; i < g.count; i++ {
		g.tweens[i] = gween.New(float32(*g.fields[i]), float32(g.to[i]), g.duration, g.fn)
	}
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. If the target node has been disposed, Done is set to true and no
// writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}
	if g.tweens[0] == nil {
		g.begin()
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	if g.Done && g.OnComplete != nil {
		g.OnComplete()
	}
}

// TweenPosition animates node.X, node.Y and node.Z.
func TweenPosition(node *Node, to Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn,
		[]*float64{&node.X, &node.Y, &node.Z}, []float64{to.X, to.Y, to.Z})
}

// TweenScale animates node.ScaleX and node.ScaleY to a uniform scale.
func TweenScale(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn,
		[]*float64{&node.ScaleX, &node.ScaleY}, []float64{to, to})
}

// TweenAlpha animates node.Alpha.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, []*float64{&node.Alpha}, []float64{to})
}

// TweenRotation animates node.Rotation (radians).
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, []*float64{&node.Rotation}, []float64{to})
}

// TweenValue animates a single field that does not belong to a node.
func TweenValue(field *float64, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(nil, duration, fn, []*float64{field}, []float64{to})
}

// OutBack returns a back-out ease with the given overshoot. gween's
// ease.OutBack fixes the overshoot at 1.70158.
func OutBack(overshoot float32) ease.TweenFunc {
	return func(t, b, c, d float32) float32 {
		t = t/d - 1
		return c*(t*t*((overshoot+1)*t+overshoot)+1) + b
	}
}

// --- Timeline ---

type timelineEntry struct {
	at    float64
	tween *TweenGroup
	call  func()
	fired bool
}

// Timeline schedules tween groups and callbacks at absolute offsets from
// its start. Entries are advanced in insertion order, so where two groups
// write the same field at once the later one wins.
type Timeline struct {
	entries []timelineEntry
	elapsed float64
	lastEnd float64
	end     float64
}

// NewTimeline creates an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// Add schedules g to start at offset at (seconds).
func (tl *Timeline) Add(g *TweenGroup, at float64) *Timeline {
	tl.entries = append(tl.entries, timelineEntry{at: at, tween: g})
	tl.lastEnd = at + g.Duration()
	tl.end = max(tl.end, tl.lastEnd)
	return tl
}

// Call schedules fn to run once the timeline reaches at.
func (tl *Timeline) Call(fn func(), at float64) *Timeline {
	tl.entries = append(tl.entries, timelineEntry{at: at, call: fn})
	tl.end = max(tl.end, at)
	return tl
}

// LastEnd returns the end offset of the most recently added tween group.
func (tl *Timeline) LastEnd() float64 {
	return tl.lastEnd
}

// Duration returns the offset at which the last entry finishes.
func (tl *Timeline) Duration() float64 {
	return tl.end
}

// Elapsed returns the time advanced so far.
func (tl *Timeline) Elapsed() float64 {
	return tl.elapsed
}

// Len returns the number of scheduled entries.
func (tl *Timeline) Len() int {
	return len(tl.entries)
}

// Done reports whether every entry has finished or fired.
func (tl *Timeline) Done() bool {
	for i := range tl.entries {
		e := &tl.entries[i]
		if e.call != nil && !e.fired {
			return false
		}
		if e.tween != nil && !e.tween.Done {
			return false
		}
	}
	return true
}

// Update advances the timeline by dt seconds. A group whose offset falls
// inside this step is advanced only by the part of dt past its offset.
// Callbacks may schedule further entries.
func (tl *Timeline) Update(dt float64) {
	prev := tl.elapsed
	tl.elapsed += dt
	for i := 0; i < len(tl.entries); i++ {
		e := &tl.entries[i]
		switch {
		case e.call != nil:
			if !e.fired && tl.elapsed >= e.at {
				e.fired = true
				e.call()
			}
		case e.tween != nil:
			if e.tween.Done || tl.elapsed <= e.at {
				continue
			}
			step := tl.elapsed - max(e.at, prev)
			e.tween.Update(float32(step))
		}
	}
}
