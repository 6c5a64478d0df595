package hearttree

import (
	"cmp"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// RenderCommand is a single projected sprite draw, emitted during traversal.
type RenderCommand struct {
	image     *ebiten.Image
	X, Y      float64 // screen position of the sprite center
	W, H      float64 // screen size in pixels
	Rotation  float64
	Alpha     float64
	BlendMode BlendMode
	depth     float64
	treeOrder int
}

// renderer turns sprite groups into draw calls for a single camera.
type renderer struct {
	commands []RenderCommand
	op       ebiten.DrawImageOptions
}

const defaultCommandCap = 512

func newRenderer() *renderer {
	return &renderer{commands: make([]RenderCommand, 0, defaultCommandCap)}
}

// draw renders every visible sprite under roots into target, farthest first.
// It returns the number of sprites drawn.
func (r *renderer) draw(target *ebiten.Image, cam *Camera, roots ...*Node) int {
	r.commands = r.commands[:0]
	treeOrder := 0
	for _, root := range roots {
		r.traverse(root, rootState, cam, &treeOrder)
	}
	r.sort()
	r.submit(target)
	return len(r.commands)
}

// traverse walks the tree depth-first, accumulating world state and emitting
// commands for sprites in front of the camera.
func (r *renderer) traverse(n *Node, parent worldState, cam *Camera, treeOrder *int) {
	if !n.Visible || n.disposed {
		return
	}
	w := parent.compose(n)
	if w.alpha <= 0 {
		return
	}
	if n.Type == NodeTypeSprite && n.Texture != nil && n.Texture.Image() != nil {
		sx, sy, unit, ok := cam.Project(w.pos)
		if ok {
			*treeOrder++
			r.commands = append(r.commands, RenderCommand{
				image:     n.Texture.Image(),
				X:         sx,
				Y:         sy,
				W:         n.ScaleX * unit,
				H:         n.ScaleY * unit,
				Rotation:  n.Rotation,
				Alpha:     w.alpha,
				BlendMode: n.BlendMode,
				depth:     cam.Z - w.pos.Z,
				treeOrder: *treeOrder,
			})
		}
	}
	for _, c := range n.children {
		r.traverse(c, w, cam, treeOrder)
	}
}

// sort orders commands back to front. Ties keep tree order.
func (r *renderer) sort() {
	slices.SortStableFunc(r.commands, func(a, b RenderCommand) int {
		if c := cmp.Compare(b.depth, a.depth); c != 0 {
			return c
		}
		return cmp.Compare(a.treeOrder, b.treeOrder)
	})
}

func (r *renderer) submit(target *ebiten.Image) {
	op := &r.op
	for i := range r.commands {
		cmd := &r.commands[i]
		b := cmd.image.Bounds()
		tw, th := float64(b.Dx()), float64(b.Dy())
		if tw == 0 || th == 0 || cmd.W == 0 || cmd.H == 0 {
			continue
		}
		op.GeoM.Reset()
		op.GeoM.Translate(-tw/2, -th/2)
		op.GeoM.Scale(cmd.W/tw, cmd.H/th)
		// Screen Y points down, so a counter-clockwise world rotation is
		// negated here.
		op.GeoM.Rotate(-cmd.Rotation)
		op.GeoM.Translate(cmd.X, cmd.Y)
		op.ColorScale.Reset()
		op.ColorScale.ScaleAlpha(float32(cmd.Alpha))
		op.Blend = cmd.BlendMode.EbitenBlend()
		op.Filter = ebiten.FilterLinear
		target.DrawImage(cmd.image, op)
	}
}
