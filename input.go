package hearttree

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// maxPointers bounds tracked pointers: 0 is the mouse, 1-9 are touches.
const maxPointers = 10

// Button is a labeled screen rectangle that fires OnClick when a pointer is
// pressed and released inside it.
type Button struct {
	Rect     Rect
	Label    string
	Fill     Color
	OnClick  func()
	Disabled bool
}

// pointerState tracks which button a pointer went down on.
type pointerState struct {
	down   bool
	target *Button
	touch  ebiten.TouchID
}

// ButtonSet routes mouse and touch input to a set of buttons.
type ButtonSet struct {
	buttons  []*Button
	pointers [maxPointers]pointerState
	touchBuf []ebiten.TouchID

	injectQueue []syntheticPointerEvent

	// scale converts device pixels to layout coordinates.
	scale float64

	fill *ebiten.Image
	op   ebiten.DrawImageOptions
}

// NewButtonSet creates a set handling the given buttons.
func NewButtonSet(buttons ...*Button) *ButtonSet {
	return &ButtonSet{buttons: buttons, scale: 1}
}

// Buttons returns the managed buttons. The slice MUST NOT be mutated.
func (bs *ButtonSet) Buttons() []*Button {
	return bs.buttons
}

// DisableAll stops every button from responding.
func (bs *ButtonSet) DisableAll() {
	for _, b := range bs.buttons {
		b.Disabled = true
	}
	for i := range bs.pointers {
		bs.pointers[i] = pointerState{}
	}
}

// hitTest returns the topmost enabled button at (x, y), or nil.
func (bs *ButtonSet) hitTest(x, y float64) *Button {
	for i := len(bs.buttons) - 1; i >= 0; i-- {
		b := bs.buttons[i]
		if !b.Disabled && b.Rect.Contains(x, y) {
			return b
		}
	}
	return nil
}

// press records a pointer going down at (x, y).
func (bs *ButtonSet) press(pointerID int, x, y float64) {
	ps := &bs.pointers[pointerID]
	ps.down = true
	ps.target = bs.hitTest(x, y)
}

// release fires the button the pointer went down on if it is released
// inside that same button.
func (bs *ButtonSet) release(pointerID int, x, y float64) {
	ps := &bs.pointers[pointerID]
	target := ps.target
	wasDown := ps.down
	ps.down, ps.target = false, nil
	if !wasDown || target == nil || target.Disabled {
		return
	}
	if bs.hitTest(x, y) == target && target.OnClick != nil {
		target.OnClick()
	}
}

// Update polls the mouse and touches. Injected events take priority.
func (bs *ButtonSet) Update() {
	if bs.processInjected() {
		return
	}
	s := bs.scale
	mx, my := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		bs.press(0, float64(mx)/s, float64(my)/s)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		bs.release(0, float64(mx)/s, float64(my)/s)
	}

	bs.touchBuf = inpututil.AppendJustPressedTouchIDs(bs.touchBuf[:0])
	for _, id := range bs.touchBuf {
		slot := bs.freeTouchSlot()
		if slot < 0 {
			continue
		}
		tx, ty := ebiten.TouchPosition(id)
		bs.pointers[slot].touch = id
		bs.press(slot, float64(tx)/s, float64(ty)/s)
	}
	bs.touchBuf = inpututil.AppendJustReleasedTouchIDs(bs.touchBuf[:0])
	for _, id := range bs.touchBuf {
		slot := bs.touchSlot(id)
		if slot < 0 {
			continue
		}
		tx, ty := inpututil.TouchPositionInPreviousTick(id)
		bs.release(slot, float64(tx)/s, float64(ty)/s)
	}
}

func (bs *ButtonSet) touchSlot(id ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if bs.pointers[i].down && bs.pointers[i].touch == id {
			return i
		}
	}
	return -1
}

func (bs *ButtonSet) freeTouchSlot() int {
	for i := 1; i < maxPointers; i++ {
		if !bs.pointers[i].down {
			return i
		}
	}
	return -1
}

// Draw renders every button with its label centered.
func (bs *ButtonSet) Draw(screen *ebiten.Image, font *TTFFont) {
	if bs.fill == nil {
		bs.fill = ebiten.NewImage(1, 1)
		bs.fill.Fill(ColorWhite.toRGBA())
	}
	s := bs.scale
	for _, b := range bs.buttons {
		alpha := 1.0
		if b.Disabled {
			alpha = 0.5
		}
		r := b.Rect
		bs.op.GeoM.Reset()
		bs.op.GeoM.Scale(r.Width*s, r.Height*s)
		bs.op.GeoM.Translate(r.X*s, r.Y*s)
		bs.op.ColorScale.Reset()
		bs.op.ColorScale.Scale(float32(b.Fill.R), float32(b.Fill.G), float32(b.Fill.B), float32(b.Fill.A))
		bs.op.ColorScale.ScaleAlpha(float32(alpha))
		screen.DrawImage(bs.fill, &bs.op)
		if font != nil {
			font.drawCentered(screen, b.Label, (r.X+r.Width/2)*s, (r.Y+r.Height/2)*s, ColorWhite, alpha)
		}
	}
}
