package hearttree

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"
)

type appState uint8

const (
	stateChoice  appState = iota // waiting for yes or no
	stateFading                  // canvas fading in before init
	stateRunning                 // scene initialized
	stateFailed                  // apology screen
)

const (
	canvasFade   = 2.0
	uiFontSize   = 28
	buttonWidth  = 160
	buttonHeight = 56
	buttonGap    = 40
)

// Question is the prompt shown above the final choice.
const Question = "Will you be my Valentine? 💖"

var (
	yesFill = ColorFromHex("#FF4B7D")
	noFill  = ColorFromHex("#7D7D9C")
)

// App runs the final choice screen and the showcase that follows it. It
// implements ebiten.Game.
type App struct {
	config  Config
	scene   *Scene
	gen     *TextureGenerator
	font    *TTFFont
	buttons *ButtonSet
	script  *ScriptRunner

	state appState
	err   error

	width, height int
}

// NewApp loads the UI font and texture generator. A texture generator
// failure does not fail NewApp; the app opens on the apology screen.
func NewApp(cfg Config) (*App, error) {
	font, err := LoadUIFont(cfg.FontPath, uiFontSize)
	if err != nil {
		return nil, fmt.Errorf("load ui font: %w", err)
	}
	a := newApp(cfg, font)

	gen, err := NewTextureGenerator(cfg.FontPath)
	if err != nil {
		a.fail(fmt.Errorf("texture generator: %w", err))
		return a, nil
	}
	a.gen = gen
	a.scene = NewScene(cfg, gen, NewMessageTarget(font))
	return a, nil
}

// newApp builds the choice screen without a scene.
func newApp(cfg Config, font *TTFFont) *App {
	a := &App{
		config: cfg,
		font:   font,
		width:  cfg.Window.Width,
		height: cfg.Window.Height,
	}
	yes := &Button{Label: "Yes 💖", Fill: yesFill, OnClick: func() { a.choose(true) }}
	no := &Button{Label: "No 💔", Fill: noFill, OnClick: func() { a.choose(false) }}
	a.buttons = NewButtonSet(yes, no)
	a.layoutButtons()
	return a
}

// Scene returns the showcase scene, or nil when the app failed to start.
func (a *App) Scene() *Scene {
	return a.scene
}

// Err returns the error that put the app on the apology screen.
func (a *App) Err() error {
	return a.err
}

// choose handles the final answer. Yes plays the heart burst and fades the
// canvas in; no plays the pleading burst first.
func (a *App) choose(yes bool) {
	if a.state != stateChoice {
		return
	}
	a.buttons.DisableAll()
	a.state = stateFading
	if yes {
		a.scene.RunHeartBurst()
		a.startFinal(true)
		return
	}
	a.scene.RunPleadingBurst(func() { a.startFinal(false) })
}

// startFinal fades the canvas in, then initializes the scene.
func (a *App) startFinal(yes bool) {
	a.scene.Opacity = 0
	fade := TweenValue(&a.scene.Opacity, 1, canvasFade, ease.OutQuad)
	fade.OnComplete = func() {
		if err := a.scene.Init(yes); err != nil {
			a.fail(err)
			return
		}
		a.state = stateRunning
	}
	a.scene.Tween(fade)
}

// SetScript attaches an autoplay script. It runs from the next Update.
func (a *App) SetScript(r *ScriptRunner) {
	a.script = r
}

func (a *App) fail(err error) {
	a.err = err
	a.state = stateFailed
	Logger().Error("showcase stopped", "error", err)
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	if a.state == stateFailed {
		return nil
	}
	if a.script != nil {
		a.script.step(a)
	}
	// Buttons are disabled once a choice is made.
	a.buttons.Update()
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		a.scene.Screenshot("hearttree")
	}
	return a.scene.Update()
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	if a.state == stateFailed {
		sb := screen.Bounds()
		a.font.drawCentered(screen, ApologyText, float64(sb.Dx())/2, float64(sb.Dy())/2, ColorWhite, 1)
		return
	}
	if a.state == stateChoice {
		s := a.buttons.scale
		a.font.drawCentered(screen, Question, float64(a.width)/2*s, float64(a.height)/3*s, ColorWhite, 1)
		a.buttons.Draw(screen, a.font)
	}
	a.scene.Draw(screen)
}

// Layout implements ebiten.Game. The scene renders at device resolution.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := ebiten.Monitor().DeviceScaleFactor()
	if outsideWidth != a.width || outsideHeight != a.height || a.buttons.scale != dpr {
		a.width, a.height = outsideWidth, outsideHeight
		a.buttons.scale = dpr
		a.layoutButtons()
		if a.scene != nil {
			if err := a.scene.Resize(outsideWidth, outsideHeight, dpr); err != nil {
				Logger().Warn("resize ignored", "error", err)
			}
		}
	}
	return pixelSize(outsideWidth, outsideHeight, dpr)
}

// layoutButtons centers the two buttons below the question.
func (a *App) layoutButtons() {
	bs := a.buttons.Buttons()
	total := float64(2*buttonWidth + buttonGap)
	x := (float64(a.width) - total) / 2
	y := float64(a.height)/2 + buttonHeight/2
	bs[0].Rect = Rect{X: x, Y: y, Width: buttonWidth, Height: buttonHeight}
	bs[1].Rect = Rect{X: x + buttonWidth + buttonGap, Y: y, Width: buttonWidth, Height: buttonHeight}
}
