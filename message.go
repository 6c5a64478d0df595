package hearttree

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// --- TTFFont ---

// TTFFont wraps Ebitengine's text/v2 for TrueType font rendering.
type TTFFont struct {
	face *text.GoTextFace
	lh   float64 // cached line height

	// cmap answers glyph coverage; nil when the data is not a single sfnt
	// font, in which case text is drawn unfiltered.
	cmap *sfnt.Font
	buf  sfnt.Buffer
}

// LoadTTFFont loads a TrueType font from raw TTF/OTF data at the given size.
func LoadTTFFont(ttfData []byte, size float64) (*TTFFont, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("parse TTF data: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	f := &TTFFont{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}
	if cmap, err := sfnt.Parse(ttfData); err == nil {
		f.cmap = cmap
	}
	return f, nil
}

// LoadUIFont loads the font at path, or Go Regular when path is empty.
func LoadUIFont(path string, size float64) (*TTFFont, error) {
	if path == "" {
		return LoadTTFFont(goregular.TTF, size)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	return LoadTTFFont(data, size)
}

// MeasureString returns the width and height of the rendered text.
func (f *TTFFont) MeasureString(s string) (width, height float64) {
	return text.Measure(f.Printable(s), f.face, f.lh)
}

// HasGlyph reports whether the font maps r to a glyph.
func (f *TTFFont) HasGlyph(r rune) bool {
	if f.cmap == nil {
		return true
	}
	idx, err := f.cmap.GlyphIndex(&f.buf, r)
	return err == nil && idx != 0
}

// Printable drops the runes the font has no glyph for, such as emoji in Go
// Regular, and trims the space left at line ends.
func (f *TTFFont) Printable(s string) string {
	if f.cmap == nil {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || f.HasGlyph(r) {
			b.WriteRune(r)
		}
	}
	lines := strings.Split(b.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, "\n")
}

// LineHeight returns the vertical distance between baselines.
func (f *TTFFont) LineHeight() float64 {
	return f.lh
}

// drawCentered draws s with its center at (cx, cy).
func (f *TTFFont) drawCentered(dst *ebiten.Image, s string, cx, cy float64, c Color, alpha float64) {
	op := &text.DrawOptions{}
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.LineSpacing = f.lh
	op.GeoM.Translate(cx, cy)
	op.ColorScale.Scale(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	op.ColorScale.ScaleAlpha(float32(clamp01(alpha)))
	text.Draw(dst, f.Printable(s), f.face, op)
}

// --- Messages ---

// Message texts revealed at the end of the tree sequence.
var (
	YesMessage = []string{"Tum mere Heart Tree ka hissa ho, Pookie 💝"}
	NoMessage  = []string{"Chahe tum 'No' kaho...", "par main tumhe hamesha pyaar karunga 💌"}
)

// MessageText returns the lines for the chosen path.
func MessageText(yes bool) []string {
	if yes {
		return YesMessage
	}
	return NoMessage
}

// ApologyText replaces all content when initialization fails.
const ApologyText = "Oops! Something went wrong. Please refresh."

// messageSlide is the distance in pixels the text rises while fading in.
const messageSlide = 20

var (
	messageBackdrop = Color{0, 0, 0, 0.35}
	messageColor    = ColorWhite
)

// MessageTarget is the terminal text panel. Show fills it once per run; the
// reveal animation drives its alpha and offset fields.
type MessageTarget struct {
	Lines []string

	// ContainerAlpha fades the panel backdrop.
	ContainerAlpha float64
	// TextAlpha fades the lines.
	TextAlpha float64
	// OffsetY shifts the lines down, in pixels.
	OffsetY float64

	font  *TTFFont
	shown int
	panel *ebiten.Image
}

// NewMessageTarget creates a hidden panel drawing with font.
func NewMessageTarget(font *TTFFont) *MessageTarget {
	return &MessageTarget{font: font, OffsetY: messageSlide}
}

// Show replaces the panel text and makes it visible at zero opacity.
func (m *MessageTarget) Show(lines []string) {
	m.Lines = lines
	m.ContainerAlpha = 0
	m.TextAlpha = 0
	m.OffsetY = messageSlide
	m.shown++
}

// Shown returns how many times Show has been called.
func (m *MessageTarget) Shown() int {
	return m.shown
}

// Visible reports whether the panel has text.
func (m *MessageTarget) Visible() bool {
	return m.shown > 0
}

// Draw renders the panel centered in the lower third of screen.
func (m *MessageTarget) Draw(screen *ebiten.Image) {
	if !m.Visible() || m.font == nil {
		return
	}
	sb := screen.Bounds()
	cx := float64(sb.Min.X) + float64(sb.Dx())/2
	cy := float64(sb.Min.Y) + float64(sb.Dy())*0.8

	content := strings.Join(m.Lines, "\n")
	w, h := m.font.MeasureString(content)
	pad := m.font.LineHeight() / 2

	if m.ContainerAlpha > 0 {
		m.ensurePanel()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(w+2*pad, h+2*pad)
		op.GeoM.Translate(cx-w/2-pad, cy-h/2-pad)
		op.ColorScale.ScaleAlpha(float32(clamp01(m.ContainerAlpha)))
		screen.DrawImage(m.panel, op)
	}
	if m.TextAlpha > 0 {
		m.font.drawCentered(screen, content, cx, cy+m.OffsetY, messageColor, m.ContainerAlpha*m.TextAlpha)
	}
}

func (m *MessageTarget) ensurePanel() {
	if m.panel != nil {
		return
	}
	m.panel = ebiten.NewImage(1, 1)
	m.panel.Fill(messageBackdrop.toRGBA())
}
