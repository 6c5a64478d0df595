package hearttree

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// debugStats accumulates frame timings between log lines. Only populated
// when the scene runs in debug mode.
type debugStats struct {
	updateTime time.Duration
	drawTime   time.Duration
	frames     int
	sprites    int
	last       time.Time
}

// debugLogInterval is how often accumulated stats are logged.
const debugLogInterval = time.Second

// SetDebugMode enables or disables the frame stats overlay and log.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	s.stats = debugStats{}
}

// debugFrame prints the overlay and, about once a second, logs averaged
// timings at debug level.
func (s *Scene) debugFrame(screen *ebiten.Image) {
	st := &s.stats
	st.frames++
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nsprites: %d\nbursts: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), st.sprites, len(s.bursts)))

	now := time.Now()
	if st.last.IsZero() {
		st.last = now
		return
	}
	if now.Sub(st.last) < debugLogInterval {
		return
	}
	n := time.Duration(st.frames)
	Logger().Debug("frame stats",
		"frames", st.frames,
		"update", st.updateTime/n,
		"draw", st.drawTime/n,
		"sprites", st.sprites,
		"bursts", len(s.bursts),
		"pooled_targets", s.pool.Live(),
	)
	*st = debugStats{sprites: st.sprites, last: now}
}
