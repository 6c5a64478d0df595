package hearttree

import (
	"encoding/json"
	"fmt"
	"os"
)

// scriptStep is a single action in an autoplay script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner plays injected clicks, waits and screenshots across frames,
// for unattended captures of the showcase. Attach it with App.SetScript.
//
// Actions:
//
//	click       press and release at (x, y) in layout coordinates
//	choose      click the "yes" or "no" button named by label
//	wait        idle for frames updates
//	screenshot  capture the next frame under label
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// ParseScript parses a JSON autoplay script.
func ParseScript(jsonData []byte) (*ScriptRunner, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case "click", "wait", "screenshot":
		case "choose":
			if st.Label != "yes" && st.Label != "no" {
				return nil, fmt.Errorf("parse script: step %d: choose label must be yes or no, got %q", i, st.Label)
			}
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// LoadScript reads and parses the script at path.
func LoadScript(path string) (*ScriptRunner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	return ParseScript(data)
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. Called from App.Update before
// input is polled.
func (r *ScriptRunner) step(a *App) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if a.buttons.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		if a.scene != nil {
			a.scene.Screenshot(st.Label)
		}
	case "click":
		a.buttons.InjectClick(st.X, st.Y)
	case "choose":
		b := a.buttons.Buttons()[0]
		if st.Label == "no" {
			b = a.buttons.Buttons()[1]
		}
		a.buttons.InjectClick(b.Rect.X+b.Rect.Width/2, b.Rect.Y+b.Rect.Height/2)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && a.buttons.Pending() == 0 {
		r.done = true
		Logger().Info("script finished", "steps", len(r.steps))
	}
}
