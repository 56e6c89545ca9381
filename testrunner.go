package folio

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Value  string  `json:"value,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected input events and screenshots across frames
// for scripted runs. Attach to a Document via SetTestRunner.
//
// Supported actions: screenshot, click, move, path, key, scroll, resize,
// hide, show, wait, plus any custom action registered with Handle (the site
// registers "language" and "theme").
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	custom    map[string]func(value string)
	err       error
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Document via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if st.Action == "key" {
			if _, ok := ParseKey(st.Value); !ok {
				return nil, fmt.Errorf("parse test script: step %d: unknown key %q", i, st.Value)
			}
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the document. The runner's step
// method is called from Document.Update before injected input is processed.
func (d *Document) SetTestRunner(runner *TestRunner) {
	d.testRunner = runner
}

// Handle registers fn for a custom action name. The step's value field is
// passed through.
func (r *TestRunner) Handle(action string, fn func(value string)) {
	if r.custom == nil {
		r.custom = make(map[string]func(string))
	}
	r.custom[action] = fn
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Err returns the first unknown-action error encountered, if any.
func (r *TestRunner) Err() error {
	return r.err
}

// step advances the test runner by one frame. Called from Document.Update.
func (r *TestRunner) step(d *Document) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(d.injectQueue) > 0 {
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
		d.Screenshot(st.Label)
	case "click":
		d.InjectClick(st.X, st.Y)
	case "move":
		d.InjectPointerMove(st.X, st.Y)
	case "path":
		d.InjectPath(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "key":
		k, _ := ParseKey(st.Value)
		d.InjectKey(k)
	case "scroll":
		d.InjectScroll(st.Y)
	case "resize":
		d.InjectResize(st.Width, st.Height)
	case "hide":
		d.InjectVisibility(true)
	case "show":
		d.InjectVisibility(false)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	default:
		if fn, ok := r.custom[st.Action]; ok {
			fn(st.Value)
		} else if r.err == nil {
			r.err = fmt.Errorf("test script step %d: unknown action %q", r.cursor-1, st.Action)
			d.debugf("%v", r.err)
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(d.injectQueue) == 0 {
		r.done = true
	}
}

// ParseKey maps a DOM key name ("Escape", "ArrowLeft", "Enter", ...) to a Key.
func ParseKey(name string) (Key, bool) {
	switch name {
	case "Escape", "Esc":
		return KeyEscape, true
	case "ArrowLeft", "Left":
		return KeyArrowLeft, true
	case "ArrowRight", "Right":
		return KeyArrowRight, true
	case "Enter":
		return KeyEnter, true
	case " ", "Space":
		return KeySpace, true
	case "Tab":
		return KeyTab, true
	}
	return KeyNone, false
}
