package folio

import (
	"fmt"
	"os"
	"time"
)

// SetDebugMode enables [folio] diagnostics on stderr and the disposed-element
// checks on tree operations.
func (d *Document) SetDebugMode(on bool) {
	d.debug = on
}

// DebugMode reports whether diagnostics are enabled.
func (d *Document) DebugMode() bool {
	return d.debug
}

// debugf prints a [folio] diagnostic line to stderr when debug mode is on.
func (d *Document) debugf(format string, args ...any) {
	if d == nil || !d.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[folio] "+format+"\n", args...)
}

// debugCheckDisposed panics with a descriptive message when a disposed
// element is used in a tree operation. Only called in debug mode.
func debugCheckDisposed(e *Element, op string) {
	if e.disposed {
		panic(fmt.Sprintf("folio debug: %s on disposed element %s#%s", op, e.Tag, e.ID))
	}
}

// frameStats holds per-frame timing collected by Update in debug mode.
type frameStats struct {
	update   time.Duration
	elements int
}

// debugFrame prints frame timing to stderr every 120 frames.
func (d *Document) debugFrame(st frameStats) {
	if !d.debug || d.sched.Frames()%120 != 0 {
		return
	}
	d.debugf("update: %v | elements: %d | pending: %d", st.update, st.elements, d.sched.Pending())
}

// countElements returns the number of elements reachable from the root.
func (d *Document) countElements() int {
	n := 0
	d.root.walk(func(*Element) { n++ })
	return n
}
