package folio

type syntheticKind uint8

const (
	synthMove syntheticKind = iota
	synthClick
	synthKey
	synthScroll
	synthResize
	synthVisibility
)

// syntheticEvent represents a single injected input event. Viewport
// coordinates are used, matching what a screenshot shows.
type syntheticEvent struct {
	kind   syntheticKind
	x, y   float64
	key    Key
	hidden bool
}

// InjectPointerMove queues a pointer move at viewport coordinates (x, y).
// Events are consumed one per frame by Update.
func (d *Document) InjectPointerMove(x, y float64) {
	d.injectQueue = append(d.injectQueue, syntheticEvent{kind: synthMove, x: x, y: y})
}

// InjectClick queues a click on the topmost element under (x, y).
func (d *Document) InjectClick(x, y float64) {
	d.injectQueue = append(d.injectQueue, syntheticEvent{kind: synthClick, x: x, y: y})
}

// InjectKey queues a key press on the focused element.
func (d *Document) InjectKey(k Key) {
	d.injectQueue = append(d.injectQueue, syntheticEvent{kind: synthKey, key: k})
}

// InjectScroll queues a page scroll by dy.
func (d *Document) InjectScroll(dy float64) {
	d.injectQueue = append(d.injectQueue, syntheticEvent{kind: synthScroll, y: dy})
}

// InjectResize queues a viewport resize.
func (d *Document) InjectResize(w, h float64) {
	d.injectQueue = append(d.injectQueue, syntheticEvent{kind: synthResize, x: w, y: h})
}

// InjectVisibility queues a page visibility change.
func (d *Document) InjectVisibility(hidden bool) {
	d.injectQueue = append(d.injectQueue, syntheticEvent{kind: synthVisibility, hidden: hidden})
}

// InjectPath queues a pointer path from (fromX, fromY) to (toX, toY) as
// frames linearly interpolated moves. Minimum frames is 2.
func (d *Document) InjectPath(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		d.InjectPointerMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
}

// PendingInjections returns the number of queued synthetic events.
func (d *Document) PendingInjections() int {
	return len(d.injectQueue)
}

// processInjected pops one event from the inject queue and delivers it.
// Returns true if an event was consumed.
func (d *Document) processInjected() bool {
	if len(d.injectQueue) == 0 {
		return false
	}
	evt := d.injectQueue[0]
	copy(d.injectQueue, d.injectQueue[1:])
	d.injectQueue = d.injectQueue[:len(d.injectQueue)-1]

	switch evt.kind {
	case synthMove:
		d.PointerMove(evt.x, evt.y)
	case synthClick:
		d.ClickAt(evt.x, evt.y)
	case synthKey:
		d.KeyDown(evt.key)
	case synthScroll:
		d.ScrollBy(evt.y)
	case synthResize:
		d.SetViewport(evt.x, evt.y)
	case synthVisibility:
		d.SetHidden(evt.hidden)
	}
	return true
}
