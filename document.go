package folio

import (
	"time"

	"github.com/tanema/gween/ease"
)

// Geometry is read-only access to viewport metrics and element bounding
// boxes. Rectangles are in viewport coordinates.
type Geometry interface {
	ViewportSize() Vec2
	BoundingRect(el *Element) Rect
}

// pageScrollDuration is the smooth ScrollIntoView duration in seconds.
const pageScrollDuration float32 = 0.6

// Document is the retained page: an element tree rooted at the document
// element, the page-level listeners, the viewport and the frame scheduler.
// The host writes layout and input into it and calls Update once per tick;
// components write classes, attributes, style variables and text back.
type Document struct {
	root *Element
	body *Element
	byID map[string]*Element

	handlers handlerRegistry
	sched    *Scheduler
	clock    TimeSource

	viewport      Vec2
	scrollY       float64
	contentHeight float64
	scrollTween   *ScrollTween

	focused       *Element
	hidden        bool
	reducedMotion bool
	title         string
	mutations     uint64

	injectQueue     []syntheticEvent
	testRunner      *TestRunner
	screenshotQueue []string

	debug bool
}

// NewDocument creates an empty document with a root and body element whose
// scheduler and events read time from clock. A nil clock uses SystemClock.
func NewDocument(clock TimeSource) *Document {
	if clock == nil {
		clock = SystemClock{}
	}
	d := &Document{
		byID:  make(map[string]*Element),
		clock: clock,
		sched: NewScheduler(clock),
	}
	d.root = d.CreateElement("html", "")
	d.body = d.CreateElement("body", "")
	d.root.AppendChild(d.body)
	return d
}

// Root returns the document element. Page-wide style variables
// (--lava-light, --lava-dark) and the lang attribute live here.
func (d *Document) Root() *Element { return d.root }

// Body returns the body element. Page-wide classes (dark, nav-open,
// lightbox-open) live here.
func (d *Document) Body() *Element { return d.body }

// Scheduler returns the document's frame scheduler.
func (d *Document) Scheduler() *Scheduler { return d.sched }

// Clock returns the document's time source.
func (d *Document) Clock() TimeSource { return d.clock }

// Now returns the clock's current time.
func (d *Document) Now() time.Time { return d.clock.Now() }

// Mutations returns the number of effective element writes so far. Writes
// that leave a value unchanged are not counted.
func (d *Document) Mutations() uint64 { return d.mutations }

// CreateElement creates a detached element owned by this document. A
// non-empty id is indexed for ByID; the first live element keeps an id.
func (d *Document) CreateElement(tag, id string, classes ...string) *Element {
	el := &Element{ID: id, Tag: tag, doc: d}
	if len(classes) > 0 {
		el.classes = append([]string(nil), classes...)
	}
	if id != "" {
		if prev, ok := d.byID[id]; !ok || prev.disposed {
			d.byID[id] = el
		}
	}
	return el
}

// ByID returns the live element with the given id, or nil.
func (d *Document) ByID(id string) *Element {
	el := d.byID[id]
	if el == nil || el.disposed {
		return nil
	}
	return el
}

// Query returns the first element in the page carrying every given class.
func (d *Document) Query(classes ...string) *Element {
	return d.root.Query(classes...)
}

// QueryAll returns every element in the page carrying every given class.
func (d *Document) QueryAll(classes ...string) []*Element {
	return d.root.QueryAll(classes...)
}

// Title returns the document title.
func (d *Document) Title() string { return d.title }

// SetTitle sets the document title.
func (d *Document) SetTitle(s string) {
	if d.title != s {
		d.title = s
		d.mutations++
	}
}

// --- Geometry ---

// ViewportSize returns the viewport width and height.
func (d *Document) ViewportSize() Vec2 { return d.viewport }

// absoluteBox returns el's box in page coordinates.
func (d *Document) absoluteBox(el *Element) (r Rect, fixed bool) {
	r = Rect{Width: el.Box.Width, Height: el.Box.Height}
	for p := el; p != nil; p = p.Parent {
		r.X += p.Box.X
		r.Y += p.Box.Y
		if p.Parent != nil {
			r.X -= p.Parent.scrollLeft
		}
		fixed = fixed || p.Fixed
	}
	return r, fixed
}

// BoundingRect returns el's box in viewport coordinates.
func (d *Document) BoundingRect(el *Element) Rect {
	if el == nil {
		return Rect{}
	}
	r, fixed := d.absoluteBox(el)
	if !fixed {
		r.Y -= d.scrollY
	}
	return r
}

// SetViewport sets the viewport size and fires EventResize when it changes.
func (d *Document) SetViewport(w, h float64) {
	if !finite(w) || !finite(h) {
		return
	}
	v := Vec2{max(w, 0), max(h, 0)}
	if v == d.viewport {
		return
	}
	d.viewport = v
	d.setScroll(d.scrollY)
	d.fireDocument(&Event{Type: EventResize, Width: v.X, Height: v.Y})
}

// SetContentHeight sets the total page height used to bound vertical scroll.
func (d *Document) SetContentHeight(h float64) {
	if !finite(h) {
		return
	}
	d.contentHeight = max(h, 0)
	d.setScroll(d.scrollY)
}

// ScrollY returns the vertical page scroll offset.
func (d *Document) ScrollY() float64 { return d.scrollY }

// MaxScrollY returns max(contentHeight-viewportHeight, 0).
func (d *Document) MaxScrollY() float64 {
	return max(d.contentHeight-d.viewport.Y, 0)
}

// ScrollTo jumps the page to y, cancelling any smooth scroll in flight.
func (d *Document) ScrollTo(y float64) {
	d.scrollTween.Stop()
	d.setScroll(y)
}

// ScrollBy scrolls the page by dy.
func (d *Document) ScrollBy(dy float64) {
	d.ScrollTo(d.scrollY + dy)
}

// setScroll clamps y and fires EventScroll on the document when it moves.
func (d *Document) setScroll(y float64) {
	if !finite(y) {
		return
	}
	y = clamp(y, 0, d.MaxScrollY())
	if y == d.scrollY {
		return
	}
	d.scrollY = y
	d.fireDocument(&Event{Type: EventScroll})
}

// ScrollIntoView scrolls the page so el's top edge meets the viewport top.
// Smooth scrolling is a tween advanced by the scheduler; with reduced motion
// or smooth false the jump is instant.
func (d *Document) ScrollIntoView(el *Element, smooth bool) {
	if el == nil || !el.Connected() {
		return
	}
	r, _ := d.absoluteBox(el)
	target := clamp(r.Y, 0, d.MaxScrollY())
	if !smooth || d.reducedMotion {
		d.ScrollTo(target)
		return
	}
	d.scrollTween.Stop()
	d.scrollTween = startScrollTween(d.sched, nil, d.scrollY, target, pageScrollDuration, ease.InOutCubic, d.setScroll)
	d.debugf("scroll into view %q: %.0f -> %.0f", el.ID, d.scrollY, target)
}

// --- Focus, visibility, preferences ---

// Focus moves focus to el. A nil el clears focus; disposed elements are ignored.
func (d *Document) Focus(el *Element) {
	if el != nil && el.disposed {
		return
	}
	d.focused = el
}

// ActiveElement returns the focused element, or the body when nothing
// connected has focus.
func (d *Document) ActiveElement() *Element {
	if d.focused != nil && d.focused.Connected() {
		return d.focused
	}
	return d.body
}

// SetHidden sets page visibility and fires EventVisibilityChange on change.
func (d *Document) SetHidden(hidden bool) {
	if d.hidden == hidden {
		return
	}
	d.hidden = hidden
	d.fireDocument(&Event{Type: EventVisibilityChange})
}

// Hidden reports whether the page is hidden (window unfocused or minimized).
func (d *Document) Hidden() bool { return d.hidden }

// SetReducedMotion sets the user's reduced-motion preference. Components
// read it once when they mount.
func (d *Document) SetReducedMotion(on bool) { d.reducedMotion = on }

// ReducedMotion reports the user's reduced-motion preference.
func (d *Document) ReducedMotion() bool { return d.reducedMotion }

// --- Events ---

// On registers a page-level listener.
func (d *Document) On(t EventType, fn func(*Event)) CallbackHandle {
	return d.handlers.add(t, fn)
}

// Dispatch delivers e to its target, then each ancestor, then the document,
// stopping early if a handler calls StopPropagation. A nil target goes to
// the document only.
func (d *Document) Dispatch(e *Event) {
	if e.Time.IsZero() {
		e.Time = d.clock.Now()
	}
	for el := e.Target; el != nil; el = el.Parent {
		if el.disposed {
			return
		}
		el.handlers.fire(e)
		if e.stopped {
			return
		}
	}
	d.handlers.fire(e)
}

// dispatchLocal delivers e to its target only (load, error, animationend,
// element scroll).
func (d *Document) dispatchLocal(e *Event) {
	if e.Target == nil || e.Target.disposed {
		return
	}
	if e.Time.IsZero() {
		e.Time = d.clock.Now()
	}
	e.Target.handlers.fire(e)
}

// FireLoad reports that el's image finished decoding at its natural size.
func (d *Document) FireLoad(el *Element, width, height float64) {
	d.dispatchLocal(&Event{Type: EventLoad, Target: el, Width: width, Height: height})
}

// FireError reports that el's image failed to load.
func (d *Document) FireError(el *Element) {
	d.dispatchLocal(&Event{Type: EventError, Target: el})
}

// FireAnimationEnd reports that el's exit animation completed.
func (d *Document) FireAnimationEnd(el *Element) {
	d.dispatchLocal(&Event{Type: EventAnimationEnd, Target: el})
}

func (d *Document) fireDocument(e *Event) {
	if e.Time.IsZero() {
		e.Time = d.clock.Now()
	}
	d.handlers.fire(e)
}

// Click dispatches a click on el. Disabled or detached elements receive
// nothing. Focusable elements take focus first.
func (d *Document) Click(el *Element) bool {
	if el == nil || el.Disabled || !el.Connected() {
		return false
	}
	if el.Focusable {
		d.Focus(el)
	}
	d.Dispatch(&Event{Type: EventClick, Target: el})
	return true
}

// ClickAt dispatches a click on the topmost element under (x, y).
func (d *Document) ClickAt(x, y float64) bool {
	el := d.HitTest(x, y)
	if el == nil {
		return false
	}
	ok := d.Click(el)
	d.debugf("click (%.0f, %.0f) -> %s#%s", x, y, el.Tag, el.ID)
	return ok
}

// KeyDown dispatches a key press on the focused element. Unless a handler
// prevents it, Enter and Space click the focused element and Tab moves focus
// to the next focusable element. Returns whether the default was prevented.
func (d *Document) KeyDown(key Key) bool {
	target := d.ActiveElement()
	e := &Event{Type: EventKeyDown, Target: target, Key: key}
	d.Dispatch(e)
	if e.defaultPrevented {
		return true
	}
	switch key {
	case KeyEnter, KeySpace:
		if target != d.body {
			d.Click(target)
		}
	case KeyTab:
		d.focusNext(target)
	}
	return false
}

// PointerMove dispatches a pointer move at viewport coordinates (x, y).
func (d *Document) PointerMove(x, y float64) {
	if !finite(x) || !finite(y) {
		return
	}
	d.fireDocument(&Event{Type: EventPointerMove, X: x, Y: y})
}

// HitTest returns the topmost element whose bounding box contains (x, y),
// skipping subtrees marked aria-hidden="true" and the root and body.
func (d *Document) HitTest(x, y float64) *Element {
	var hit *Element
	var visit func(el *Element)
	visit = func(el *Element) {
		if v, ok := el.attrs["aria-hidden"]; ok && v == "true" {
			return
		}
		if el != d.root && el != d.body && d.BoundingRect(el).Contains(x, y) && el.Box.Area() > 0 {
			hit = el
		}
		for _, c := range el.children {
			visit(c)
		}
	}
	visit(d.root)
	return hit
}

// focusNext moves focus to the next focusable, enabled, visible element
// after from in document order, wrapping around.
func (d *Document) focusNext(from *Element) {
	var order []*Element
	var visit func(el *Element)
	visit = func(el *Element) {
		if v, ok := el.attrs["aria-hidden"]; ok && v == "true" {
			return
		}
		if el.Focusable && !el.Disabled {
			order = append(order, el)
		}
		for _, c := range el.children {
			visit(c)
		}
	}
	visit(d.root)
	if len(order) == 0 {
		return
	}
	next := 0
	for i, el := range order {
		if el == from {
			next = (i + 1) % len(order)
			break
		}
	}
	d.Focus(order[next])
}

// --- Frame ---

// Update runs one frame: the scripted test runner, one injected event, then
// the scheduler. The host calls it once per tick.
func (d *Document) Update() {
	start := time.Now()
	if d.testRunner != nil {
		d.testRunner.step(d)
	}
	d.processInjected()
	d.sched.Run(d.clock.Now())
	if d.debug {
		d.debugFrame(frameStats{update: time.Since(start), elements: d.countElements()})
	}
}

// Screenshot queues a labeled screenshot for the host to capture after its
// next draw.
func (d *Document) Screenshot(label string) {
	d.screenshotQueue = append(d.screenshotQueue, label)
}

// DrainScreenshots returns and clears the queued screenshot labels.
func (d *Document) DrainScreenshots() []string {
	q := d.screenshotQueue
	d.screenshotQueue = nil
	return q
}
