package folio

import "time"

// EventType identifies a kind of page event.
type EventType uint8

const (
	EventClick            EventType = iota // fires on a completed press over an element
	EventKeyDown                           // fires for a key press on the focused element
	EventScroll                            // fires when an element's or the page's scroll offset changes
	EventResize                            // fires when the viewport size changes
	EventPointerMove                       // fires when the pointer moves anywhere in the window
	EventVisibilityChange                  // fires when the page becomes hidden or visible
	EventLoad                              // fires when an image element finishes decoding
	EventError                             // fires when an image element fails to load
	EventAnimationEnd                      // fires when an element's exit animation completes
	eventTypeCount
)

var eventNames = [eventTypeCount]string{
	"click", "keydown", "scroll", "resize", "pointermove",
	"visibilitychange", "load", "error", "animationend",
}

// String returns the DOM-style event name.
func (t EventType) String() string {
	if t < eventTypeCount {
		return eventNames[t]
	}
	return "unknown"
}

// Event carries event data through the dispatch path: target element,
// its ancestors, then the document.
type Event struct {
	Type   EventType
	Target *Element
	Time   time.Time

	// Key is set for EventKeyDown.
	Key Key
	// X and Y are the pointer position for EventPointerMove and EventClick.
	X, Y float64
	// Width and Height carry an image's natural size for EventLoad.
	Width, Height float64

	defaultPrevented bool
	stopped          bool
}

// PreventDefault suppresses the host's default action (page scroll for
// arrow keys, focus traversal for Tab).
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops the event from reaching ancestors and the document.
func (e *Event) StopPropagation() { e.stopped = true }

// --- Handler registry ---

type eventHandler struct {
	id uint32
	fn func(*Event)
}

type handlerRegistry struct {
	handlers [eventTypeCount][]eventHandler
	nextID   uint32
}

func (r *handlerRegistry) add(t EventType, fn func(*Event)) CallbackHandle {
	r.nextID++
	id := r.nextID
	r.handlers[t] = append(r.handlers[t], eventHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: r, event: t}
}

func (r *handlerRegistry) has(t EventType) bool {
	return len(r.handlers[t]) > 0
}

// fire invokes the handlers registered for e.Type. Handlers added during
// dispatch do not see the current event; handlers removed during dispatch
// are skipped.
func (r *handlerRegistry) fire(e *Event) {
	list := r.handlers[e.Type]
	if len(list) == 0 {
		return
	}
	snapshot := make([]eventHandler, len(list))
	copy(snapshot, list)
	for _, h := range snapshot {
		if !r.contains(e.Type, h.id) {
			continue
		}
		h.fn(e)
	}
}

func (r *handlerRegistry) contains(t EventType, id uint32) bool {
	for _, h := range r.handlers[t] {
		if h.id == id {
			return true
		}
	}
	return false
}

func (r *handlerRegistry) reset() {
	for i := range r.handlers {
		r.handlers[i] = nil
	}
}

// CallbackHandle allows removing a registered listener.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this listener so it no longer fires.
// The entry is removed from the slice to avoid nil iteration waste.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.handlers[h.event]
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = eventHandler{}
			h.reg.handlers[h.event] = s[:len(s)-1]
			return
		}
	}
}
