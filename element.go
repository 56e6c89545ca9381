package folio

import (
	"slices"
	"strconv"
)

// Element is the fundamental page element. A single flat struct is used for
// panels, buttons, images, particles and containers alike. Its classes,
// attributes, style variables and text are the complete observable output of
// the core; the host reads them to paint and never writes them back, except
// for layout (Box, MarginLeft, ScrollWidth).
type Element struct {
	// Identity
	ID  string
	Tag string

	// Hierarchy
	Parent   *Element
	children []*Element

	// Layout, written by the host. Box is relative to the parent's content
	// origin (before the parent's horizontal scroll is applied).
	Box         Rect
	MarginLeft  float64
	ScrollWidth float64
	// Fixed elements ignore the page scroll offset (nav, lightbox, trail).
	Fixed bool

	// Interaction
	Focusable bool
	Disabled  bool

	text       string
	classes    []string
	attrs      map[string]string
	vars       map[string]string
	data       map[string]string
	scrollLeft float64

	handlers handlerRegistry
	doc      *Document
	disposed bool
}

// Document returns the owning document.
func (e *Element) Document() *Document {
	return e.doc
}

func (e *Element) mutated() {
	if e.doc != nil {
		e.doc.mutations++
	}
}

// --- Tree manipulation ---

// AppendChild appends child to this element's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this element (cycle).
func (e *Element) AppendChild(child *Element) {
	if child == nil {
		panic("folio: cannot append nil child")
	}
	if e.doc != nil && e.doc.debug {
		debugCheckDisposed(e, "AppendChild (parent)")
		debugCheckDisposed(child, "AppendChild (child)")
	}
	if isAncestor(child, e) {
		panic("folio: appending child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = e
	e.children = append(e.children, child)
	e.mutated()
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (e *Element) Children() []*Element {
	return e.children
}

// Remove detaches this element from its parent and disposes it and its
// descendants. Disposed elements drop their listeners and leave the
// document's id index. No-op if already disposed.
func (e *Element) Remove() {
	if e.disposed {
		return
	}
	if e.Parent != nil {
		e.Parent.removeChildByPtr(e)
		e.Parent.mutated()
	}
	e.dispose()
}

func (e *Element) dispose() {
	e.disposed = true
	if e.doc != nil {
		if e.ID != "" && e.doc.byID[e.ID] == e {
			delete(e.doc.byID, e.ID)
		}
		if e.doc.focused == e {
			e.doc.focused = nil
		}
	}
	for _, child := range e.children {
		child.Parent = nil
		child.dispose()
	}
	e.children = nil
	e.Parent = nil
	e.handlers.reset()
}

// IsDisposed reports whether the element has been removed.
func (e *Element) IsDisposed() bool {
	return e.disposed
}

// Connected reports whether the element is still reachable from its
// document's root.
func (e *Element) Connected() bool {
	if e.disposed || e.doc == nil {
		return false
	}
	for p := e; p != nil; p = p.Parent {
		if p == e.doc.root {
			return true
		}
	}
	return false
}

// isAncestor reports whether candidate is an ancestor of (or equal to) el.
func isAncestor(candidate, el *Element) bool {
	for p := el; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from e.children without clearing child.Parent.
func (e *Element) removeChildByPtr(child *Element) {
	for i, c := range e.children {
		if c == child {
			copy(e.children[i:], e.children[i+1:])
			e.children[len(e.children)-1] = nil
			e.children = e.children[:len(e.children)-1]
			return
		}
	}
}

// --- Queries ---

// Query returns the first descendant, in document order, carrying every
// given class. Returns nil when nothing matches.
func (e *Element) Query(classes ...string) *Element {
	for _, c := range e.children {
		if c.hasClasses(classes) {
			return c
		}
		if found := c.Query(classes...); found != nil {
			return found
		}
	}
	return nil
}

// QueryAll returns every descendant, in document order, carrying every given class.
func (e *Element) QueryAll(classes ...string) []*Element {
	var out []*Element
	e.walk(func(el *Element) {
		if el != e && el.hasClasses(classes) {
			out = append(out, el)
		}
	})
	return out
}

// QueryAttr returns every descendant, in document order, that has attribute name.
func (e *Element) QueryAttr(name string) []*Element {
	var out []*Element
	e.walk(func(el *Element) {
		if el == e {
			return
		}
		if _, ok := el.attrs[name]; ok {
			out = append(out, el)
		}
	})
	return out
}

func (e *Element) walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.children {
		c.walk(fn)
	}
}

func (e *Element) hasClasses(classes []string) bool {
	if len(classes) == 0 {
		return false
	}
	for _, c := range classes {
		if !e.HasClass(c) {
			return false
		}
	}
	return true
}

// --- Classes ---

// Classes returns the class list. The returned slice MUST NOT be mutated.
func (e *Element) Classes() []string {
	return e.classes
}

// HasClass reports whether the element carries class name.
func (e *Element) HasClass(name string) bool {
	return slices.Contains(e.classes, name)
}

// AddClass adds class name. Returns true if the class list changed.
func (e *Element) AddClass(name string) bool {
	return e.ToggleClass(name, true)
}

// RemoveClass removes class name. Returns true if the class list changed.
func (e *Element) RemoveClass(name string) bool {
	return e.ToggleClass(name, false)
}

// ToggleClass forces class name on or off. Returns true if the class list
// changed; unchanged calls produce no mutation.
func (e *Element) ToggleClass(name string, on bool) bool {
	i := slices.Index(e.classes, name)
	switch {
	case on && i < 0:
		e.classes = append(e.classes, name)
	case !on && i >= 0:
		e.classes = slices.Delete(e.classes, i, i+1)
	default:
		return false
	}
	e.mutated()
	return true
}

// --- Attributes ---

// Attr returns attribute name and whether it is set.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// SetAttr sets attribute name. Returns true if the value changed.
func (e *Element) SetAttr(name, value string) bool {
	if old, ok := e.attrs[name]; ok && old == value {
		return false
	}
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
	e.mutated()
	return true
}

// RemoveAttr deletes attribute name. Returns true if it was set.
func (e *Element) RemoveAttr(name string) bool {
	if _, ok := e.attrs[name]; !ok {
		return false
	}
	delete(e.attrs, name)
	e.mutated()
	return true
}

// --- Style variables ---

// Var returns style variable name (e.g. "--reveal-progress").
func (e *Element) Var(name string) (string, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// SetVar sets style variable name. Returns true if the value changed.
func (e *Element) SetVar(name, value string) bool {
	if old, ok := e.vars[name]; ok && old == value {
		return false
	}
	if e.vars == nil {
		e.vars = make(map[string]string)
	}
	e.vars[name] = value
	e.mutated()
	return true
}

// SetNumber formats v with prec decimals plus unit and stores it as style
// variable name. NaN and infinite values are dropped so malformed geometry
// never reaches the output surface; the result reports whether v was written.
func (e *Element) SetNumber(name string, v float64, prec int, unit string) bool {
	if !finite(v) {
		return false
	}
	e.SetVar(name, strconv.FormatFloat(v, 'f', prec, 64)+unit)
	return true
}

// VarFloat parses style variable name as a number, ignoring a trailing "px".
func (e *Element) VarFloat(name string) (float64, bool) {
	v, ok := e.vars[name]
	if !ok {
		return 0, false
	}
	if n := len(v); n > 2 && v[n-2:] == "px" {
		v = v[:n-2]
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || !finite(f) {
		return 0, false
	}
	return f, true
}

// --- Dataset ---

// Data returns dataset entry key.
func (e *Element) Data(key string) (string, bool) {
	v, ok := e.data[key]
	return v, ok
}

// SetData sets dataset entry key. Returns true if the value changed.
func (e *Element) SetData(key, value string) bool {
	if old, ok := e.data[key]; ok && old == value {
		return false
	}
	if e.data == nil {
		e.data = make(map[string]string)
	}
	e.data[key] = value
	e.mutated()
	return true
}

// --- Text ---

// Text returns the element's text content.
func (e *Element) Text() string {
	return e.text
}

// SetText replaces the text content. Returns true if it changed.
func (e *Element) SetText(s string) bool {
	if e.text == s {
		return false
	}
	e.text = s
	e.mutated()
	return true
}

// SetDisabled sets the disabled state. Returns true if it changed.
func (e *Element) SetDisabled(disabled bool) bool {
	if e.Disabled == disabled {
		return false
	}
	e.Disabled = disabled
	e.mutated()
	return true
}

// --- Events ---

// On registers a listener on this element.
func (e *Element) On(t EventType, fn func(*Event)) CallbackHandle {
	return e.handlers.add(t, fn)
}

// Focus moves document focus to this element.
func (e *Element) Focus() {
	if e.doc != nil {
		e.doc.Focus(e)
	}
}

// --- Scrolling ---

// ScrollLeft returns the horizontal scroll offset of a scroll container.
func (e *Element) ScrollLeft() float64 {
	return e.scrollLeft
}

// ClientWidth returns the visible width of the element.
func (e *Element) ClientWidth() float64 {
	return e.Box.Width
}

// MaxScrollLeft returns max(ScrollWidth-ClientWidth, 0).
func (e *Element) MaxScrollLeft() float64 {
	return max(e.ScrollWidth-e.ClientWidth(), 0)
}

// SetScrollLeft sets the horizontal scroll offset, clamped to
// [0, MaxScrollLeft], and fires EventScroll on the element when it moves.
func (e *Element) SetScrollLeft(x float64) {
	if !finite(x) {
		return
	}
	x = clamp(x, 0, e.MaxScrollLeft())
	if x == e.scrollLeft {
		return
	}
	e.scrollLeft = x
	if e.doc != nil {
		e.doc.dispatchLocal(&Event{Type: EventScroll, Target: e, Time: e.doc.Now()})
	}
}

// OffsetLeftWithin returns the element's left edge relative to ancestor's
// content origin, summing boxes along the parent chain.
func (e *Element) OffsetLeftWithin(ancestor *Element) float64 {
	x := 0.0
	for p := e; p != nil && p != ancestor; p = p.Parent {
		x += p.Box.X
		if p.Parent != nil && p.Parent != ancestor {
			x -= p.Parent.scrollLeft
		}
	}
	return x
}
