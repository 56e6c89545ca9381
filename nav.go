package folio

import "strings"

// NavMenu is the collapsible navigation: a #menu-toggle button that opens
// and closes the .nav-index list, closing again on Escape, on a link click
// and when the viewport grows past the breakpoint.
type NavMenu struct {
	doc        *Document
	state      *AppState
	dict       Dictionary
	nav        *Element
	toggle     *Element
	breakpoint float64
}

// NewNavMenu mounts the menu. Link clicks scroll to their section even
// when the toggle is missing; the open/close behavior needs both the list
// and the toggle. Returns false when there is no .nav-index.
func NewNavMenu(doc *Document, state *AppState, dict Dictionary, breakpoint float64) (*NavMenu, bool) {
	m := &NavMenu{
		doc:        doc,
		state:      state,
		dict:       dict,
		nav:        doc.Query("nav-index"),
		toggle:     doc.ByID("menu-toggle"),
		breakpoint: breakpoint,
	}
	if m.nav == nil {
		return nil, false
	}
	for _, link := range m.nav.QueryAttr("href") {
		link.On(EventClick, func(e *Event) {
			m.SetOpen(false)
			href, _ := link.Attr("href")
			if id, ok := strings.CutPrefix(href, "#"); ok {
				if sec := doc.ByID(id); sec != nil {
					e.PreventDefault()
					doc.ScrollIntoView(sec, true)
				}
			}
		})
	}
	if m.toggle == nil {
		return m, true
	}

	m.SetOpen(false)
	m.toggle.On(EventClick, func(*Event) { m.SetOpen(!m.IsOpen()) })
	doc.On(EventResize, func(e *Event) {
		if e.Width > m.breakpoint {
			m.SetOpen(false)
		}
	})
	doc.On(EventKeyDown, func(e *Event) {
		if e.Key == KeyEscape {
			m.SetOpen(false)
		}
	})
	return m, true
}

// IsOpen reports whether the menu is open.
func (m *NavMenu) IsOpen() bool {
	return m.nav.HasClass("open")
}

// SetOpen opens or closes the menu. No-op without a toggle.
func (m *NavMenu) SetOpen(open bool) {
	if m.toggle == nil {
		return
	}
	m.nav.ToggleClass("open", open)
	m.doc.Body().ToggleClass("nav-open", open)
	if open {
		m.toggle.SetAttr("aria-expanded", "true")
		m.toggle.SetText("✕")
	} else {
		m.toggle.SetAttr("aria-expanded", "false")
		m.toggle.SetText("☰")
	}
	m.RefreshLabel()
}

// RefreshLabel re-applies the toggle's localized label for the current
// state and language.
func (m *NavMenu) RefreshLabel() {
	if m == nil || m.toggle == nil {
		return
	}
	key := "nav.open"
	if m.IsOpen() {
		key = "nav.close"
	}
	label, ok := m.dict.String(m.state.Language, key)
	if !ok {
		return
	}
	m.toggle.SetAttr("aria-label", label)
	m.toggle.SetAttr("title", label)
}
