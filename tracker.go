package folio

import "strings"

// SectionTracker highlights the navigation link of the most visible section.
type SectionTracker struct {
	links    map[string]*Element
	order    []*Element
	observer *IntersectionObserver
}

// NewSectionTracker mounts on the links of the ".nav-index" element whose
// href is an in-page anchor ("#id"). The first link is active until a
// section reports. Returns false when there is no navigation.
func NewSectionTracker(doc *Document, thresholds []float64) (*SectionTracker, bool) {
	nav := doc.Query("nav-index")
	if nav == nil {
		return nil, false
	}
	t := &SectionTracker{links: make(map[string]*Element)}
	for _, link := range nav.QueryAttr("href") {
		t.order = append(t.order, link)
		href, _ := link.Attr("href")
		if id, ok := strings.CutPrefix(href, "#"); ok && id != "" {
			t.links[id] = link
		}
	}
	if len(t.order) == 0 {
		return nil, false
	}
	t.order[0].AddClass("active")
	if len(t.links) == 0 {
		return t, true
	}

	t.observer = NewIntersectionObserver(doc, thresholds, t.onEntries)
	for _, link := range t.order {
		href, _ := link.Attr("href")
		if sec := doc.ByID(strings.TrimPrefix(href, "#")); sec != nil {
			t.observer.Observe(sec)
		}
	}
	return t, true
}

func (t *SectionTracker) onEntries(entries []IntersectionEntry) {
	var best *IntersectionEntry
	for i := range entries {
		e := &entries[i]
		if e.Intersecting && (best == nil || e.Ratio > best.Ratio) {
			best = e
		}
	}
	if best == nil {
		return
	}
	for _, link := range t.order {
		link.RemoveClass("active")
	}
	if link := t.links[best.Target.ID]; link != nil {
		link.AddClass("active")
	}
}

// Active returns the highlighted link, or nil.
func (t *SectionTracker) Active() *Element {
	for _, link := range t.order {
		if link.HasClass("active") {
			return link
		}
	}
	return nil
}

// Palette is a two-stop ambient gradient: light then dark.
type Palette [2]Color

// PaletteTracker applies the palette of the section crossing its threshold
// as the ambient gradient on the document root. The dark theme overrides
// every section with the monochrome palette.
type PaletteTracker struct {
	root       *Element
	state      *AppState
	palettes   map[string]Palette
	monochrome Palette
	current    Palette
	section    string
	observer   *IntersectionObserver
}

// NewPaletteTracker observes every panel and starts from the palette of
// section initial. Sections missing from palettes never change the gradient.
func NewPaletteTracker(doc *Document, state *AppState, palettes map[string]Palette, monochrome Palette, initial string, threshold float64) *PaletteTracker {
	p := &PaletteTracker{
		root:       doc.Root(),
		state:      state,
		palettes:   palettes,
		monochrome: monochrome,
		section:    initial,
	}
	if pal, ok := palettes[initial]; ok {
		p.current = pal
	} else {
		p.current = monochrome
	}
	p.Apply()

	p.observer = NewIntersectionObserver(doc, []float64{threshold}, func(entries []IntersectionEntry) {
		for _, e := range entries {
			if !e.Intersecting {
				continue
			}
			if pal, ok := p.palettes[e.Target.ID]; ok {
				p.current = pal
				p.section = e.Target.ID
				p.Apply()
			}
		}
	})
	for _, panel := range doc.QueryAll("panel") {
		p.observer.Observe(panel)
	}
	return p
}

// Apply writes --lava-light and --lava-dark for the current section and theme.
func (p *PaletteTracker) Apply() {
	pal := p.current
	if p.state.Theme == ThemeDark {
		pal = p.monochrome
	}
	p.root.SetVar("--lava-light", pal[0].Hex())
	p.root.SetVar("--lava-dark", pal[1].Hex())
}

// Section returns the id of the section whose palette is current.
func (p *PaletteTracker) Section() string {
	return p.section
}
