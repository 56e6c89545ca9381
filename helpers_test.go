package folio

import (
	"math/rand/v2"
	"time"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// newTestDoc returns a 1000x800 document on a manual clock.
func newTestDoc() (*Document, *ManualClock) {
	clock := NewManualClock(epoch)
	doc := NewDocument(clock)
	doc.SetViewport(1000, 800)
	return doc, clock
}

// addEl creates an element with box r and appends it to parent.
func addEl(parent *Element, tag, id string, r Rect, classes ...string) *Element {
	el := parent.Document().CreateElement(tag, id, classes...)
	el.Box = r
	parent.AppendChild(el)
	return el
}

// step advances the clock by d and runs one frame.
func step(doc *Document, clock *ManualClock, d time.Duration) {
	clock.Advance(d)
	doc.Update()
}

// steps runs n frames of d each.
func steps(doc *Document, clock *ManualClock, n int, d time.Duration) {
	for range n {
		step(doc, clock, d)
	}
}

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// testDictionary returns a two-language dictionary shaped like decoded YAML.
func testDictionary() Dictionary {
	return Dictionary{
		"en": {
			"htmlLang":      "en",
			"documentTitle": "Portfolio",
			"intro": map[string]any{
				"prefix": "Hello, I'm ",
				"roles":  []any{"X", "Y"},
			},
			"nav": map[string]any{
				"home":  "Home",
				"open":  "Open navigation",
				"close": "Close navigation",
			},
			"languageToggle": map[string]any{
				"text":    "EN",
				"label":   "Switch to Spanish",
				"tooltip": "Switch to Spanish",
			},
			"themeToggle": map[string]any{
				"toDark":  "Switch to dark theme",
				"toLight": "Switch to light theme",
			},
			"projects": map[string]any{
				"items": []any{
					map[string]any{"title": "Gloria2", "alt": "Gloria2 dashboard"},
				},
			},
		},
		"es": {
			"htmlLang":      "es",
			"documentTitle": "Portafolio",
			"intro": map[string]any{
				"prefix": "Hola, soy ",
				"roles":  []any{"Ñu", "Zeta"},
			},
			"nav": map[string]any{
				"home":  "Inicio",
				"open":  "Abrir navegación",
				"close": "Cerrar navegación",
			},
			"languageToggle": map[string]any{
				"text":  "ES",
				"label": "Cambiar a inglés",
			},
			"themeToggle": map[string]any{
				"toDark":  "Cambiar a tema oscuro",
				"toLight": "Cambiar a tema claro",
			},
			"projects": map[string]any{
				"items": []any{
					map[string]any{"title": "Gloria2", "alt": "Panel de Gloria2"},
				},
			},
		},
	}
}

// buildCarousel adds a carousel section with n items of width w inside a
// view of width viewW. Items are laid out edge to edge.
func buildCarousel(doc *Document, id string, n int, w, viewW float64) *Element {
	sec := addEl(doc.Body(), "section", id, Rect{Y: 800, Width: 1000, Height: 800}, "panel")
	wrapper := addEl(sec, "div", "", Rect{Width: viewW, Height: 400}, "carousel-wrapper")
	addEl(wrapper, "button", "", Rect{X: 0, Y: 180, Width: 40, Height: 40}, "arrow", "left").Focusable = true
	view := addEl(wrapper, "div", "", Rect{Width: viewW, Height: 400}, "carousel-view")
	view.ScrollWidth = float64(n) * w
	track := addEl(view, "div", "", Rect{Width: float64(n) * w, Height: 400}, "carousel")
	for i := range n {
		addEl(track, "div", "", Rect{X: float64(i) * w, Width: w, Height: 400}, "item")
	}
	addEl(wrapper, "button", "", Rect{X: viewW - 40, Y: 180, Width: 40, Height: 40}, "arrow", "right").Focusable = true
	addEl(sec, "div", id+"-dots", Rect{Y: 420, Width: viewW, Height: 20}, "dots")
	return sec
}

// fakeLoader answers probes from a table; unknown refs fail.
type fakeLoader struct {
	sizes map[string]FrameSize
	calls int
	// deferred holds callbacks when async is set.
	async    bool
	deferred []func()
}

func (l *fakeLoader) Probe(ref string, done func(w, h int, err error)) {
	l.calls++
	answer := func() {
		s, ok := l.sizes[ref]
		if !ok {
			done(0, 0, errProbe)
			return
		}
		done(int(s.Width), int(s.Height), nil)
	}
	if l.async {
		l.deferred = append(l.deferred, answer)
		return
	}
	answer()
}

func (l *fakeLoader) flush() {
	d := l.deferred
	l.deferred = nil
	for _, fn := range d {
		fn()
	}
}

type probeError struct{}

func (probeError) Error() string { return "probe failed" }

var errProbe error = probeError{}
