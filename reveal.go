package folio

import (
	"math"
	"time"
)

// RevealConfig holds the reveal easing constants.
type RevealConfig struct {
	// MaxDistanceFactor scales the viewport height into the distance at
	// which progress reaches 0.
	MaxDistanceFactor float64
	// Exponent shapes linear progress; values below 1 reveal near-center
	// panels quickly and fade off-center panels slowly.
	Exponent float64
	// ActiveThreshold is the eased progress below which the active panel is
	// forced to display 1.
	ActiveThreshold float64
}

// DefaultRevealConfig returns the standard reveal constants.
func DefaultRevealConfig() RevealConfig {
	return RevealConfig{MaxDistanceFactor: 0.8, Exponent: 0.35, ActiveThreshold: 0.999}
}

// EasedProgress returns the reveal progress in [0, 1] for a panel whose
// center is distance pixels from the viewport center. Non-finite inputs
// yield 0.
func EasedProgress(distance, viewportHeight float64, cfg RevealConfig) float64 {
	if !finite(distance) || !finite(viewportHeight) {
		return 0
	}
	maxDistance := viewportHeight * cfg.MaxDistanceFactor
	if maxDistance <= 0 || !finite(maxDistance) {
		maxDistance = 1
	}
	normalized := math.Min(math.Abs(distance)/maxDistance, 1)
	linear := math.Max(0, 1-normalized)
	if linear == 0 {
		return 0
	}
	p := math.Pow(linear, cfg.Exponent)
	if !finite(p) {
		return 0
	}
	return p
}

// RevealEngine computes per-panel reveal progress and the single active
// panel. Scroll and resize events are coalesced into one update per frame.
type RevealEngine struct {
	geom   Geometry
	state  *AppState
	cfg    RevealConfig
	panels []*Element
	raw    []float64
	active int
	update *Coalescer
	static bool
}

// NewRevealEngine mounts the engine on every element with class "panel".
// Returns false when the page has no panels. With reduced motion every panel
// is shown fully revealed once and no listeners are installed.
func NewRevealEngine(doc *Document, state *AppState, cfg RevealConfig) (*RevealEngine, bool) {
	panels := doc.QueryAll("panel")
	if len(panels) == 0 {
		doc.debugf("reveal: no panels")
		return nil, false
	}
	r := &RevealEngine{
		geom:   doc,
		state:  state,
		cfg:    cfg,
		panels: panels,
		raw:    make([]float64, len(panels)),
		active: -1,
	}
	if state.ReducedMotion {
		r.static = true
		for _, p := range panels {
			p.SetNumber("--reveal-progress", 1, 3, "")
			p.AddClass("visible")
		}
		return r, true
	}
	for _, p := range panels {
		p.SetNumber("--reveal-progress", 0, 3, "")
	}
	r.update = doc.Scheduler().Coalesce(func(time.Time) { r.Update() })
	doc.On(EventScroll, func(*Event) { r.update.Schedule() })
	doc.On(EventResize, func(*Event) { r.update.Schedule() })
	r.Update()
	return r, true
}

// Update recomputes every panel's progress from current geometry, selects
// the active panel and writes --reveal-progress and the visible class.
func (r *RevealEngine) Update() {
	if r.static {
		return
	}
	vp := r.geom.ViewportSize()
	center := vp.Y / 2

	best := math.Inf(-1)
	for i, p := range r.panels {
		rect := r.geom.BoundingRect(p)
		distance := math.Abs(rect.Y + rect.Height/2 - center)
		eased := EasedProgress(distance, vp.Y, r.cfg)
		r.raw[i] = eased
		p.SetNumber("--reveal-progress", eased, 3, "")
		best = math.Max(best, eased)
	}

	next := -1
	if r.active >= 0 && r.raw[r.active] == best {
		next = r.active
	} else {
		for i, v := range r.raw {
			if v == best {
				next = i
				break
			}
		}
	}

	if next != r.active {
		r.active = next
		for i, p := range r.panels {
			p.ToggleClass("visible", i == next)
		}
		r.state.ActivePanel = r.panels[next]
	}
	if r.raw[next] < r.cfg.ActiveThreshold {
		r.panels[next].SetNumber("--reveal-progress", 1, 3, "")
	}
}

// Active returns the active panel, or nil before the first update and in
// reduced-motion mode.
func (r *RevealEngine) Active() *Element {
	if r.active < 0 {
		return nil
	}
	return r.panels[r.active]
}

// Progress returns the raw eased progress of panel i from the last update.
func (r *RevealEngine) Progress(i int) float64 {
	if i < 0 || i >= len(r.raw) {
		return 0
	}
	return r.raw[i]
}

// Panels returns the tracked panels in document order.
func (r *RevealEngine) Panels() []*Element {
	return r.panels
}
