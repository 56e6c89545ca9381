package folio

import (
	"slices"
	"time"
)

// IntersectionEntry reports a target's visibility against the viewport.
type IntersectionEntry struct {
	Target       *Element
	Ratio        float64
	Intersecting bool
}

// IntersectionObserver reports targets whose visible fraction crosses one
// of its thresholds. Checks are coalesced to one per frame after scroll or
// resize; every target is reported on its first check. A target counts as
// intersecting when its ratio reaches the lowest threshold.
type IntersectionObserver struct {
	geom       Geometry
	thresholds []float64
	targets    []*Element
	buckets    []int
	callback   func([]IntersectionEntry)
	check      *Coalescer
	handles    []CallbackHandle
}

// NewIntersectionObserver creates an observer on doc that calls cb with the
// entries whose threshold bucket changed. Thresholds are sorted; an empty
// list means {0}.
func NewIntersectionObserver(doc *Document, thresholds []float64, cb func([]IntersectionEntry)) *IntersectionObserver {
	th := slices.Clone(thresholds)
	if len(th) == 0 {
		th = []float64{0}
	}
	slices.Sort(th)
	o := &IntersectionObserver{geom: doc, thresholds: th, callback: cb}
	o.check = doc.Scheduler().Coalesce(func(time.Time) { o.Check() })
	schedule := func(*Event) { o.check.Schedule() }
	o.handles = append(o.handles,
		doc.On(EventScroll, schedule),
		doc.On(EventResize, schedule),
	)
	return o
}

// Observe adds el to the watched targets and schedules a check.
func (o *IntersectionObserver) Observe(el *Element) {
	if el == nil || slices.Contains(o.targets, el) {
		return
	}
	o.targets = append(o.targets, el)
	o.buckets = append(o.buckets, -1)
	o.check.Schedule()
}

// Disconnect stops observing all targets.
func (o *IntersectionObserver) Disconnect() {
	for _, h := range o.handles {
		h.Remove()
	}
	o.handles = nil
	o.check.Cancel()
	o.targets = nil
	o.buckets = nil
}

// Ratio returns the fraction of el's box inside the viewport.
func (o *IntersectionObserver) Ratio(el *Element) float64 {
	r := o.geom.BoundingRect(el)
	area := r.Area()
	if area <= 0 || !finite(area) {
		return 0
	}
	vp := o.geom.ViewportSize()
	in := r.Intersection(Rect{Width: vp.X, Height: vp.Y})
	return clamp(in.Area()/area, 0, 1)
}

// Check measures every target now and delivers changed entries.
func (o *IntersectionObserver) Check() {
	var entries []IntersectionEntry
	for i, el := range o.targets {
		if el.IsDisposed() {
			continue
		}
		ratio := o.Ratio(el)
		b := o.bucket(ratio)
		if b == o.buckets[i] {
			continue
		}
		o.buckets[i] = b
		entries = append(entries, IntersectionEntry{
			Target:       el,
			Ratio:        ratio,
			Intersecting: ratio > 0 && ratio >= o.thresholds[0],
		})
	}
	if len(entries) > 0 && o.callback != nil {
		o.callback(entries)
	}
}

// bucket returns the number of thresholds at or below ratio.
func (o *IntersectionObserver) bucket(ratio float64) int {
	n := 0
	for _, t := range o.thresholds {
		if ratio >= t {
			n++
		}
	}
	return n
}
