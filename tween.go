package folio

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ScrollTween animates a single scroll offset toward a target value. It is
// advanced once per frame by the scheduler that started it and cancels its
// own loop when finished, when stopped, or when its owner element is
// disposed.
//
// There is no global animation manager; each scroll container owns at most
// one tween and stops the previous one before starting another.
type ScrollTween struct {
	tween *gween.Tween
	to    float64
	apply func(v float64)
	owner *Element
	loop  TaskHandle
	Done  bool
}

// startScrollTween creates a tween from -> to over duration seconds and
// registers it as a per-frame loop on s. apply receives each value; the last
// call always receives exactly to.
func startScrollTween(s *Scheduler, owner *Element, from, to float64, duration float32, fn ease.TweenFunc, apply func(float64)) *ScrollTween {
	st := &ScrollTween{
		tween: gween.New(float32(from), float32(to), duration, fn),
		to:    to,
		apply: apply,
		owner: owner,
	}
	st.loop = s.Loop(func(time.Time) {
		st.Update(float32(s.FrameDelta().Seconds()))
	})
	return st
}

// Update advances the tween by dt seconds and writes the value through apply.
func (st *ScrollTween) Update(dt float32) {
	if st.Done {
		return
	}
	if st.owner != nil && st.owner.IsDisposed() {
		st.Stop()
		return
	}
	val, finished := st.tween.Update(dt)
	if finished {
		st.Stop()
		st.apply(st.to)
		return
	}
	st.apply(float64(val))
}

// Stop halts the tween where it is. Safe on a nil tween.
func (st *ScrollTween) Stop() {
	if st == nil {
		return
	}
	st.Done = true
	st.loop.Cancel()
}

// Active reports whether the tween is still running. Safe on a nil tween.
func (st *ScrollTween) Active() bool {
	return st != nil && !st.Done
}
