package host

import (
	"strconv"
	"strings"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/folio"
)

const defaultLife = 1200 * time.Millisecond

// particleAnim is the exit animation of one trail particle.
type particleAnim struct {
	tween    *gween.Tween
	progress float64 // linear, 0 to 1
	eased    float64 // out-quad of progress, drives drift
	ended    bool
}

// particleAnimator plays each trail particle's exit animation and fires
// animationend when it completes. Particles are discovered from the trail
// container's children, so spawning needs no host hook.
type particleAnimator struct {
	doc   *folio.Document
	trail *folio.Element
	anims map[*folio.Element]*particleAnim
	last  time.Time

	scratch []*folio.Element
}

func newParticleAnimator(doc *folio.Document, trail *folio.Element) *particleAnimator {
	return &particleAnimator{
		doc:   doc,
		trail: trail,
		anims: make(map[*folio.Element]*particleAnim),
	}
}

// Update advances every particle by the time since the previous call.
func (a *particleAnimator) Update() {
	now := a.doc.Now()
	var dt float32
	if !a.last.IsZero() {
		dt = float32(now.Sub(a.last).Seconds())
	}
	a.last = now

	// Handlers remove ended particles from the trail, so iterate a copy.
	a.scratch = append(a.scratch[:0], a.trail.Children()...)
	for _, el := range a.scratch {
		anim, ok := a.anims[el]
		if !ok {
			life := durationVar(el, "--life", defaultLife)
			anim = &particleAnim{tween: gween.New(0, 1, float32(life.Seconds()), ease.Linear)}
			a.anims[el] = anim
			continue
		}
		if anim.ended {
			continue
		}
		v, finished := anim.tween.Update(dt)
		anim.progress = float64(v)
		anim.eased = float64(ease.OutQuad(v, 0, 1, 1))
		if finished {
			anim.progress, anim.eased, anim.ended = 1, 1, true
			a.doc.FireAnimationEnd(el)
		}
	}

	for el := range a.anims {
		if el.IsDisposed() || el.Parent != a.trail {
			delete(a.anims, el)
		}
	}
}

// State returns the animation state of el. Unknown elements are at 0.
func (a *particleAnimator) State(el *folio.Element) particleAnim {
	if anim, ok := a.anims[el]; ok {
		return *anim
	}
	return particleAnim{}
}

// Len returns the number of tracked particles.
func (a *particleAnimator) Len() int {
	return len(a.anims)
}

// durationVar parses a "1200ms" or "1.2s" style variable.
func durationVar(el *folio.Element, name string, fallback time.Duration) time.Duration {
	v, ok := el.Var(name)
	if !ok {
		return fallback
	}
	unit := time.Second
	if s, ok := strings.CutSuffix(v, "ms"); ok {
		v, unit = s, time.Millisecond
	} else if s, ok := strings.CutSuffix(v, "s"); ok {
		v = s
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n * float64(unit))
}
