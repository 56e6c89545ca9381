package folio

import (
	"math"
	"math/rand/v2"
	"strconv"
	"time"
)

// ParticleKind selects the trail particle shape.
type ParticleKind uint8

const (
	ParticleBlob  ParticleKind = iota // light theme, drifts upward
	ParticleDigit                     // dark theme, falls downward
)

// String returns the particle's class name.
func (k ParticleKind) String() string {
	if k == ParticleDigit {
		return "digit"
	}
	return "blob"
}

// Particle is one live trail element. Its fields are consumed only by the
// presentation layer's exit animation through the element's style variables.
type Particle struct {
	Kind     ParticleKind
	Position Vec2
	Drift    Vec2
	// Size is the blob diameter or the digit font size in pixels.
	Size  float64
	Glyph string

	Element *Element

	handle   PoolHandle
	watchdog TaskHandle
}

// TrailConfig controls trail cadence, particle shapes and the capacity bound.
// Delay ranges are in milliseconds.
type TrailConfig struct {
	// Capacity is the maximum number of live particles.
	Capacity int
	// ReducedCapacity replaces Capacity when reduced motion is set.
	ReducedCapacity int
	// AccumulatorCap bounds the movement accumulator in pixels.
	AccumulatorCap float64
	// IdleWindow is how long after the last pointer move spawning continues.
	IdleWindow time.Duration
	// SpeedSmoothing is the weight of the instantaneous speed in the
	// exponential speed estimate.
	SpeedSmoothing float64
	// MaxSpeed is the smoothed speed (px/ms) at which the speed ratio saturates.
	MaxSpeed float64
	// SpeedBoost is the largest fraction of the base delay removed at full speed.
	SpeedBoost float64
	// DelayFloor is the shortest spawn delay.
	DelayFloor time.Duration
	// IdleCeiling is the delay approached as the pointer idles.
	IdleCeiling time.Duration

	LightDelay   Range
	DarkDelay    Range
	ReducedDelay Range
	LightCount   int
	DarkCount    int
	// BonusMax and BonusDivisor add min(BonusMax, acc/BonusDivisor) particles.
	BonusMax     int
	BonusDivisor float64
	// Drain is subtracted from the accumulator per spawned particle.
	Drain float64

	// Jitter is the full width of the spawn offset square around the ball.
	Jitter      float64
	BlobSize    Range
	BlobDriftX  Range
	BlobDriftY  Range
	DigitSize   Range
	DigitDriftX Range
	DigitDriftY Range

	// Lifetime is the particle exit animation duration.
	Lifetime time.Duration
	// WatchdogSlack is added to Lifetime before a particle is force-removed.
	WatchdogSlack time.Duration
	// FollowerWeight is the ball's per-frame interpolation weight.
	FollowerWeight float64
}

// DefaultTrailConfig returns the standard trail tuning.
func DefaultTrailConfig() TrailConfig {
	return TrailConfig{
		Capacity:        140,
		ReducedCapacity: 35,
		AccumulatorCap:  800,
		IdleWindow:      450 * time.Millisecond,
		SpeedSmoothing:  0.25,
		MaxSpeed:        2.5,
		SpeedBoost:      0.45,
		DelayFloor:      24 * time.Millisecond,
		IdleCeiling:     260 * time.Millisecond,
		LightDelay:      Range{Min: 55, Max: 120},
		DarkDelay:       Range{Min: 38, Max: 80},
		ReducedDelay:    Range{Min: 220, Max: 380},
		LightCount:      3,
		DarkCount:       4,
		BonusMax:        5,
		BonusDivisor:    18,
		Drain:           12,
		Jitter:          50,
		BlobSize:        Range{Min: 20, Max: 50},
		BlobDriftX:      Range{Min: -75, Max: 75},
		BlobDriftY:      Range{Min: -160, Max: -60},
		DigitSize:       Range{Min: 12, Max: 20},
		DigitDriftX:     Range{Min: -15, Max: 15},
		DigitDriftY:     Range{Min: 60, Max: 160},
		Lifetime:        1200 * time.Millisecond,
		WatchdogSlack:   400 * time.Millisecond,
		FollowerWeight:  0.12,
	}
}

// TrailEmitter spawns particles behind the follower ball at a cadence that
// adapts to pointer speed, idleness and theme, under a hard capacity bound.
// It is the single writer of AppState.Pointer.
type TrailEmitter struct {
	doc      *Document
	state    *AppState
	cfg      TrailConfig
	rng      *rand.Rand
	reduced  bool
	trail    *Element
	follower *Follower
	pool     *Pool[*Particle]

	nextSpawn time.Time
	delay     time.Duration
	started   bool
	evictions uint64
}

// NewTrailEmitter mounts on #lava-trail and #cursor-ball. Returns false when
// either is missing. A nil rng uses the package-level source.
func NewTrailEmitter(doc *Document, state *AppState, cfg TrailConfig, rng *rand.Rand) (*TrailEmitter, bool) {
	trail := doc.ByID("lava-trail")
	ball := doc.ByID("cursor-ball")
	if trail == nil || ball == nil {
		doc.debugf("trail: missing #lava-trail or #cursor-ball")
		return nil, false
	}
	capacity := cfg.Capacity
	if state.ReducedMotion {
		capacity = cfg.ReducedCapacity
	}
	t := &TrailEmitter{
		doc:     doc,
		state:   state,
		cfg:     cfg,
		rng:     rng,
		reduced: state.ReducedMotion,
		trail:   trail,
		pool:    NewPool[*Particle](capacity),
	}
	trail.Fixed = true

	vp := doc.ViewportSize()
	state.Pointer = PointerSample{Position: Vec2{vp.X / 2, vp.Y / 2}}
	t.follower = newFollower(ball, state, cfg.FollowerWeight)
	t.delay = t.SpawnDelay(doc.Now())

	doc.On(EventPointerMove, func(e *Event) { t.OnPointerMove(Vec2{e.X, e.Y}, e.Time) })
	doc.On(EventVisibilityChange, func(e *Event) {
		if doc.Hidden() {
			t.state.Pointer.Active = false
			t.state.Pointer.Accumulator = 0
		} else {
			t.Refresh(e.Time)
		}
	})
	doc.Scheduler().Loop(t.follower.Step)
	doc.Scheduler().Drive(t)
	return t, true
}

// Follower returns the ball follower.
func (t *TrailEmitter) Follower() *Follower { return t.follower }

// Len returns the number of live particles.
func (t *TrailEmitter) Len() int { return t.pool.Len() }

// Cap returns the particle capacity.
func (t *TrailEmitter) Cap() int { return t.pool.Cap() }

// Evictions returns how many particles were evicted by the capacity bound.
func (t *TrailEmitter) Evictions() uint64 { return t.evictions }

// OnPointerMove records a pointer sample: position, smoothed speed and the
// bounded movement accumulator.
func (t *TrailEmitter) OnPointerMove(pos Vec2, now time.Time) {
	if !finite(pos.X) || !finite(pos.Y) {
		return
	}
	p := &t.state.Pointer
	dist := pos.Sub(p.Position).Len()
	if !finite(dist) {
		dist = 0
	}
	inst := 0.0
	if !p.LastMove.IsZero() {
		if ms := float64(now.Sub(p.LastMove)) / float64(time.Millisecond); ms > 0 {
			inst = dist / ms
		}
	}
	w := t.cfg.SpeedSmoothing
	p.SmoothedSpeed = p.SmoothedSpeed*(1-w) + inst*w
	p.Accumulator = math.Min(p.Accumulator+dist, t.cfg.AccumulatorCap)
	p.Position = pos
	p.Active = true
	p.LastMove = now
}

// SpawnDelay returns the delay before the next spawn at now. The base is
// drawn from the theme's range, shortened by pointer speed down to the
// floor, then stretched toward the idle ceiling as the pointer rests.
func (t *TrailEmitter) SpawnDelay(now time.Time) time.Duration {
	if t.reduced {
		return msDuration(t.cfg.ReducedDelay.Random(t.rng))
	}
	r := t.cfg.LightDelay
	if t.state.Theme == ThemeDark {
		r = t.cfg.DarkDelay
	}
	base := r.Random(t.rng)

	ratio := 0.0
	if t.cfg.MaxSpeed > 0 {
		ratio = clamp(t.state.Pointer.SmoothedSpeed/t.cfg.MaxSpeed, 0, 1)
	}
	floor := float64(t.cfg.DelayFloor) / float64(time.Millisecond)
	delay := math.Max(floor, base*(1-t.cfg.SpeedBoost*ratio))

	if p := t.state.Pointer; !p.LastMove.IsZero() && t.cfg.IdleWindow > 0 {
		idle := clamp(float64(now.Sub(p.LastMove))/float64(t.cfg.IdleWindow), 0, 1)
		ceiling := float64(t.cfg.IdleCeiling) / float64(time.Millisecond)
		if ceiling > delay {
			delay = lerp(delay, ceiling, idle)
		}
	}
	return msDuration(delay)
}

// SpawnCount returns how many particles the next spawn creates.
func (t *TrailEmitter) SpawnCount() int {
	if t.reduced {
		return 1
	}
	base := t.cfg.LightCount
	if t.state.Theme == ThemeDark {
		base = t.cfg.DarkCount
	}
	bonus := 0
	if t.cfg.BonusDivisor > 0 {
		bonus = min(t.cfg.BonusMax, int(math.Floor(t.state.Pointer.Accumulator/t.cfg.BonusDivisor)))
	}
	return base + bonus
}

// Refresh recomputes the spawn schedule from now and clears the
// accumulator. Called when the page becomes visible again and when the
// theme changes, so no stale schedule fires a burst.
func (t *TrailEmitter) Refresh(now time.Time) {
	t.delay = t.SpawnDelay(now)
	t.nextSpawn = now.Add(t.delay)
	t.started = true
	t.state.Pointer.Accumulator = 0
}

// Step runs one spawn-loop tick and returns the next deadline. It spawns
// only while the page is visible and the pointer moved within the idle
// window; an idle pointer is marked inactive and its accumulator cleared.
func (t *TrailEmitter) Step(now time.Time) time.Time {
	if !t.started {
		t.started = true
		t.nextSpawn = now.Add(t.delay)
	}
	p := &t.state.Pointer
	recent := p.Active && now.Sub(p.LastMove) < t.cfg.IdleWindow
	if p.Active && !recent {
		p.Active = false
	}

	switch {
	case !t.doc.Hidden() && recent && !now.Before(t.nextSpawn):
		n := t.SpawnCount()
		t.spawn(n)
		p.Accumulator = math.Max(0, p.Accumulator-float64(n)*t.cfg.Drain)
		t.delay = t.SpawnDelay(now)
		t.nextSpawn = now.Add(t.delay)
	case !recent:
		p.Accumulator = 0
		return time.Time{}
	}

	// Wake for the next spawn or the idle cutoff, whichever is first.
	next := t.nextSpawn
	if idle := p.LastMove.Add(t.cfg.IdleWindow); idle.Before(next) {
		next = idle
	}
	return next
}

// NextSpawn returns the scheduled time of the next spawn.
func (t *TrailEmitter) NextSpawn() time.Time { return t.nextSpawn }

func (t *TrailEmitter) spawn(n int) {
	kind := ParticleBlob
	if t.state.Theme == ThemeDark {
		kind = ParticleDigit
	}
	origin := t.follower.Position()
	for range n {
		t.admit(t.newParticle(kind, origin))
	}
}

// newParticle draws a particle's randomized shape around origin.
func (t *TrailEmitter) newParticle(kind ParticleKind, origin Vec2) *Particle {
	jitter := Range{Min: -t.cfg.Jitter / 2, Max: t.cfg.Jitter / 2}
	p := &Particle{Kind: kind}
	switch kind {
	case ParticleDigit:
		p.Glyph = strconv.Itoa(int(Range{Min: 0, Max: 9.999}.Random(t.rng)))
		p.Size = t.cfg.DigitSize.Random(t.rng)
		p.Drift = Vec2{t.cfg.DigitDriftX.Random(t.rng), t.cfg.DigitDriftY.Random(t.rng)}
	default:
		p.Size = t.cfg.BlobSize.Random(t.rng)
		p.Drift = Vec2{t.cfg.BlobDriftX.Random(t.rng), t.cfg.BlobDriftY.Random(t.rng)}
	}
	p.Position = Vec2{origin.X + jitter.Random(t.rng), origin.Y + jitter.Random(t.rng)}
	return p
}

// admit inserts p, evicting and removing the oldest particle first when the
// pool is full, then creates its element and watchdog.
func (t *TrailEmitter) admit(p *Particle) {
	h, old, evicted := t.pool.Admit(p)
	if evicted {
		t.evictions++
		old.watchdog.Cancel()
		old.Element.Remove()
	}
	p.handle = h

	el := t.doc.CreateElement("span", "", p.Kind.String())
	el.Fixed = true
	el.SetNumber("--x", p.Position.X, 1, "px")
	el.SetNumber("--y", p.Position.Y, 1, "px")
	el.SetNumber("--size", p.Size, 1, "px")
	el.SetNumber("--dx", p.Drift.X, 1, "")
	el.SetNumber("--dy", p.Drift.Y, 1, "")
	el.SetNumber("--life", float64(t.cfg.Lifetime.Milliseconds()), 0, "ms")
	if p.Glyph != "" {
		el.SetText(p.Glyph)
	}
	p.Element = el
	t.trail.AppendChild(el)

	el.On(EventAnimationEnd, func(*Event) { t.remove(h) })
	p.watchdog = t.doc.Scheduler().After(t.cfg.Lifetime+t.cfg.WatchdogSlack, func(time.Time) {
		if t.remove(h) {
			t.doc.debugf("trail: watchdog removed a particle")
		}
	})
}

// remove deletes the particle for h. Returns false if it was already gone.
func (t *TrailEmitter) remove(h PoolHandle) bool {
	p, ok := t.pool.Remove(h)
	if !ok {
		return false
	}
	p.watchdog.Cancel()
	p.Element.Remove()
	return true
}

// Particles returns the live particles from oldest to newest.
func (t *TrailEmitter) Particles() []*Particle {
	out := make([]*Particle, 0, t.pool.Len())
	t.pool.Each(func(_ PoolHandle, p *Particle) bool {
		out = append(out, p)
		return true
	})
	return out
}

func msDuration(ms float64) time.Duration {
	if !finite(ms) || ms < 0 {
		return 0
	}
	return time.Duration(ms * float64(time.Millisecond))
}

// Follower eases the ball toward the raw pointer position every frame,
// independent of spawn cadence.
type Follower struct {
	ball   *Element
	state  *AppState
	weight float64
	pos    Vec2
}

func newFollower(ball *Element, state *AppState, weight float64) *Follower {
	f := &Follower{ball: ball, state: state, weight: weight, pos: state.Pointer.Position}
	ball.Fixed = true
	f.write()
	return f
}

// Step moves the ball one frame toward the pointer.
func (f *Follower) Step(time.Time) {
	target := f.state.Pointer.Position
	f.pos.X = lerp(f.pos.X, target.X, f.weight)
	f.pos.Y = lerp(f.pos.Y, target.Y, f.weight)
	f.write()
}

// Position returns the ball position.
func (f *Follower) Position() Vec2 { return f.pos }

func (f *Follower) write() {
	f.ball.SetNumber("--ball-x", f.pos.X, 2, "px")
	f.ball.SetNumber("--ball-y", f.pos.Y, 2, "px")
}
