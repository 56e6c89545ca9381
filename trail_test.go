package folio

import (
	"testing"
	"time"
)

func newTestTrail(t *testing.T, cfg TrailConfig, state *AppState) (*TrailEmitter, *Document, *ManualClock) {
	t.Helper()
	doc, clock := newTestDoc()
	addEl(doc.Body(), "div", "lava-trail", Rect{Width: 1000, Height: 800})
	addEl(doc.Body(), "div", "cursor-ball", Rect{Width: 20, Height: 20})
	tr, ok := NewTrailEmitter(doc, state, cfg, testRand())
	if !ok {
		t.Fatal("NewTrailEmitter failed")
	}
	return tr, doc, clock
}

// sweep moves the pointer 20px right every 16ms frame for n frames.
func sweep(doc *Document, clock *ManualClock, from Vec2, n int) Vec2 {
	p := from
	for range n {
		clock.Advance(16 * time.Millisecond)
		p.X += 20
		doc.PointerMove(p.X, p.Y)
		doc.Update()
	}
	return p
}

func TestTrailMountRequiresElements(t *testing.T) {
	doc, _ := newTestDoc()
	addEl(doc.Body(), "div", "lava-trail", Rect{})
	if _, ok := NewTrailEmitter(doc, &AppState{}, DefaultTrailConfig(), nil); ok {
		t.Error("NewTrailEmitter = ok without #cursor-ball")
	}
}

func TestTrailNeverExceedsCapacity(t *testing.T) {
	cfg := DefaultTrailConfig()
	cfg.Capacity = 5
	tr, doc, clock := newTestTrail(t, cfg, &AppState{})
	trail := doc.ByID("lava-trail")

	p := Vec2{0, 300}
	for range 100 {
		p = sweep(doc, clock, p, 1)
		if p.X > 900 {
			p.X = 0
		}
		if tr.Len() > tr.Cap() {
			t.Fatalf("Len = %d > Cap = %d", tr.Len(), tr.Cap())
		}
		if n := len(trail.Children()); n != tr.Len() {
			t.Fatalf("trail children = %d, Len = %d", n, tr.Len())
		}
	}
	if tr.Evictions() == 0 {
		t.Error("no evictions under sustained movement")
	}
}

func TestTrailEvictsExactlyOne(t *testing.T) {
	cfg := DefaultTrailConfig()
	cfg.Capacity = 4
	tr, _, _ := newTestTrail(t, cfg, &AppState{})

	tr.spawn(4)
	if tr.Len() != 4 || tr.Evictions() != 0 {
		t.Fatalf("Len = %d, evictions = %d, want 4, 0", tr.Len(), tr.Evictions())
	}
	oldest := tr.Particles()[0]
	tr.spawn(1)
	if tr.Len() != 4 || tr.Evictions() != 1 {
		t.Errorf("Len = %d, evictions = %d, want 4, 1", tr.Len(), tr.Evictions())
	}
	if !oldest.Element.IsDisposed() {
		t.Error("oldest particle element not removed")
	}
	if tr.Particles()[0] == oldest {
		t.Error("oldest particle still tracked")
	}
}

func TestTrailSpawnsWhileMoving(t *testing.T) {
	state := &AppState{}
	tr, doc, clock := newTestTrail(t, DefaultTrailConfig(), state)
	sweep(doc, clock, Vec2{100, 300}, 30)
	if tr.Len() == 0 {
		t.Fatal("no particles after 480ms of movement")
	}
	for _, p := range tr.Particles() {
		if p.Kind != ParticleBlob || !p.Element.HasClass("blob") {
			t.Fatalf("light theme particle = %v", p.Kind)
		}
		if p.Drift.Y > -60 || p.Drift.Y < -160 {
			t.Errorf("blob drift y = %v, want in [-160, -60]", p.Drift.Y)
		}
		if _, ok := p.Element.Var("--life"); !ok {
			t.Error("particle missing --life")
		}
	}

	state.Theme = ThemeDark
	sweep(doc, clock, Vec2{100, 300}, 30)
	last := tr.Particles()[tr.Len()-1]
	if last.Kind != ParticleDigit || len(last.Element.Text()) != 1 {
		t.Errorf("dark theme particle = %v %q, want a digit", last.Kind, last.Element.Text())
	}
	if last.Drift.Y < 60 {
		t.Errorf("digit drift y = %v, want downward", last.Drift.Y)
	}
}

func TestTrailStopsWhenIdle(t *testing.T) {
	state := &AppState{}
	tr, doc, clock := newTestTrail(t, DefaultTrailConfig(), state)
	sweep(doc, clock, Vec2{100, 300}, 10)

	steps(doc, clock, 30, 16*time.Millisecond)
	if state.Pointer.Active || state.Pointer.Accumulator != 0 {
		t.Fatalf("pointer after idle = %+v, want inactive with zero accumulator", state.Pointer)
	}
	n := tr.Len()
	steps(doc, clock, 20, 16*time.Millisecond)
	if tr.Len() > n {
		t.Errorf("spawned while idle: %d -> %d", n, tr.Len())
	}
}

func TestTrailVisibility(t *testing.T) {
	state := &AppState{}
	tr, doc, clock := newTestTrail(t, DefaultTrailConfig(), state)
	p := sweep(doc, clock, Vec2{100, 300}, 5)

	doc.SetHidden(true)
	if state.Pointer.Active || state.Pointer.Accumulator != 0 {
		t.Fatalf("pointer after hide = %+v", state.Pointer)
	}
	n := tr.Len()
	steps(doc, clock, 60, 16*time.Millisecond)
	if tr.Len() > n {
		t.Error("spawned while hidden")
	}

	doc.SetHidden(false)
	now := doc.Now()
	if !tr.NextSpawn().After(now) {
		t.Errorf("NextSpawn = %v, want after %v", tr.NextSpawn(), now)
	}
	before := tr.Len()
	sweep(doc, clock, p, 1)
	if tr.Len() != before {
		t.Error("burst spawned on the first frame after becoming visible")
	}
}

func TestTrailSpawnCount(t *testing.T) {
	state := &AppState{}
	tr, _, _ := newTestTrail(t, DefaultTrailConfig(), state)
	tests := []struct {
		theme Theme
		acc   float64
		want  int
	}{
		{ThemeLight, 0, 3},
		{ThemeDark, 0, 4},
		{ThemeLight, 36, 5},
		{ThemeLight, 800, 8},
		{ThemeDark, 17, 4},
	}
	for _, tt := range tests {
		state.Theme = tt.theme
		state.Pointer.Accumulator = tt.acc
		if got := tr.SpawnCount(); got != tt.want {
			t.Errorf("SpawnCount(%v, acc=%v) = %d, want %d", tt.theme, tt.acc, got, tt.want)
		}
	}

	reduced, _, _ := newTestTrail(t, DefaultTrailConfig(), &AppState{ReducedMotion: true})
	if got := reduced.SpawnCount(); got != 1 {
		t.Errorf("reduced SpawnCount = %d, want 1", got)
	}
	if reduced.Cap() != 35 {
		t.Errorf("reduced Cap = %d, want 35", reduced.Cap())
	}
}

func TestTrailSpawnDelay(t *testing.T) {
	state := &AppState{}
	tr, doc, _ := newTestTrail(t, DefaultTrailConfig(), state)
	now := doc.Now()
	within := func(d time.Duration, lo, hi float64) bool {
		ms := float64(d) / float64(time.Millisecond)
		return ms >= lo && ms <= hi
	}

	for range 50 {
		state.Theme = ThemeLight
		if d := tr.SpawnDelay(now); !within(d, 55, 120) {
			t.Fatalf("light delay = %v", d)
		}
		state.Theme = ThemeDark
		if d := tr.SpawnDelay(now); !within(d, 38, 80) {
			t.Fatalf("dark delay = %v", d)
		}
	}

	// Full speed shortens the delay, never below the floor.
	state.Theme = ThemeLight
	state.Pointer.SmoothedSpeed = 10
	state.Pointer.LastMove = now
	for range 50 {
		if d := tr.SpawnDelay(now); !within(d, 24, 66) {
			t.Fatalf("fast delay = %v, want in [24, 66]ms", d)
		}
	}

	// A resting pointer approaches the idle ceiling.
	state.Pointer.LastMove = now.Add(-time.Second)
	if d := tr.SpawnDelay(now); d != 260*time.Millisecond {
		t.Errorf("idle delay = %v, want 260ms", d)
	}

	reduced, rdoc, _ := newTestTrail(t, DefaultTrailConfig(), &AppState{ReducedMotion: true})
	for range 50 {
		if d := reduced.SpawnDelay(rdoc.Now()); !within(d, 220, 380) {
			t.Fatalf("reduced delay = %v", d)
		}
	}
}

func TestTrailParticleRemoval(t *testing.T) {
	tr, doc, clock := newTestTrail(t, DefaultTrailConfig(), &AppState{})
	tr.spawn(2)
	ps := tr.Particles()

	doc.FireAnimationEnd(ps[0].Element)
	if tr.Len() != 1 || !ps[0].Element.IsDisposed() {
		t.Fatalf("animationend: Len = %d, disposed = %v", tr.Len(), ps[0].Element.IsDisposed())
	}

	step(doc, clock, 1500*time.Millisecond)
	if tr.Len() != 1 {
		t.Fatalf("watchdog fired early: Len = %d", tr.Len())
	}
	step(doc, clock, 200*time.Millisecond)
	if tr.Len() != 0 || !ps[1].Element.IsDisposed() {
		t.Errorf("watchdog did not remove the particle: Len = %d", tr.Len())
	}
	if p := doc.Scheduler().Pending(); p != 0 {
		t.Errorf("pending timers = %d, want 0", p)
	}
}

func TestTrailPointerSample(t *testing.T) {
	state := &AppState{}
	tr, doc, clock := newTestTrail(t, DefaultTrailConfig(), state)
	if state.Pointer.Position != (Vec2{500, 400}) {
		t.Fatalf("initial pointer = %v, want viewport center", state.Pointer.Position)
	}
	doc.PointerMove(600, 400)
	clock.Advance(10 * time.Millisecond)
	doc.PointerMove(1500, 400)
	if state.Pointer.Accumulator != 800 {
		t.Errorf("Accumulator = %v, want capped at 800", state.Pointer.Accumulator)
	}
	// 900px over 10ms is 90px/ms, smoothed with weight 0.25.
	if got := state.Pointer.SmoothedSpeed; got != 22.5 {
		t.Errorf("SmoothedSpeed = %v, want 22.5", got)
	}
	_ = tr
}

func TestFollowerEases(t *testing.T) {
	state := &AppState{}
	tr, doc, clock := newTestTrail(t, DefaultTrailConfig(), state)
	ball := doc.ByID("cursor-ball")
	if v, _ := ball.Var("--ball-x"); v != "500.00px" {
		t.Fatalf("--ball-x = %q, want 500.00px", v)
	}
	doc.PointerMove(600, 400)
	step(doc, clock, 16*time.Millisecond)
	if v, _ := ball.Var("--ball-x"); v != "512.00px" {
		t.Errorf("--ball-x = %q, want 512.00px", v)
	}
	steps(doc, clock, 200, 16*time.Millisecond)
	if x := tr.Follower().Position().X; x < 599.9 {
		t.Errorf("follower x = %v, want converged on 600", x)
	}
}
