package folio

import (
	"testing"
	"time"
)

func TestRequestFrameRunsOnce(t *testing.T) {
	clock := NewManualClock(epoch)
	s := NewScheduler(clock)
	calls := 0
	s.RequestFrame(func(time.Time) { calls++ })

	s.Run(clock.Now())
	s.Run(clock.Now())
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRequestFrameDuringRunDefers(t *testing.T) {
	clock := NewManualClock(epoch)
	s := NewScheduler(clock)
	var order []string
	s.RequestFrame(func(time.Time) {
		order = append(order, "a")
		s.RequestFrame(func(time.Time) { order = append(order, "b") })
	})

	s.Run(clock.Now())
	if len(order) != 1 {
		t.Fatalf("after frame 1 order = %v, want [a]", order)
	}
	s.Run(clock.Now())
	if len(order) != 2 || order[1] != "b" {
		t.Errorf("after frame 2 order = %v, want [a b]", order)
	}
}

func TestRequestFrameFromTimerDefers(t *testing.T) {
	clock := NewManualClock(epoch)
	s := NewScheduler(clock)
	fired := 0
	s.After(10*time.Millisecond, func(time.Time) {
		s.RequestFrame(func(time.Time) { fired++ })
	})

	clock.Advance(10 * time.Millisecond)
	s.Run(clock.Now())
	if fired != 0 {
		t.Fatalf("frame callback from a timer ran in the same frame")
	}
	clock.Advance(16 * time.Millisecond)
	s.Run(clock.Now())
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
}

func TestAfterFiresInDeadlineOrder(t *testing.T) {
	clock := NewManualClock(epoch)
	s := NewScheduler(clock)
	var order []int
	s.After(30*time.Millisecond, func(time.Time) { order = append(order, 30) })
	s.After(10*time.Millisecond, func(time.Time) { order = append(order, 10) })
	s.After(20*time.Millisecond, func(time.Time) { order = append(order, 20) })

	clock.Advance(15 * time.Millisecond)
	s.Run(clock.Now())
	if len(order) != 1 || order[0] != 10 {
		t.Fatalf("order = %v, want [10]", order)
	}
	clock.Advance(50 * time.Millisecond)
	s.Run(clock.Now())
	if len(order) != 3 || order[1] != 20 || order[2] != 30 {
		t.Errorf("order = %v, want [10 20 30]", order)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", s.Pending())
	}
}

func TestTaskCancel(t *testing.T) {
	clock := NewManualClock(epoch)
	s := NewScheduler(clock)
	fired := false
	h := s.After(time.Millisecond, func(time.Time) { fired = true })
	if !h.Active() {
		t.Error("new timer should be active")
	}
	h.Cancel()
	h.Cancel()
	clock.Advance(time.Second)
	s.Run(clock.Now())
	if fired {
		t.Error("cancelled timer fired")
	}
	if h.Active() {
		t.Error("cancelled timer still active")
	}

	var zero TaskHandle
	zero.Cancel()
	if zero.Active() {
		t.Error("zero handle should not be active")
	}
}

func TestLoopRunsEveryFrameUntilCancelled(t *testing.T) {
	clock := NewManualClock(epoch)
	s := NewScheduler(clock)
	calls := 0
	var h TaskHandle
	h = s.Loop(func(time.Time) {
		calls++
		if calls == 3 {
			h.Cancel()
		}
	})
	for range 5 {
		s.Run(clock.Now())
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDriveHonorsDeadline(t *testing.T) {
	clock := NewManualClock(epoch)
	s := NewScheduler(clock)
	var ticks []time.Duration
	s.Drive(StepperFunc(func(now time.Time) time.Time {
		ticks = append(ticks, now.Sub(epoch))
		return now.Add(50 * time.Millisecond)
	}))

	for range 10 {
		s.Run(clock.Now())
		clock.Advance(20 * time.Millisecond)
	}
	// Frames at 0, 20, ..., 180ms; deadlines 50(→60), 110(→120), 170(→180).
	want := []time.Duration{0, 60 * time.Millisecond, 120 * time.Millisecond, 180 * time.Millisecond}
	if len(ticks) != len(want) {
		t.Fatalf("ticks = %v, want %v", ticks, want)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Errorf("tick %d = %v, want %v", i, ticks[i], want[i])
		}
	}
}

func TestCoalescerCollapsesStorm(t *testing.T) {
	clock := NewManualClock(epoch)
	s := NewScheduler(clock)
	calls := 0
	c := s.Coalesce(func(time.Time) { calls++ })

	if !c.Schedule() {
		t.Error("first Schedule should queue")
	}
	for range 50 {
		if c.Schedule() {
			t.Fatal("Schedule queued twice in one frame")
		}
	}
	if !c.Pending() {
		t.Error("Pending = false, want true")
	}
	s.Run(clock.Now())
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if c.Pending() {
		t.Error("Pending after run")
	}
	if !c.Schedule() {
		t.Error("Schedule after run should queue again")
	}
	c.Cancel()
	s.Run(clock.Now())
	if calls != 1 {
		t.Errorf("calls after cancel = %d, want 1", calls)
	}
}

func TestFrameDeltaCapped(t *testing.T) {
	clock := NewManualClock(epoch)
	s := NewScheduler(clock)
	s.Run(clock.Now())
	if s.FrameDelta() != 0 {
		t.Errorf("first FrameDelta = %v, want 0", s.FrameDelta())
	}
	clock.Advance(16 * time.Millisecond)
	s.Run(clock.Now())
	if s.FrameDelta() != 16*time.Millisecond {
		t.Errorf("FrameDelta = %v, want 16ms", s.FrameDelta())
	}
	clock.Advance(5 * time.Second)
	s.Run(clock.Now())
	if s.FrameDelta() != maxFrameDelta {
		t.Errorf("FrameDelta = %v, want %v", s.FrameDelta(), maxFrameDelta)
	}
	if s.Frames() != 3 {
		t.Errorf("Frames = %d, want 3", s.Frames())
	}
}
