package folio

import (
	"slices"
	"time"
)

// FrameFunc is a callback invoked with the current frame time.
type FrameFunc func(now time.Time)

// Stepper is a self-rescheduling loop expressed as a pure state machine.
// Step advances the machine at now and returns the next deadline; a zero
// deadline means "run again next frame".
type Stepper interface {
	Step(now time.Time) time.Time
}

// StepperFunc adapts a function to the Stepper interface.
type StepperFunc func(now time.Time) time.Time

// Step calls f(now).
func (f StepperFunc) Step(now time.Time) time.Time { return f(now) }

type taskKind uint8

const (
	taskFrame taskKind = iota
	taskLoop
	taskDriver
	taskTimer
)

type task struct {
	id        uint32
	kind      taskKind
	fn        FrameFunc
	stepper   Stepper
	deadline  time.Time
	cancelled bool
	done      bool
}

// TaskHandle allows cancelling a scheduled callback, loop or timer.
type TaskHandle struct {
	t *task
}

// Cancel stops the task from firing. Safe to call more than once and on the
// zero handle.
func (h TaskHandle) Cancel() {
	if h.t != nil {
		h.t.cancelled = true
	}
}

// Active reports whether the task is still scheduled.
func (h TaskHandle) Active() bool {
	return h.t != nil && !h.t.cancelled && !h.t.done
}

// maxFrameDelta caps the per-frame delta handed to tweens so a stalled window
// does not jump animations to their end.
const maxFrameDelta = 100 * time.Millisecond

// Scheduler multiplexes the three scheduling primitives of the page:
// display-synchronized frame callbacks, deferred timers and persistent
// per-frame loops. It never blocks; waiting is always "reschedule for a later
// tick". There is no global scheduler; the Document owns one and Run is
// called once per frame.
type Scheduler struct {
	clock  TimeSource
	frame  []*task
	loops  []*task
	timers []*task
	nextID uint32

	now       time.Time
	lastFrame time.Time
	dt        time.Duration
	frames    uint64
}

// NewScheduler creates a scheduler reading time from clock.
func NewScheduler(clock TimeSource) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{clock: clock}
}

func (s *Scheduler) newTask(kind taskKind) *task {
	s.nextID++
	return &task{id: s.nextID, kind: kind}
}

// Now returns the clock's current time.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// RequestFrame schedules fn to run once on the next frame. Callbacks
// requested while a frame is running fire on the following frame.
func (s *Scheduler) RequestFrame(fn FrameFunc) TaskHandle {
	t := s.newTask(taskFrame)
	t.fn = fn
	s.frame = append(s.frame, t)
	return TaskHandle{t}
}

// Loop runs fn on every frame until cancelled.
func (s *Scheduler) Loop(fn FrameFunc) TaskHandle {
	t := s.newTask(taskLoop)
	t.fn = fn
	s.loops = append(s.loops, t)
	return TaskHandle{t}
}

// Drive runs st.Step on the first frame at or after its returned deadline.
func (s *Scheduler) Drive(st Stepper) TaskHandle {
	t := s.newTask(taskDriver)
	t.stepper = st
	s.loops = append(s.loops, t)
	return TaskHandle{t}
}

// After runs fn once on the first frame at or after now+d.
func (s *Scheduler) After(d time.Duration, fn FrameFunc) TaskHandle {
	t := s.newTask(taskTimer)
	t.fn = fn
	t.deadline = s.clock.Now().Add(d)
	s.timers = append(s.timers, t)
	return TaskHandle{t}
}

// Coalesce returns a Coalescer that collapses any number of Schedule calls
// within a frame into a single invocation of fn on the next frame.
func (s *Scheduler) Coalesce(fn FrameFunc) *Coalescer {
	return &Coalescer{s: s, fn: fn}
}

// FrameDelta returns the time elapsed between the two most recent frames,
// capped at 100ms. Zero on the first frame.
func (s *Scheduler) FrameDelta() time.Duration {
	return s.dt
}

// Frames returns the number of frames run so far.
func (s *Scheduler) Frames() uint64 {
	return s.frames
}

// Pending returns the number of live one-shot callbacks and timers.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.frame {
		if !t.cancelled {
			n++
		}
	}
	for _, t := range s.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Run executes one frame at now: due timers in deadline order, then the
// one-shot frame callbacks queued before this frame, then persistent loops
// and drivers in registration order.
func (s *Scheduler) Run(now time.Time) {
	if !s.lastFrame.IsZero() {
		s.dt = min(max(now.Sub(s.lastFrame), 0), maxFrameDelta)
	}
	s.lastFrame = now
	s.now = now
	s.frames++

	batch := s.frame
	s.frame = nil

	s.runTimers(now)
	for _, t := range batch {
		if t.cancelled {
			continue
		}
		t.done = true
		t.fn(now)
	}

	n := len(s.loops)
	for i := 0; i < n; i++ {
		t := s.loops[i]
		if t.cancelled {
			continue
		}
		switch t.kind {
		case taskLoop:
			t.fn(now)
		case taskDriver:
			if t.deadline.IsZero() || !now.Before(t.deadline) {
				t.deadline = t.stepper.Step(now)
			}
		}
	}
	s.loops = slices.DeleteFunc(s.loops, func(t *task) bool { return t.cancelled })
}

func (s *Scheduler) runTimers(now time.Time) {
	var due []*task
	kept := s.timers[:0]
	for _, t := range s.timers {
		switch {
		case t.cancelled:
		case !now.Before(t.deadline):
			due = append(due, t)
		default:
			kept = append(kept, t)
		}
	}
	clear(s.timers[len(kept):])
	s.timers = kept

	slices.SortStableFunc(due, func(a, b *task) int {
		if c := a.deadline.Compare(b.deadline); c != 0 {
			return c
		}
		return int(a.id) - int(b.id)
	})
	for _, t := range due {
		if t.cancelled {
			continue
		}
		t.done = true
		t.fn(now)
	}
}

// Coalescer is a one-shot re-entrancy guard: a storm of Schedule calls
// collapses to at most one pending invocation per frame.
type Coalescer struct {
	s       *Scheduler
	fn      FrameFunc
	pending TaskHandle
}

// Schedule requests fn on the next frame. Returns false if a call is
// already pending.
func (c *Coalescer) Schedule() bool {
	if c.pending.Active() {
		return false
	}
	c.pending = c.s.RequestFrame(c.fn)
	return true
}

// Pending reports whether an invocation is queued.
func (c *Coalescer) Pending() bool {
	return c.pending.Active()
}

// Cancel drops a pending invocation.
func (c *Coalescer) Cancel() {
	c.pending.Cancel()
}
