package folio

import "time"

// TimeSource provides the current time to every loop for elapsed-time math.
type TimeSource interface {
	Now() time.Time
}

// SystemClock provides the real system time with monotonic clock readings.
type SystemClock struct{}

// Now returns time.Now.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock is a controllable time source for tests and scripted runs.
// Not safe for concurrent use; folio is single-threaded.
type ManualClock struct {
	now time.Time
}

// NewManualClock creates a manual clock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time {
	return c.now
}

// Set sets the current time.
func (c *ManualClock) Set(t time.Time) {
	c.now = t
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
