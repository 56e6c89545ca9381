package host

import (
	"math"
	"testing"
	"time"

	"github.com/phanxgames/folio"
)

func TestParticleAnimatorLifecycle(t *testing.T) {
	clock := folio.NewManualClock(epoch)
	doc := folio.NewDocument(clock)
	trail := doc.CreateElement("div", "lava-trail")
	doc.Body().AppendChild(trail)

	p := doc.CreateElement("span", "", "blob")
	p.SetVar("--life", "100ms")
	trail.AppendChild(p)
	ended := 0
	p.On(folio.EventAnimationEnd, func(*folio.Event) {
		ended++
		p.Remove()
	})

	a := newParticleAnimator(doc, trail)
	a.Update()
	if a.Len() != 1 {
		t.Fatalf("Len = %d, want 1", a.Len())
	}

	clock.Advance(50 * time.Millisecond)
	a.Update()
	if got := a.State(p).progress; math.Abs(got-0.5) > 1e-3 {
		t.Errorf("progress = %v, want 0.5", got)
	}
	if st := a.State(p); st.eased <= st.progress {
		t.Errorf("eased %v should lead linear %v", st.eased, st.progress)
	}

	clock.Advance(60 * time.Millisecond)
	a.Update()
	if ended != 1 {
		t.Errorf("animationend fired %d times, want 1", ended)
	}

	clock.Advance(16 * time.Millisecond)
	a.Update()
	if a.Len() != 0 {
		t.Errorf("Len after removal = %d, want 0", a.Len())
	}
}

func TestDurationVar(t *testing.T) {
	doc := folio.NewDocument(folio.NewManualClock(epoch))
	el := doc.CreateElement("span", "")
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"1200ms", 1200 * time.Millisecond},
		{"1.5s", 1500 * time.Millisecond},
		{"2", 2 * time.Second},
		{"fast", defaultLife},
		{"-5ms", defaultLife},
	}
	for _, tt := range tests {
		el.SetVar("--life", tt.value)
		if got := durationVar(el, "--life", defaultLife); got != tt.want {
			t.Errorf("durationVar(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
	if got := durationVar(el, "--missing", defaultLife); got != defaultLife {
		t.Errorf("missing var = %v, want %v", got, defaultLife)
	}
}
