package folio

import (
	"testing"
	"time"
	"unicode/utf8"
)

type staticRoles struct {
	prefix string
	roles  []string
}

func (s staticRoles) Roles(Language) (string, []string) { return s.prefix, s.roles }

func newTestTyping(t *testing.T, src RoleSource) (*TypingAnimator, *Document) {
	t.Helper()
	doc, _ := newTestDoc()
	addEl(doc.Body(), "h1", "intro", Rect{Width: 600, Height: 60})
	ta, ok := NewTypingAnimator(doc, src, "en", DefaultTypingDurations())
	if !ok {
		t.Fatal("NewTypingAnimator failed")
	}
	return ta, doc
}

// tick steps ta at its own deadline and returns the new deadline.
func tick(ta *TypingAnimator, now time.Time) time.Time {
	return ta.Step(now)
}

func TestTypingCycle(t *testing.T) {
	ta, _ := newTestTyping(t, staticRoles{prefix: "Hello, I'm ", roles: []string{"X", "Y"}})
	full := "Hello, I'm X"

	now := epoch
	for range utf8.RuneCountInString(full) {
		now = tick(ta, now)
	}
	if ta.Text() != full {
		t.Fatalf("after typing: %q, want %q", ta.Text(), full)
	}
	if ta.Phase() != PhaseHolding {
		t.Errorf("phase = %v, want holding", ta.Phase())
	}
	if got := now.Sub(epoch); got != 11*60*time.Millisecond+1500*time.Millisecond {
		t.Errorf("hold deadline at %v", got)
	}

	// Early ticks change nothing.
	if next := tick(ta, now.Add(-time.Millisecond)); !next.Equal(now) || ta.Text() != full {
		t.Error("tick before deadline advanced the animation")
	}

	now = tick(ta, now)
	if ta.Text() != "Hello, I'm " {
		t.Errorf("after delete: %q, want the prefix alone", ta.Text())
	}
	if ta.Phase() != PhaseGap || ta.RoleIndex() != 1 {
		t.Errorf("phase = %v, role = %d, want gap, 1", ta.Phase(), ta.RoleIndex())
	}

	tick(ta, now)
	if ta.Text() != "Hello, I'm Y" {
		t.Errorf("next role: %q, want Hello, I'm Y", ta.Text())
	}
}

func TestTypingDeletesRuneByRune(t *testing.T) {
	ta, _ := newTestTyping(t, staticRoles{prefix: "I'm ", roles: []string{"abc"}})
	now := epoch
	for range 7 {
		now = tick(ta, now)
	}
	var seen []string
	for ta.Phase() != PhaseGap {
		now = tick(ta, now)
		seen = append(seen, ta.Text())
	}
	want := []string{"I'm ab", "I'm a", "I'm "}
	if len(seen) != len(want) {
		t.Fatalf("delete sequence = %q, want %q", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("delete %d = %q, want %q", i, seen[i], want[i])
		}
	}
	// A single role cycles back to itself.
	if ta.RoleIndex() != 0 {
		t.Errorf("RoleIndex = %d, want 0", ta.RoleIndex())
	}
}

func TestTypingResetMidRole(t *testing.T) {
	dict := testDictionary()
	ta, _ := newTestTyping(t, dict)
	now := epoch
	for range 5 {
		now = tick(ta, now)
	}
	ta.Reset("es")
	if ta.Text() != "" || ta.CharIndex() != 0 || ta.RoleIndex() != 0 || ta.Phase() != PhaseTyping {
		t.Fatalf("after Reset: text %q char %d role %d phase %v", ta.Text(), ta.CharIndex(), ta.RoleIndex(), ta.Phase())
	}
	if ta.Language() != "es" {
		t.Errorf("Language = %q, want es", ta.Language())
	}
	now = now.Add(time.Second)
	for range utf8.RuneCountInString("Hola, soy Ñ") {
		now = tick(ta, now)
		if !utf8.ValidString(ta.Text()) {
			t.Fatalf("invalid UTF-8 buffer %q", ta.Text())
		}
	}
	if ta.Text() != "Hola, soy Ñ" {
		t.Errorf("text = %q, want Hola, soy Ñ", ta.Text())
	}
}

func TestTypingEmptyRoles(t *testing.T) {
	ta, _ := newTestTyping(t, staticRoles{})
	now := epoch
	for range 10 {
		now = tick(ta, now)
	}
	if ta.Text() != "" {
		t.Errorf("text = %q, want empty", ta.Text())
	}
}

func TestTypingWithoutHost(t *testing.T) {
	doc, _ := newTestDoc()
	ta, ok := NewTypingAnimator(doc, staticRoles{roles: []string{"x"}}, "en", DefaultTypingDurations())
	if ok || ta != nil {
		t.Error("NewTypingAnimator = ok without #intro")
	}
	ta.Reset("en")
}

func TestTypingDrivenByScheduler(t *testing.T) {
	ta, doc := newTestTyping(t, staticRoles{prefix: "Hi ", roles: []string{"Bo"}})
	clock := doc.Clock().(*ManualClock)
	steps(doc, clock, 5, 60*time.Millisecond)
	if ta.Text() != "Hi Bo" {
		t.Errorf("text = %q, want Hi Bo", ta.Text())
	}
}
