package folio

import "time"

// TypingDurations are the per-phase tick intervals.
type TypingDurations struct {
	Type   time.Duration
	Delete time.Duration
	Hold   time.Duration
	Gap    time.Duration
}

// DefaultTypingDurations returns 60ms type, 40ms delete, 1500ms hold and
// 360ms gap.
func DefaultTypingDurations() TypingDurations {
	return TypingDurations{
		Type:   60 * time.Millisecond,
		Delete: 40 * time.Millisecond,
		Hold:   1500 * time.Millisecond,
		Gap:    360 * time.Millisecond,
	}
}

// TypingPhase is the typewriter state.
type TypingPhase uint8

const (
	PhaseTyping TypingPhase = iota
	PhaseHolding
	PhaseDeleting
	PhaseGap
)

var phaseNames = [...]string{"typing", "holding", "deleting", "gap"}

func (p TypingPhase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// RoleSource resolves the fixed prefix and the ordered role strings for a
// language.
type RoleSource interface {
	Roles(lang Language) (prefix string, roles []string)
}

// TypingAnimator types "prefix+role" one character per tick, holds, deletes
// back to the prefix, pauses, then moves to the next role. It owns its
// cursor exclusively; Reset is the only way in from outside.
type TypingAnimator struct {
	host  *Element
	src   RoleSource
	dur   TypingDurations
	sched *Scheduler
	task  TaskHandle

	lang      Language
	prefix    []rune
	roles     [][]rune
	roleIndex int
	charIndex int
	phase     TypingPhase
	next      time.Time
}

// NewTypingAnimator mounts on #intro and registers with the document's
// scheduler. Without the host element it returns false and does no work.
func NewTypingAnimator(doc *Document, src RoleSource, lang Language, dur TypingDurations) (*TypingAnimator, bool) {
	host := doc.ByID("intro")
	if host == nil {
		return nil, false
	}
	t := &TypingAnimator{host: host, src: src, dur: dur, sched: doc.Scheduler()}
	t.Reset(lang)
	return t, true
}

// Reset restarts at the first role of lang with an empty buffer, re-reading
// the role strings. The pending tick is replaced, so typing resumes on the
// next frame.
func (t *TypingAnimator) Reset(lang Language) {
	if t == nil || t.host == nil {
		return
	}
	t.lang = lang
	prefix, roles := "", []string(nil)
	if t.src != nil {
		prefix, roles = t.src.Roles(lang)
	}
	if len(roles) == 0 {
		roles = []string{""}
	}
	t.prefix = []rune(prefix)
	t.roles = t.roles[:0]
	for _, r := range roles {
		t.roles = append(t.roles, []rune(prefix+r))
	}
	t.roleIndex = 0
	t.charIndex = 0
	t.phase = PhaseTyping
	t.next = time.Time{}
	t.host.SetText("")
	if t.sched != nil {
		t.task.Cancel()
		t.task = t.sched.Drive(t)
	}
}

// Step runs one tick if its deadline has passed and returns the next
// deadline.
func (t *TypingAnimator) Step(now time.Time) time.Time {
	if t.host == nil {
		return time.Time{}
	}
	if t.next.IsZero() {
		t.next = now
	}
	if now.Before(t.next) {
		return t.next
	}

	full := t.roles[t.roleIndex%len(t.roles)]
	switch t.phase {
	case PhaseGap:
		t.phase = PhaseTyping
		fallthrough
	case PhaseTyping:
		if t.charIndex < len(full) {
			t.charIndex++
			t.render(full)
		}
		if t.charIndex >= len(full) {
			t.phase = PhaseHolding
			t.next = now.Add(t.dur.Hold)
		} else {
			t.next = now.Add(t.dur.Type)
		}
	case PhaseHolding:
		t.phase = PhaseDeleting
		fallthrough
	case PhaseDeleting:
		if t.charIndex > len(t.prefix) {
			t.charIndex--
			t.render(full)
		}
		if t.charIndex <= len(t.prefix) {
			t.charIndex = min(t.charIndex, len(t.prefix))
			t.host.SetText(string(t.prefix))
			t.roleIndex = (t.roleIndex + 1) % len(t.roles)
			t.phase = PhaseGap
			t.next = now.Add(t.dur.Gap)
		} else {
			t.next = now.Add(t.dur.Delete)
		}
	}
	return t.next
}

func (t *TypingAnimator) render(full []rune) {
	t.host.SetText(string(full[:t.charIndex]))
}

// Text returns the rendered buffer.
func (t *TypingAnimator) Text() string { return t.host.Text() }

// Phase returns the current phase.
func (t *TypingAnimator) Phase() TypingPhase { return t.phase }

// RoleIndex returns the index of the role being typed.
func (t *TypingAnimator) RoleIndex() int { return t.roleIndex }

// CharIndex returns the number of runes rendered.
func (t *TypingAnimator) CharIndex() int { return t.charIndex }

// Language returns the language the role strings were read from.
func (t *TypingAnimator) Language() Language { return t.lang }
