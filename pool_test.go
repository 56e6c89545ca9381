package folio

import "testing"

func TestPoolEvictsOldest(t *testing.T) {
	p := NewPool[int](3)
	var hs []PoolHandle
	for i := range 3 {
		h, _, evicted := p.Admit(i)
		if evicted {
			t.Fatalf("Admit(%d) evicted below capacity", i)
		}
		hs = append(hs, h)
	}
	h, old, evicted := p.Admit(3)
	if !evicted || old != 0 {
		t.Fatalf("Admit at capacity = (%v, %v), want eviction of 0", old, evicted)
	}
	if p.Len() != 3 {
		t.Errorf("Len = %d, want 3", p.Len())
	}
	if p.Contains(hs[0]) {
		t.Error("evicted handle still valid")
	}
	if v, ok := p.Get(h); !ok || v != 3 {
		t.Errorf("Get(new) = %v, %v", v, ok)
	}
	if v, _, _ := p.Oldest(); v != 1 {
		t.Errorf("Oldest = %v, want 1", v)
	}
}

func TestPoolRemoveMiddleKeepsOrder(t *testing.T) {
	p := NewPool[string](4)
	a, _, _ := p.Admit("a")
	b, _, _ := p.Admit("b")
	p.Admit("c")
	if v, ok := p.Remove(b); !ok || v != "b" {
		t.Fatalf("Remove(b) = %q, %v", v, ok)
	}
	if _, ok := p.Remove(b); ok {
		t.Error("second Remove(b) succeeded")
	}
	p.Admit("d")

	var got []string
	p.Each(func(_ PoolHandle, v string) bool {
		got = append(got, v)
		return true
	})
	want := []string{"a", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("Each = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Each = %v, want %v", got, want)
		}
	}
	p.Remove(a)
	if v, _, _ := p.Oldest(); v != "c" {
		t.Errorf("Oldest = %q, want c", v)
	}
}

func TestPoolStaleHandleAfterReuse(t *testing.T) {
	p := NewPool[int](1)
	h1, _, _ := p.Admit(1)
	h2, _, _ := p.Admit(2)
	if p.Contains(h1) {
		t.Error("stale handle valid after slot reuse")
	}
	if _, ok := p.Remove(h1); ok {
		t.Error("Remove with stale handle succeeded")
	}
	if !p.Contains(h2) {
		t.Error("live handle invalid")
	}
	if p.Contains(PoolHandle{}) {
		t.Error("zero handle valid")
	}
}

func TestPoolNeverExceedsCapacity(t *testing.T) {
	p := NewPool[int](5)
	evictions := 0
	for i := range 100 {
		if _, _, ev := p.Admit(i); ev {
			evictions++
		}
		if p.Len() > p.Cap() {
			t.Fatalf("Len = %d > Cap = %d", p.Len(), p.Cap())
		}
	}
	if evictions != 95 {
		t.Errorf("evictions = %d, want 95", evictions)
	}
}
