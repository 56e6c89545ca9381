package folio

// PoolHandle identifies an admitted pool entry. Handles of removed or
// evicted entries stay invalid even after their slot is reused. The zero
// handle is never valid.
type PoolHandle struct {
	slot int32
	gen  uint32
}

type poolSlot[T any] struct {
	value      T
	gen        uint32
	live       bool
	prev, next int32
}

// Pool is a fixed-capacity set kept in arrival order. Admit, Remove and
// Oldest are O(1): slots are preallocated, free slots form a stack, and
// live slots are threaded on an intrusive doubly linked list from oldest
// to newest.
type Pool[T any] struct {
	slots []poolSlot[T]
	free  []int32
	head  int32 // oldest, -1 when empty
	tail  int32 // newest, -1 when empty
	n     int
}

// NewPool creates a pool holding at most capacity entries (minimum 1).
func NewPool[T any](capacity int) *Pool[T] {
	capacity = max(capacity, 1)
	p := &Pool[T]{
		slots: make([]poolSlot[T], capacity),
		free:  make([]int32, capacity),
		head:  -1,
		tail:  -1,
	}
	for i := range p.slots {
		p.slots[i].gen = 1
		p.slots[i].prev, p.slots[i].next = -1, -1
		// Pop order hands out slot 0 first.
		p.free[i] = int32(capacity - 1 - i)
	}
	return p
}

// Len returns the number of live entries.
func (p *Pool[T]) Len() int { return p.n }

// Cap returns the fixed capacity.
func (p *Pool[T]) Cap() int { return len(p.slots) }

// Admit inserts v as the newest entry. When the pool is full the oldest
// entry is evicted first and returned with evicted set; the count never
// exceeds Cap.
func (p *Pool[T]) Admit(v T) (h PoolHandle, old T, evicted bool) {
	if p.n == len(p.slots) {
		old = p.slots[p.head].value
		p.release(p.head)
		evicted = true
	}
	i := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]

	s := &p.slots[i]
	s.value = v
	s.live = true
	s.prev, s.next = p.tail, -1
	if p.tail >= 0 {
		p.slots[p.tail].next = i
	} else {
		p.head = i
	}
	p.tail = i
	p.n++
	return PoolHandle{slot: i, gen: s.gen}, old, evicted
}

// Remove deletes the entry for h. Returns the value and true if h was live.
func (p *Pool[T]) Remove(h PoolHandle) (T, bool) {
	if !p.valid(h) {
		var zero T
		return zero, false
	}
	v := p.slots[h.slot].value
	p.release(h.slot)
	return v, true
}

// Get returns the value for h if it is live.
func (p *Pool[T]) Get(h PoolHandle) (T, bool) {
	if !p.valid(h) {
		var zero T
		return zero, false
	}
	return p.slots[h.slot].value, true
}

// Contains reports whether h is live.
func (p *Pool[T]) Contains(h PoolHandle) bool {
	return p.valid(h)
}

// Oldest returns the oldest live entry.
func (p *Pool[T]) Oldest() (T, PoolHandle, bool) {
	if p.head < 0 {
		var zero T
		return zero, PoolHandle{}, false
	}
	s := &p.slots[p.head]
	return s.value, PoolHandle{slot: p.head, gen: s.gen}, true
}

// Each calls fn for every live entry from oldest to newest until fn
// returns false. fn must not admit or remove entries.
func (p *Pool[T]) Each(fn func(h PoolHandle, v T) bool) {
	for i := p.head; i >= 0; i = p.slots[i].next {
		s := &p.slots[i]
		if !fn(PoolHandle{slot: i, gen: s.gen}, s.value) {
			return
		}
	}
}

func (p *Pool[T]) valid(h PoolHandle) bool {
	if h.slot < 0 || int(h.slot) >= len(p.slots) {
		return false
	}
	s := &p.slots[h.slot]
	return s.live && s.gen == h.gen
}

// release unlinks slot i, bumps its generation and returns it to the free stack.
func (p *Pool[T]) release(i int32) {
	s := &p.slots[i]
	if s.prev >= 0 {
		p.slots[s.prev].next = s.next
	} else {
		p.head = s.next
	}
	if s.next >= 0 {
		p.slots[s.next].prev = s.prev
	} else {
		p.tail = s.prev
	}
	var zero T
	s.value = zero
	s.live = false
	s.gen++
	s.prev, s.next = -1, -1
	p.free = append(p.free, i)
	p.n--
}
