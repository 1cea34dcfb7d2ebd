package cache

import "sync"

// Slot holds the latest result for one logical lookup slot whose input can
// change while an earlier fetch is still in flight (e.g. the destination
// field being edited faster than federation lookups return).
//
// Every new request takes a generation number from Begin. A result is
// applied only if its generation is still the newest one handed out, so a
// slow earlier lookup can never overwrite a faster later one. Results of
// superseded requests are dropped, not errors.
type Slot[V any] struct {
	mu      sync.Mutex
	gen     uint64
	applied uint64
	value   V
	valid   bool
}

func NewSlot[V any]() *Slot[V] {
	return &Slot[V]{}
}

// Begin registers a new request and returns its generation tag. Starting a
// new request supersedes all earlier ones immediately, even before their
// results arrive.
func (s *Slot[V]) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// Apply stores value if gen is still the latest generation. It reports
// whether the value was applied.
func (s *Slot[V]) Apply(gen uint64, value V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.value = value
	s.valid = true
	s.applied = gen
	return true
}

// Invalidate clears the held value if gen is still the latest generation.
// Used when the latest request failed and no older value should survive it.
func (s *Slot[V]) Invalidate(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	var zero V
	s.value = zero
	s.valid = false
	return true
}

// Current returns the value of the newest applied request, if any.
func (s *Slot[V]) Current() (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.valid
}
