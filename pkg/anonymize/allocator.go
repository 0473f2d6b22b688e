package anonymize

// Allocator hands out per-kind monotonically increasing identifiers.
// Counters start at 1, never reuse a value and never skip one. It is a
// pure in-memory counter with no failure mode; the store, not the
// allocator, decides whether a raw value deserves a fresh identifier.
type Allocator struct {
	counters map[Kind]int
}

// NewAllocator returns an empty allocator.
func NewAllocator() *Allocator {
	return &Allocator{counters: make(map[Kind]int)}
}

// Allocate returns the next identifier for the kind, starting at 1.
func (a *Allocator) Allocate(kind Kind) int {
	a.counters[kind]++
	return a.counters[kind]
}

// Counters returns a copy of the current per-kind high-water marks.
func (a *Allocator) Counters() map[Kind]int {
	out := make(map[Kind]int, len(a.counters))
	for k, v := range a.counters {
		out[k] = v
	}
	return out
}
