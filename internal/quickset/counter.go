package quickset

// Add sets the counter for key to val. It does not accumulate: the previous
// count is overwritten. Keys outside [clip, span] and values above the count
// ceiling are ignored. The rank window is not touched.
func (s *Set) Add(key int, val uint32) {
	if !s.inDomain(key) || val > s.high {
		return
	}
	s.bits.put(key, val)
}

// Put is Add without validation. The caller must guarantee 0 <= key <= span
// and val <= high; an out-of-range key panics and an oversized value is
// truncated to the counter width.
func (s *Set) Put(key int, val uint32) {
	s.bits.put(key, val)
}

// Get returns the counter for key. Keys with no counter read as zero.
func (s *Set) Get(key int) uint32 {
	if key < 0 || key >= s.bits.len() {
		return 0
	}
	return s.bits.at(key)
}

// Has reports whether key is in the domain and has a nonzero count.
func (s *Set) Has(key int) bool {
	return s.inDomain(key) && s.bits.at(key) != 0
}

// Delete zeroes the counter for key. A window entry for key, if any, stays
// in place until it is evicted; use Derank to drop both.
func (s *Set) Delete(key int) {
	if !s.inDomain(key) {
		return
	}
	s.bits.put(key, 0)
}

// Len returns the number of keys with a nonzero count.
func (s *Set) Len() int {
	n := 0
	for i := range s.bits.len() {
		if s.bits.at(i) != 0 {
			n++
		}
	}
	return n
}
