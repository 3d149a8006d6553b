package quickset

// Derank zeroes the counter for key and removes it from the rank window.
//
// The admission threshold drops to zero, so the next counts above freq are
// admitted regardless of what remains in the window. tmax is recomputed.
func (s *Set) Derank(key int) {
	if !s.inDomain(key) {
		return
	}
	s.bits.put(key, 0)
	s.tmin = 0

	idx := s.find(key)
	if idx < 0 {
		return
	}

	switch s.cfg.Mode {
	case WinSum:
		// Close the gap so the window stays sorted.
		s.rank.shift(idx, idx+1, s.slot)
		s.stat.shift(idx, idx+1, s.slot)
		s.rank.put(s.last, 0)
		s.stat.put(s.last, 0)
		if s.last > 0 {
			s.tmin = s.stat.at(s.last - 1)
		}
		s.tmax = s.stat.at(0)
	default:
		s.rank.put(idx, 0)
		s.stat.put(idx, 0)
		s.tmax = s.peak()
	}
}

// Resize changes the rank window capacity to n, keeping the first
// min(n, Slots()) entries.
func (s *Set) Resize(n int) error {
	if n < 0 || n > MaxSlots {
		return slotRangeError(n, 0)
	}
	s.rank = s.rank.resized(n)
	s.stat = s.stat.resized(n)
	s.slot = n
	s.last = n - 1
	s.next = 0
	s.settle()
	return nil
}

// Clear zeroes every counter and resets the window thresholds. Window
// entries are kept.
func (s *Set) Clear() {
	s.bits.zero()
	s.tmin = s.freq
	s.tmax = 0
	s.next = 0
}

// ClearRank is Clear plus emptying the rank window in place.
func (s *Set) ClearRank() {
	s.Clear()
	s.rank.zero()
	s.stat.zero()
}

// ClearSlots is Clear plus replacing the rank window with an empty one of
// capacity n. n must be in [1, MaxSlots].
func (s *Set) ClearSlots(n int) error {
	if n < 1 || n > MaxSlots {
		return slotRangeError(n, 1)
	}
	s.Clear()
	s.rank = newVector(s.keyWidth, n)
	s.stat = newVector(s.valWidth, n)
	s.slot = n
	s.last = n - 1
	return nil
}

// settle recomputes tmin and tmax from the window contents.
func (s *Set) settle() {
	if s.slot == 0 {
		s.tmin, s.tmax = s.freq, 0
		return
	}
	switch s.cfg.Mode {
	case WinSum:
		s.tmin = s.stat.at(s.last)
		s.tmax = s.stat.at(0)
	default:
		s.tmin = s.lowest()
		s.tmax = s.peak()
	}
}
