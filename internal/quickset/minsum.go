package quickset

// minsum keeps the window unordered and replaces the first slot holding the
// minimum.
func (s *Set) minsum(key int, n uint32) {
	s.minsumUpdate(key, n, false)
}

// minsumFIFO admits counts equal to the minimum and rotates eviction among
// tied slots.
func (s *Set) minsumFIFO(key int, n uint32) {
	s.minsumUpdate(key, n, true)
}

func (s *Set) admits(n uint32, fifo bool) bool {
	if n <= s.freq {
		return false
	}
	if fifo {
		return n >= s.tmin
	}
	return n > s.tmin
}

func (s *Set) minsumUpdate(key int, n uint32, fifo bool) {
	if !s.admits(n, fifo) {
		return
	}

	if idx := s.find(key); idx >= 0 {
		old := s.stat.at(idx)
		s.stat.put(idx, n)
		if old == s.tmin {
			s.tmin = s.lowest()
		}
	} else {
		idx = s.evict(fifo)
		if idx < 0 {
			// tmin is stale after Derank or Clear.
			s.tmin = s.lowest()
			if !s.admits(n, fifo) {
				return
			}
			idx = s.evict(fifo)
		}
		s.rank.put(idx, uint32(key))
		s.stat.put(idx, n)
		s.tmin = s.lowest()
	}
	if n > s.tmax {
		s.tmax = n
	}
}

func (s *Set) evict(fifo bool) int {
	if fifo {
		return s.evictNext()
	}
	return s.evictFirst()
}

// evictFirst returns the first slot at or below tmin, or -1.
func (s *Set) evictFirst() int {
	for i := range s.slot {
		if s.stat.at(i) <= s.tmin {
			return i
		}
	}
	return -1
}

// evictNext is evictFirst starting from the slot after the previous
// eviction and wrapping around.
func (s *Set) evictNext() int {
	for j := range s.slot {
		i := (s.next + j) % s.slot
		if s.stat.at(i) <= s.tmin {
			s.next = (i + 1) % s.slot
			return i
		}
	}
	return -1
}

// find returns the window slot tracking key, or -1. Empty slots never
// match, so key 0 is not confused with a zeroed slot.
func (s *Set) find(key int) int {
	for i := range s.slot {
		if s.stat.at(i) != 0 && int(s.rank.at(i)) == key {
			return i
		}
	}
	return -1
}

// lowest returns the smallest count in the window. Empty slots count as
// zero.
func (s *Set) lowest() uint32 {
	if s.slot == 0 {
		return 0
	}
	low := s.stat.at(0)
	for i := 1; i < s.slot && low > 0; i++ {
		low = min(low, s.stat.at(i))
	}
	return low
}

// peak returns the largest count in the window.
func (s *Set) peak() uint32 {
	var high uint32
	for i := range s.slot {
		high = max(high, s.stat.at(i))
	}
	return high
}
