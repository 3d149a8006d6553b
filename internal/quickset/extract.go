package quickset

// scanLimit maps a caller limit to the number of counters to scan. Zero,
// negative or oversized limits scan the whole store.
func (s *Set) scanLimit(limit int) int {
	if limit <= 0 || limit > s.bits.len() {
		return s.bits.len()
	}
	return limit
}

// Keys returns, in ascending order, the keys below limit with a nonzero
// count.
func (s *Set) Keys(limit int) []int {
	n := s.scanLimit(limit)
	out := make([]int, 0)
	for i := range n {
		if s.bits.at(i) != 0 {
			out = append(out, i)
		}
	}
	return out
}

// Values returns the nonzero counts below limit in ascending key order.
func (s *Set) Values(limit int) []uint32 {
	n := s.scanLimit(limit)
	out := make([]uint32, 0)
	for i := range n {
		if v := s.bits.at(i); v != 0 {
			out = append(out, v)
		}
	}
	return out
}

// Entries returns the keys below limit whose count exceeds freq, paired with
// their counts.
func (s *Set) Entries(limit int) []Entry {
	n := s.scanLimit(limit)
	out := make([]Entry, 0)
	for i := range n {
		if v := s.bits.at(i); v > s.freq {
			out = append(out, Entry{Key: i, Count: v})
		}
	}
	return out
}

// Total returns the sum of the counters below limit, which is the length
// of Sorted(limit).
func (s *Set) Total(limit int) uint64 {
	var total uint64
	for i := range s.scanLimit(limit) {
		total += uint64(s.bits.at(i))
	}
	return total
}

// Sorted expands the counters below limit into an ascending sequence where
// each key appears as many times as it was counted. Check Total first when
// the counts are untrusted.
func (s *Set) Sorted(limit int) []int {
	n := s.scanLimit(limit)
	out := make([]int, 0, s.Total(limit))
	for i := range n {
		for range s.bits.at(i) {
			out = append(out, i)
		}
	}
	return out
}

func (s *Set) topLimit(k int) int {
	if k <= 0 || k > s.slot {
		return s.slot
	}
	return k
}

// Top returns the non-empty entries among the first k window slots, in slot
// order. For WinSum that is descending by count; for MinSum the order is
// unspecified. k <= 0 means the whole window.
func (s *Set) Top(k int) []Entry {
	k = s.topLimit(k)
	out := make([]Entry, 0, k)
	for i := range k {
		if v := s.stat.at(i); v != 0 {
			out = append(out, Entry{Key: int(s.rank.at(i)), Count: v})
		}
	}
	return out
}

// TopK returns a copy of the first k window keys, empty slots included.
func (s *Set) TopK(k int) []int {
	k = s.topLimit(k)
	out := make([]int, k)
	for i := range out {
		out[i] = int(s.rank.at(i))
	}
	return out
}

// TopV returns a copy of the first k window counts, empty slots included.
func (s *Set) TopV(k int) []uint32 {
	k = s.topLimit(k)
	out := make([]uint32, k)
	for i := range out {
		out[i] = s.stat.at(i)
	}
	return out
}
