package quickset

// winsum keeps the window sorted in descending order by count.
func (s *Set) winsum(key int, n uint32) {
	if s.admits(n, false) {
		s.winsumUpdate(key, n)
	}
}

// winsumFIFO admits counts equal to the window minimum. A newcomer tied
// with the last slot displaces it.
func (s *Set) winsumFIFO(key int, n uint32) {
	if s.admits(n, true) {
		s.winsumUpdate(key, n)
	}
}

func (s *Set) winsumUpdate(key int, n uint32) {
	idx, ins := -1, -1
	for i := range s.slot {
		v := s.stat.at(i)
		if idx < 0 && v != 0 && int(s.rank.at(i)) == key {
			idx = i
		}
		if ins < 0 && v <= n {
			ins = i
		}
		if idx >= 0 && ins >= 0 {
			break
		}
	}
	if ins < 0 {
		return
	}

	if idx >= 0 {
		if ins > idx {
			return
		}
		// Move key up past the entries it now outranks.
		s.rank.shift(ins+1, ins, idx)
		s.stat.shift(ins+1, ins, idx)
	} else {
		// Open a hole at ins; the last entry falls off.
		s.rank.shift(ins+1, ins, s.last)
		s.stat.shift(ins+1, ins, s.last)
	}
	s.rank.put(ins, uint32(key))
	s.stat.put(ins, n)

	s.tmin = s.stat.at(s.last)
	s.tmax = s.stat.at(0)
}
