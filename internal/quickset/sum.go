package quickset

// Sum adds val to the counter for key and offers the new count to the rank
// window. Keys outside the domain are ignored. If the new count would exceed
// the ceiling the whole update is dropped and the counter keeps its previous
// value.
func (s *Set) Sum(key int, val uint32) {
	if !s.inDomain(key) {
		return
	}
	n := uint64(s.bits.at(key)) + uint64(val)
	if n > uint64(s.high) {
		return
	}
	s.bits.put(key, uint32(n))
	if s.slot == 0 {
		return
	}
	s.sum(key, uint32(n))
}

// Incr is Sum(key, 1).
func (s *Set) Incr(key int) {
	s.Sum(key, 1)
}

// Batch calls Sum for every key. Weights are applied by position and cycle
// when shorter than keys; with no weights every key counts once.
func (s *Set) Batch(keys []int, weights []uint32) {
	if len(weights) == 0 {
		for _, k := range keys {
			s.Sum(k, 1)
		}
		return
	}
	for i, k := range keys {
		s.Sum(k, weights[i%len(weights)])
	}
}

// Unique marks every key as present with a count of one. Repeated keys are
// recorded once.
func (s *Set) Unique(keys []int) {
	for _, k := range keys {
		s.Add(k, 1)
	}
}
