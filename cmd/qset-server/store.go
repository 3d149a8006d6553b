// store.go implements the sharded registry of named sets.
//
// A quickset.Set does no locking of its own. The Store supplies it: names are
// spread over 256 shards, each guarded by an RWMutex, and every access to a
// set happens inside a callback that runs under the owning shard's lock.
// Reads (View) share the lock; writes (Mutate) hold it exclusively. Two
// clients hammering different sets usually land on different shards and do
// not contend.
//
// Shard selection hashes the name with xxhash.

package main

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"qset.lopezb.com/internal/quickset"
)

const shardCount = 256

// Shard is one lock domain of the Store.
type Shard struct {
	mu   sync.RWMutex
	sets map[string]*quickset.Set
}

// Store maps names to sets.
type Store struct {
	shards [shardCount]*Shard
}

// NewStore creates an empty Store.
func NewStore() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i] = &Shard{sets: make(map[string]*quickset.Set)}
	}
	return s
}

func (s *Store) getShard(key string) *Shard {
	return s.shards[xxhash.Sum64String(key)%shardCount]
}

// Create adds a new set under key. It returns false, and does not call
// build, if key already exists.
func (s *Store) Create(key string, build func() (*quickset.Set, error)) (bool, error) {
	shard := s.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if _, ok := shard.sets[key]; ok {
		return false, nil
	}
	set, err := build()
	if err != nil {
		return false, err
	}
	shard.sets[key] = set
	return true, nil
}

// View runs fn with the set stored under key, or nil, while holding the
// shard's read lock. fn must not modify the set.
func (s *Store) View(key string, fn func(set *quickset.Set)) {
	shard := s.getShard(key)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	fn(shard.sets[key])
}

// Mutate runs fn with the set stored under key while holding the shard's
// write lock. A missing key is first created with build; if build fails, fn
// is not called and the error is returned.
func (s *Store) Mutate(key string, build func() (*quickset.Set, error), fn func(set *quickset.Set)) error {
	shard := s.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	set, ok := shard.sets[key]
	if !ok {
		var err error
		if set, err = build(); err != nil {
			return err
		}
		shard.sets[key] = set
	}
	fn(set)
	return nil
}

// Update runs fn with the set stored under key while holding the shard's
// write lock. It reports false, without calling fn, if key is missing.
func (s *Store) Update(key string, fn func(set *quickset.Set)) bool {
	shard := s.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	set, ok := shard.sets[key]
	if !ok {
		return false
	}
	fn(set)
	return true
}

// Delete removes key and reports whether it existed.
func (s *Store) Delete(key string) bool {
	shard := s.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if _, ok := shard.sets[key]; !ok {
		return false
	}
	delete(shard.sets, key)
	return true
}

// Exists reports whether key holds a set.
func (s *Store) Exists(key string) bool {
	shard := s.getShard(key)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	_, ok := shard.sets[key]
	return ok
}

// Keys returns the names of all sets in no particular order.
func (s *Store) Keys() []string {
	keys := make([]string, 0)
	for _, shard := range s.shards {
		shard.mu.RLock()
		for k := range shard.sets {
			keys = append(keys, k)
		}
		shard.mu.RUnlock()
	}
	return keys
}

// Len returns the number of sets across all shards.
func (s *Store) Len() int {
	n := 0
	for _, shard := range s.shards {
		shard.mu.RLock()
		n += len(shard.sets)
		shard.mu.RUnlock()
	}
	return n
}
