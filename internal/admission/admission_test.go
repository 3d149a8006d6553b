package admission

import (
	"errors"
	"testing"

	"qset.lopezb.com/internal/quickset"
)

func newCache(t *testing.T, cfg Config) *Cache[string] {
	t.Helper()
	c, err := New[string](cfg)
	if err != nil {
		t.Fatalf("New(%+v): %v", cfg, err)
	}
	return c
}

func TestNewErrors(t *testing.T) {
	if _, err := New[int](Config{}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("zero size: got %v, want ErrInvalidSize", err)
	}
	if _, err := New[int](Config{Size: 4, Span: quickset.MaxSpan + 1}); !errors.Is(err, quickset.ErrSpanRange) {
		t.Errorf("huge span: got %v, want ErrSpanRange", err)
	}
	if _, err := New[int](Config{Size: 4, Hot: quickset.MaxSlots + 1}); !errors.Is(err, quickset.ErrSlotRange) {
		t.Errorf("too many hot slots: got %v, want ErrSlotRange", err)
	}
}

// TestAdmission verifies a newcomer must be seen at least as often as the
// LRU victim.
func TestAdmission(t *testing.T) {
	c := newCache(t, Config{Size: 2, Span: 100})

	if !c.Add(1, "a") || !c.Add(2, "b") {
		t.Fatal("entries rejected while the cache had room")
	}
	for range 3 {
		if _, ok := c.Get(2); !ok {
			t.Fatal("Get(2): miss")
		}
	}

	// Victim is 1, seen once; a tie admits.
	if !c.Add(3, "c") {
		t.Error("Add(3): rejected on a tie with the victim")
	}
	if _, ok := c.Peek(1); ok {
		t.Error("key 1 should have been evicted")
	}

	// Victim is now 2, seen four times.
	for i := range 3 {
		if c.Add(4, "d") {
			t.Fatalf("Add(4) attempt %d: admitted over a hotter victim", i+1)
		}
	}
	if !c.Add(4, "d") {
		t.Error("Add(4): rejected once its count matched the victim")
	}
	if _, ok := c.Peek(2); ok {
		t.Error("key 2 should have been evicted")
	}

	st := c.Stats()
	if st.Admitted != 2 || st.Rejected != 3 || st.Evicted != 2 {
		t.Errorf("Stats: got %+v, want 2 admitted, 3 rejected, 2 evicted", st)
	}
	if st.Hits != 3 || st.Misses != 0 {
		t.Errorf("Stats: got %d hits %d misses, want 3/0", st.Hits, st.Misses)
	}
	if c.Len() != 2 {
		t.Errorf("Len: got %d, want 2", c.Len())
	}
}

func TestUpdateResident(t *testing.T) {
	c := newCache(t, Config{Size: 1, Span: 10})
	c.Add(1, "a")
	if !c.Add(1, "b") {
		t.Fatal("update of a resident key rejected")
	}
	if v, _ := c.Get(1); v != "b" {
		t.Errorf("Get(1): got %q, want %q", v, "b")
	}
}

func TestOutOfDomain(t *testing.T) {
	c := newCache(t, Config{Size: 4, Span: 100})
	for _, k := range []int{-1, 101} {
		if c.Add(k, "x") {
			t.Errorf("Add(%d): admitted a key outside the domain", k)
		}
	}
	if c.Len() != 0 {
		t.Errorf("Len: got %d, want 0", c.Len())
	}
}

func TestHot(t *testing.T) {
	c := newCache(t, Config{Size: 4, Span: 100, Hot: 2})
	for _, k := range []int{5, 5, 5, 9, 9, 7} {
		c.Get(k)
	}

	hot := c.Hot(0)
	want := []quickset.Entry{{Key: 5, Count: 3}, {Key: 9, Count: 2}}
	if len(hot) != len(want) {
		t.Fatalf("Hot: got %v, want %v", hot, want)
	}
	for i := range want {
		if hot[i] != want[i] {
			t.Errorf("Hot[%d]: got %v, want %v", i, hot[i], want[i])
		}
	}
}

func TestAgingAfterResetAfter(t *testing.T) {
	c := newCache(t, Config{Size: 4, Span: 100, ResetAfter: 4})

	for range 4 {
		c.Get(1)
	}
	if got := c.Estimate(1); got != 0 {
		t.Errorf("Estimate after aging: got %d, want 0", got)
	}
	if got := c.Hot(0); len(got) != 0 {
		t.Errorf("Hot after aging: got %v, want empty", got)
	}

	c.Get(1)
	if got := c.Estimate(1); got != 1 {
		t.Errorf("Estimate: got %d, want 1", got)
	}
	if got := c.Stats().Agings; got != 1 {
		t.Errorf("Agings: got %d, want 1", got)
	}
}

func TestAgingAtCeiling(t *testing.T) {
	c := newCache(t, Config{Size: 4, Span: 100, High: 3})

	for range 3 {
		c.Get(5)
	}
	if got := c.Estimate(5); got != 3 {
		t.Fatalf("Estimate at ceiling: got %d, want 3", got)
	}

	c.Get(5)
	if got := c.Estimate(5); got != 1 {
		t.Errorf("Estimate after ceiling aging: got %d, want 1", got)
	}
}

func TestPurge(t *testing.T) {
	c := newCache(t, Config{Size: 4, Span: 100})
	c.Add(1, "a")
	c.Add(2, "b")
	c.Purge()

	if c.Len() != 0 {
		t.Errorf("Len after Purge: got %d, want 0", c.Len())
	}
	if got := c.Estimate(1); got != 0 {
		t.Errorf("Estimate after Purge: got %d, want 0", got)
	}
	if c.Remove(3) {
		t.Error("Remove of a missing key reported true")
	}
}
