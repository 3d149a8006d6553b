// Package quickset implements an exact heavy-hitter tracker over a fixed
// integer key domain.
//
// A Set trades hashing for direct addressing: every key in [0, span] owns a
// dedicated counter, so there are no collisions and no estimation error, at
// the cost of memory proportional to the domain. On top of the counters a
// small rank window tracks the K most frequent keys seen so far.
//
// Buffers
// =======
//
// Two kinds of buffers are allocated once, at construction:
//
//	counters: span+1 cells, width picked for `high`
//	window:   slot key cells (width picked for `span`)
//	          slot value cells (width picked for `high`)
//
// Widths are the narrowest of uint8/uint16/uint32 covering the bound (see
// SelectWidth). Only Resize and ClearSlots reallocate, and only the window.
//
// Ranking Disciplines
// ===================
//
// MinSum keeps the window unordered. A key that clears the admission
// threshold overwrites the first slot holding the window minimum (tmin), and
// tmin is recomputed by scanning the window.
//
// WinSum keeps the window sorted in descending order. A key that clears the
// threshold is shifted into its sorted position; the entry pushed past the
// last slot is dropped. The minimum is always the last slot and the maximum
// the first.
//
// Both disciplines have a FIFO variant. FIFO admits values equal to tmin
// (not only greater), and MinSum additionally rotates its eviction scan so
// that ties at the minimum are replaced round-robin.
//
// Invalid Input
// =============
//
// Construction and resizing return errors. Every other operation silently
// ignores keys outside [clip, span] and values above `high`. Put is the
// exception: it skips all validation.
//
// A Set is not safe for concurrent use. Callers that share one must
// serialize access.
package quickset

import "fmt"

const (
	// MaxSpan is the largest supported key domain bound.
	MaxSpan = 1 << 28

	// MaxHigh is the largest supported count ceiling.
	MaxHigh = 1<<32 - 1

	// MaxSlots is the hard cap on the rank window capacity.
	MaxSlots = 64

	// RecommendedSlots bounds the window scans to a cache line or two.
	// Larger windows work but every update pays a linear scan.
	RecommendedSlots = 16

	DefaultSpan = 512
	DefaultHigh = 128
	DefaultFreq = 1
)

// Mode selects the ranking discipline.
type Mode string

const (
	MinSum Mode = "minsum"
	WinSum Mode = "winsum"
)

// Config holds construction parameters.
type Config struct {
	Mode Mode `yaml:"mode"`
	Clip int  `yaml:"clip"` // smallest valid key
	Span int  `yaml:"span"` // largest valid key
	Slot int  `yaml:"slot"` // rank window capacity
	High int  `yaml:"high"` // count ceiling
	Freq int  `yaml:"freq"` // counts must exceed this to be ranked
	FIFO bool `yaml:"fifo"`
}

// DefaultConfig returns mode=minsum, clip=0, span=512, slot=0, high=128,
// freq=1, fifo=false.
func DefaultConfig() Config {
	return Config{
		Mode: MinSum,
		Span: DefaultSpan,
		High: DefaultHigh,
		Freq: DefaultFreq,
	}
}

// Entry is a key and its count.
type Entry struct {
	Key   int
	Count uint32
}

// Set is a dense counter store with a fixed-capacity rank window.
type Set struct {
	cfg Config

	clip, span int
	high, freq uint32

	keyWidth, valWidth Width

	bits vector // one counter per key in [0, span]
	rank vector // window keys
	stat vector // window counts, index-aligned with rank

	slot, last int
	tmin, tmax uint32

	// next is where the FIFO MinSum eviction scan resumes.
	next int

	// sum is the ranking discipline bound at construction.
	sum func(key int, val uint32)
}

// Validate reports whether New would accept c. It allocates nothing.
func (c Config) Validate() error {
	_, err := c.normalize()
	return err
}

// normalize checks c and returns it with Mode, Slot, Clip and Freq
// clamped. Span and High are taken as given: Span 0 is the one-key domain
// [0, 0] and High 0 is rejected.
func (c Config) normalize() (Config, error) {
	if c.Mode == "" {
		c.Mode = MinSum
	}
	if c.Mode != MinSum && c.Mode != WinSum {
		return c, fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}
	if c.Span < 0 || c.Span > MaxSpan {
		return c, fmt.Errorf("%w: must be in [0, %d] but %d was requested",
			ErrSpanRange, MaxSpan, c.Span)
	}
	if c.High < 1 || int64(c.High) > MaxHigh {
		return c, fmt.Errorf("%w: must be in [1, %d] but %d was requested",
			ErrHighRange, int64(MaxHigh), c.High)
	}
	if c.Slot < 0 || c.Slot > MaxSlots {
		return c, slotRangeError(c.Slot, 0)
	}
	c.Slot = min(c.Slot, c.Span)
	c.Clip = max(c.Clip, 0)
	c.Freq = max(c.Freq, 0)
	if int64(c.Freq) > MaxHigh {
		c.Freq = MaxHigh
	}
	return c, nil
}

// New creates a Set. Every field is used as given apart from an empty Mode,
// which selects MinSum; start from DefaultConfig for the documented
// defaults.
func New(cfg Config) (*Set, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	keyWidth, err := SelectWidth(uint64(cfg.Span))
	if err != nil {
		return nil, err
	}
	valWidth, err := SelectWidth(uint64(cfg.High))
	if err != nil {
		return nil, err
	}

	s := &Set{
		cfg:      cfg,
		clip:     cfg.Clip,
		span:     cfg.Span,
		high:     uint32(cfg.High),
		freq:     uint32(cfg.Freq),
		keyWidth: keyWidth,
		valWidth: valWidth,
		bits:     newVector(valWidth, cfg.Span+1),
		rank:     newVector(keyWidth, cfg.Slot),
		stat:     newVector(valWidth, cfg.Slot),
		slot:     cfg.Slot,
		last:     cfg.Slot - 1,
		tmin:     uint32(cfg.Freq),
	}

	switch {
	case cfg.Mode == WinSum && cfg.FIFO:
		s.sum = s.winsumFIFO
	case cfg.Mode == WinSum:
		s.sum = s.winsum
	case cfg.FIFO:
		s.sum = s.minsumFIFO
	default:
		s.sum = s.minsum
	}

	return s, nil
}

// Config returns the normalized configuration the Set was built with. Slot
// reflects the current window capacity.
func (s *Set) Config() Config {
	cfg := s.cfg
	cfg.Slot = s.slot
	return cfg
}

// Mode returns the ranking discipline.
func (s *Set) Mode() Mode { return s.cfg.Mode }

// FIFO reports whether the FIFO tie-break variant is active.
func (s *Set) FIFO() bool { return s.cfg.FIFO }

// Slots returns the rank window capacity.
func (s *Set) Slots() int { return s.slot }

// Min returns the current eviction threshold of the window (tmin).
func (s *Set) Min() uint32 { return s.tmin }

// Max returns the largest count recorded in the window (tmax).
func (s *Set) Max() uint32 { return s.tmax }

// Widths returns the cell widths of the key and count buffers.
func (s *Set) Widths() (key, count Width) { return s.keyWidth, s.valWidth }

// Footprint returns the number of bytes held by the counter and window
// buffers.
func (s *Set) Footprint() int {
	return s.bits.len()*s.valWidth.Bytes() +
		s.slot*(s.keyWidth.Bytes()+s.valWidth.Bytes())
}

func (s *Set) inDomain(key int) bool {
	return key >= s.clip && key <= s.span
}
