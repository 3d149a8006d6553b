package quickset

import "testing"

func benchmarkSum(b *testing.B, cfg Config) {
	s, err := New(cfg)
	if err != nil {
		b.Fatal(err)
	}
	keys := skewed(1<<14, cfg.Span)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := keys[i&(len(keys)-1)]
		if s.Get(k) == uint32(cfg.High) {
			s.Delete(k)
		}
		s.Incr(k)
	}
}

func BenchmarkSumMinSum(b *testing.B) {
	benchmarkSum(b, Config{Mode: MinSum, Span: 4095, High: 1 << 16, Slot: RecommendedSlots, Freq: 1})
}

func BenchmarkSumMinSumFIFO(b *testing.B) {
	benchmarkSum(b, Config{Mode: MinSum, FIFO: true, Span: 4095, High: 1 << 16, Slot: RecommendedSlots, Freq: 1})
}

func BenchmarkSumWinSum(b *testing.B) {
	benchmarkSum(b, Config{Mode: WinSum, Span: 4095, High: 1 << 16, Slot: RecommendedSlots, Freq: 1})
}

func BenchmarkSumWinSumFIFO(b *testing.B) {
	benchmarkSum(b, Config{Mode: WinSum, FIFO: true, Span: 4095, High: 1 << 16, Slot: RecommendedSlots, Freq: 1})
}

func BenchmarkSumMaxSlots(b *testing.B) {
	benchmarkSum(b, Config{Mode: WinSum, Span: 4095, High: 1 << 16, Slot: MaxSlots, Freq: 1})
}

func BenchmarkEntries(b *testing.B) {
	s, err := New(Config{Span: 1 << 16, High: 255})
	if err != nil {
		b.Fatal(err)
	}
	s.Batch(skewed(1<<14, 1<<16), nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Entries(0)
	}
}
