package quickset_test

import (
	"fmt"

	"qset.lopezb.com/internal/quickset"
)

func Example() {
	s, err := quickset.New(quickset.Config{
		Mode: quickset.WinSum,
		Span: 16,
		High: 8,
		Slot: 2,
		Freq: 1,
	})
	if err != nil {
		panic(err)
	}

	for range 5 {
		s.Incr(3)
	}
	for range 3 {
		s.Incr(7)
	}

	fmt.Println(s.Top(2))
	fmt.Println(s.Keys(0), s.Values(0))
	// Output:
	// [{3 5} {7 3}]
	// [3 7] [5 3]
}
