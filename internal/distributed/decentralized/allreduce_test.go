package decentralized

import (
	"sync"
	"testing"
)

func TestAllReduceMin(t *testing.T) {
	ar := NewAllReduce(3, minCombine)
	values := []float64{5, 1, 3}
	results := make([]float64, 3)

	var wg sync.WaitGroup
	for i, v := range values {
		wg.Add(1)
		go func(i int, v float64) {
			defer wg.Done()
			results[i] = ar.Reduce(v)
		}(i, v)
	}
	wg.Wait()

	for i, r := range results {
		if r != 1 {
			t.Errorf("participant %d got %v, want 1", i, r)
		}
	}
}

func TestAllReduceMultipleRounds(t *testing.T) {
	ar := NewAllReduce(2, maxCombine)
	for round := 0; round < 3; round++ {
		var wg sync.WaitGroup
		results := make([]float64, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			results[0] = ar.Reduce(float64(round))
		}()
		go func() {
			defer wg.Done()
			results[1] = ar.Reduce(float64(round + 10))
		}()
		wg.Wait()
		want := float64(round + 10)
		if results[0] != want || results[1] != want {
			t.Errorf("round %d: got %v, %v, want %v", round, results[0], results[1], want)
		}
	}
}
