package okapi

import (
	"math/rand"
	"sort"
	"testing"
)

func TestTopK_KeepsBest(t *testing.T) {
	top := NewTopK(3)
	for id, score := range []float64{0.5, 2.0, 0.1, 3.0, 1.0} {
		top.Offer(uint32(id), score)
	}

	got := resultIDs(top.Results())
	want := []uint32{3, 1, 4}
	if !idsEqual(got, want) {
		t.Errorf("Results() = %v, want %v", got, want)
	}
}

func TestTopK_Zero(t *testing.T) {
	for _, k := range []int{0, -1} {
		top := NewTopK(k)
		top.Offer(1, 10)
		if top.Len() != 0 {
			t.Errorf("NewTopK(%d) retained %d results", k, top.Len())
		}
	}
}

func TestTopK_DropsNonPositive(t *testing.T) {
	top := NewTopK(5)
	top.Offer(1, 0)
	top.Offer(2, -1)
	top.Offer(3, 0.25)

	if got := resultIDs(top.Results()); !idsEqual(got, []uint32{3}) {
		t.Errorf("Results() = %v, want [3]", got)
	}
}

func TestTopK_TieBreak(t *testing.T) {
	// Arrival order must not matter
	orders := [][]uint32{
		{5, 3, 8, 1},
		{1, 3, 5, 8},
		{8, 5, 3, 1},
	}
	for _, order := range orders {
		top := NewTopK(2)
		for _, id := range order {
			top.Offer(id, 1.0)
		}
		if got := resultIDs(top.Results()); !idsEqual(got, []uint32{1, 3}) {
			t.Errorf("order %v: Results() = %v, want [1 3]", order, got)
		}
	}
}

func TestTopK_MatchesFullSort(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		n := rng.Intn(200)
		k := rng.Intn(20)

		all := make([]Result, 0, n)
		top := NewTopK(k)
		for i := 0; i < n; i++ {
			// Coarse scores force plenty of ties
			score := float64(rng.Intn(10)) / 4
			id := uint32(rng.Intn(1 << 20))
			top.Offer(id, score)
			if score > 0 {
				all = append(all, Result{DocID: id, Score: score})
			}
		}

		sort.Slice(all, func(i, j int) bool { return better(all[i], all[j]) })
		if len(all) > k {
			all = all[:k]
		}

		got := top.Results()
		if len(got) != len(all) {
			t.Fatalf("trial %d: %d results, want %d", trial, len(got), len(all))
		}
		for i := range all {
			if got[i] != all[i] {
				t.Errorf("trial %d, rank %d: %+v, want %+v", trial, i, got[i], all[i])
			}
		}
	}
}
