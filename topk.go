package okapi

import (
	"container/heap"
	"sort"
)

// Result is one ranked document.
type Result struct {
	DocID uint32  // Document identifier
	Score float64 // BM25 score, always > 0
}

// ═══════════════════════════════════════════════════════════════════════════════
// TOP-K SELECTION
// ═══════════════════════════════════════════════════════════════════════════════
// A bounded min-heap keeps the k best results seen so far. The root is the
// WORST retained result, so deciding whether a new candidate gets in costs a
// single comparison:
//
//	heap size < k             → push
//	candidate better than root → replace root, fix heap
//	otherwise                  → drop
//
// "Better" is a total order, so the outcome does not depend on the order in
// which candidates arrive:
//
//	higher score wins; on equal scores the smaller DocID wins
//
// Cost: O(C log k) for C candidates, O(k) memory.
// ═══════════════════════════════════════════════════════════════════════════════

// TopK collects the k best results.
type TopK struct {
	k int
	h resultHeap
}

// NewTopK returns a selector for at most k results. k <= 0 keeps nothing.
func NewTopK(k int) *TopK {
	if k < 0 {
		k = 0
	}
	capacity := k
	if capacity > 1024 {
		capacity = 1024
	}
	return &TopK{k: k, h: make(resultHeap, 0, capacity)}
}

// Offer considers a candidate. Scores <= 0 are never retained.
func (t *TopK) Offer(docID uint32, score float64) {
	if t.k == 0 || !(score > 0) {
		return
	}
	r := Result{DocID: docID, Score: score}
	if t.h.Len() < t.k {
		heap.Push(&t.h, r)
		return
	}
	if better(r, t.h[0]) {
		t.h[0] = r
		heap.Fix(&t.h, 0)
	}
}

// Len returns the number of retained results.
func (t *TopK) Len() int { return t.h.Len() }

// Results returns the retained results, best first. The selector may be
// reused afterwards; it keeps its contents.
func (t *TopK) Results() []Result {
	out := make([]Result, len(t.h))
	copy(out, t.h)
	sort.Slice(out, func(i, j int) bool {
		return better(out[i], out[j])
	})
	return out
}

// better reports whether a ranks ahead of b.
func better(a, b Result) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.DocID < b.DocID
}

// resultHeap is a min-heap: the root is the result that ranks last.
type resultHeap []Result

func (h resultHeap) Len() int           { return len(h) }
func (h resultHeap) Less(i, j int) bool { return better(h[j], h[i]) }
func (h resultHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x any)        { *h = append(*h, x.(Result)) }
func (h *resultHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
