package okapi

import (
	"context"
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func resultIDs(results []Result) []uint32 {
	ids := make([]uint32, len(results))
	for i, r := range results {
		ids[i] = r.DocID
	}
	return ids
}

func idsEqual(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sampleIndex is the three-document corpus used throughout.
func sampleIndex(t testing.TB) *Index {
	t.Helper()
	idx := newTestIndex(t)
	mustIndex(t, idx, "Hello world", "I like like cats", "I like dogs")
	return idx
}

// ═══════════════════════════════════════════════════════════════════════════════
// RANKING SCENARIOS
// ═══════════════════════════════════════════════════════════════════════════════

func TestSearch_TermFrequencyOrdersResults(t *testing.T) {
	idx := sampleIndex(t)

	results := idx.Search("like", 3)

	if got, want := resultIDs(results), []uint32{1, 2}; !idsEqual(got, want) {
		t.Fatalf("Search(like) = %v, want %v", got, want)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("doc 1 score %v should exceed doc 2 score %v", results[0].Score, results[1].Score)
	}
}

func TestSearch_ExactScores(t *testing.T) {
	idx := sampleIndex(t)

	// avgDocLen = 9/3, df(like) = 2, N = 3
	idf := math.Log((3-2+0.5)/(2+0.5) + 1)
	want1 := 2 / (2 + 1.5*(1-0.75+0.75*4.0/3.0)) * idf
	want2 := 1 / (1 + 1.5*(1-0.75+0.75*3.0/3.0)) * idf

	results := idx.Search("like", 3)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if !almostEqual(results[0].Score, want1) {
		t.Errorf("doc 1 score = %v, want %v", results[0].Score, want1)
	}
	if !almostEqual(results[1].Score, want2) {
		t.Errorf("doc 2 score = %v, want %v", results[1].Score, want2)
	}
}

func TestSearch_DuplicateQueryTermsCountOnce(t *testing.T) {
	idx := sampleIndex(t)

	once := idx.Search("like", 3)
	twice := idx.Search("like like like", 3)

	if len(once) != len(twice) {
		t.Fatalf("len mismatch: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].DocID != twice[i].DocID || !almostEqual(once[i].Score, twice[i].Score) {
			t.Errorf("result %d: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestSearch_MultiTermQuery(t *testing.T) {
	idx := sampleIndex(t)

	results := idx.Search("like cats", 3)

	// doc 1 matches both terms
	if len(results) != 2 || results[0].DocID != 1 {
		t.Fatalf("Search(like cats) = %v, want doc 1 first of 2", results)
	}
}

func TestSearch_EdgeCases(t *testing.T) {
	idx := sampleIndex(t)

	tests := []struct {
		name  string
		query string
		topK  int
	}{
		{"zero k", "like", 0},
		{"negative k", "like", -3},
		{"unknown term", "xyzzy", 5},
		{"empty query", "", 5},
		{"whitespace query", "   \t ", 5},
		{"case sensitive", "LIKE", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := idx.Search(tt.query, tt.topK)
			if results == nil {
				t.Fatal("Search() returned nil, want empty slice")
			}
			if len(results) != 0 {
				t.Errorf("Search(%q, %d) = %v, want []", tt.query, tt.topK, results)
			}
		})
	}
}

func TestSearch_EmptyCorpus(t *testing.T) {
	idx := newTestIndex(t)

	if results := idx.Search("anything", 10); len(results) != 0 {
		t.Errorf("Search() on empty corpus = %v, want []", results)
	}
}

func TestSearch_OnlyEmptyDocuments(t *testing.T) {
	idx := newTestIndex(t)
	mustIndex(t, idx, "", "")

	if results := idx.Search("anything", 10); len(results) != 0 {
		t.Errorf("Search() = %v, want []", results)
	}
}

func TestSearch_TopKLimit(t *testing.T) {
	idx := newTestIndex(t)
	mustIndex(t, idx, "a", "a a", "a a a", "a b", "b")

	results := idx.Search("a", 2)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// "a a a" saturates highest despite being longest
	if results[0].DocID != 2 {
		t.Errorf("best = doc %d, want doc 2", results[0].DocID)
	}
}

func TestSearch_TiesBreakByDocID(t *testing.T) {
	idx := newTestIndex(t)
	for _, id := range []uint32{9, 4, 7, 1} {
		if err := idx.IndexDocument(id, "same text"); err != nil {
			t.Fatal(err)
		}
	}
	if err := idx.IndexDocument(100, "unrelated"); err != nil {
		t.Fatal(err)
	}

	if got, want := resultIDs(idx.Search("same", 10)), []uint32{1, 4, 7, 9}; !idsEqual(got, want) {
		t.Errorf("Search() order = %v, want %v", got, want)
	}
	if got, want := resultIDs(idx.Search("same", 2)), []uint32{1, 4}; !idsEqual(got, want) {
		t.Errorf("Search() top 2 = %v, want %v", got, want)
	}
}

func TestSearch_RareTermOutweighsCommon(t *testing.T) {
	idx := newTestIndex(t)
	mustIndex(t, idx,
		"common words here",
		"common words there",
		"common rare words",
		"common words again",
	)

	results := idx.Search("common rare", 4)
	if len(results) != 4 || results[0].DocID != 2 {
		t.Errorf("Search() = %v, want doc 2 first", results)
	}
}

func TestSearch_KZeroIgnoresTermFrequency(t *testing.T) {
	cfg := DefaultConfig()
	cfg.K = 0
	idx, err := NewIndex(cfg)
	if err != nil {
		t.Fatal(err)
	}
	mustIndex(t, idx, "x y", "x x x y")

	results := idx.Search("x", 2)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if !almostEqual(results[0].Score, results[1].Score) {
		t.Errorf("with k=0 scores should tie: %v", results)
	}
	if results[0].DocID != 0 {
		t.Errorf("tie should favour doc 0, got %d", results[0].DocID)
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// CONTEXT AND BATCH TESTS
// ═══════════════════════════════════════════════════════════════════════════════

func TestSearchContext_Cancelled(t *testing.T) {
	idx := sampleIndex(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := idx.SearchContext(ctx, "like", 3)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("SearchContext() error = %v, want context.Canceled", err)
	}
}

func TestSearchBatch(t *testing.T) {
	idx := sampleIndex(t)

	queries := []string{"like", "Hello", "xyzzy", "dogs"}
	got, err := idx.SearchBatch(context.Background(), queries, 3)
	if err != nil {
		t.Fatalf("SearchBatch() error = %v", err)
	}
	if len(got) != len(queries) {
		t.Fatalf("got %d result lists, want %d", len(got), len(queries))
	}

	for i, q := range queries {
		want := idx.Search(q, 3)
		if !idsEqual(resultIDs(got[i]), resultIDs(want)) {
			t.Errorf("query %q: batch %v, single %v", q, got[i], want)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// SCORING UNIT TESTS
// ═══════════════════════════════════════════════════════════════════════════════

func TestIDF(t *testing.T) {
	tests := []struct {
		df, n int
		want  float64
	}{
		{0, 10, 0},
		{1, 1, math.Log(0.5/1.5 + 1)},
		{2, 3, math.Log(1.5/2.5 + 1)},
		{10, 10, math.Log(0.5/10.5 + 1)},
	}
	for _, tt := range tests {
		if got := IDF(tt.df, tt.n); !almostEqual(got, tt.want) {
			t.Errorf("IDF(%d, %d) = %v, want %v", tt.df, tt.n, got, tt.want)
		}
		if got := IDF(tt.df, tt.n); got < 0 {
			t.Errorf("IDF(%d, %d) = %v is negative", tt.df, tt.n, got)
		}
	}
}

func TestParams_LengthNorm(t *testing.T) {
	p := DefaultParams()

	if got := p.LengthNorm(3, 3); !almostEqual(got, 1.5) {
		t.Errorf("LengthNorm(avg) = %v, want 1.5", got)
	}
	if got := p.LengthNorm(5, 0); !almostEqual(got, 1.5*0.25) {
		t.Errorf("LengthNorm(avg 0) = %v, want %v", got, 1.5*0.25)
	}

	noLength := Params{K: 2, B: 0}
	if got := noLength.LengthNorm(100, 1); !almostEqual(got, 2) {
		t.Errorf("b=0 LengthNorm = %v, want 2", got)
	}
}

func TestDistinctTerms(t *testing.T) {
	got := distinctTerms([]string{"b", "a", "b", "c", "a"})
	want := []string{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("distinctTerms() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("distinctTerms()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// BENCHMARKS
// ═══════════════════════════════════════════════════════════════════════════════

func BenchmarkSearch(b *testing.B) {
	idx := newTestIndex(b)
	words := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta"}
	for i := 0; i < 5000; i++ {
		text := words[i%len(words)] + " " + words[(i*3)%len(words)] + " " + words[(i*7)%len(words)]
		_ = idx.IndexDocument(uint32(i), text)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.Search("alpha gamma", 10)
	}
}
