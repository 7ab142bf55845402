package okapi

import (
	"context"
	"log/slog"

	"github.com/RoaringBitmap/roaring"
	"golang.org/x/sync/errgroup"
)

// ═══════════════════════════════════════════════════════════════════════════════
// RANKED SEARCH
// ═══════════════════════════════════════════════════════════════════════════════
// A query runs in four steps:
//
//  1. Analyze the query text with the same analyzer used for documents
//  2. Candidates = union of the posting sets of the query terms
//  3. Score every candidate with BM25
//  4. Keep the best k in a bounded heap
//
// EXAMPLE:
// --------
// Query: "like cats"
//
//	"like" → {1, 2}
//	"cats" → {1}
//	Candidates: {1, 2}
//	Scores:     doc 1 = 0.24 + 0.34, doc 2 = 0.19
//	Top 1:      [doc 1]
//
// Documents that share no term with the query are never scored, so an empty
// corpus or a query of unknown terms yields no candidates and no division by
// a zero average length can happen.
// ═══════════════════════════════════════════════════════════════════════════════

// cancelCheckInterval is how many candidates are scored between context checks.
const cancelCheckInterval = 1024

// Search returns up to topK documents ranked by BM25, best first. Equal scores
// are ordered by ascending DocID. Only documents with a positive score are
// returned.
func (idx *Index) Search(query string, topK int) []Result {
	// A background context is never cancelled, so the error is always nil.
	results, _ := idx.SearchContext(context.Background(), query, topK)
	return results
}

// SearchContext is Search with cooperative cancellation: ctx is checked
// periodically while scoring, and its error is returned if it is done.
func (idx *Index) SearchContext(ctx context.Context, query string, topK int) ([]Result, error) {
	terms := distinctTerms(idx.analyzer.Analyze(query))
	if len(terms) == 0 || topK <= 0 {
		return []Result{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	candidates := idx.postings.Candidates(terms)
	results, err := idx.rankLocked(ctx, candidates, terms, topK)
	if err != nil {
		return nil, err
	}

	idx.logger.Debug("search",
		slog.String("query", query),
		slog.Int("terms", len(terms)),
		slog.Uint64("candidates", candidates.GetCardinality()),
		slog.Int("results", len(results)))
	return results, nil
}

// SearchBatch runs independent queries concurrently. The i-th result list
// belongs to the i-th query. The first error cancels the remaining queries.
func (idx *Index) SearchBatch(ctx context.Context, queries []string, topK int) ([][]Result, error) {
	out := make([][]Result, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	for i, query := range queries {
		i, query := i, query
		g.Go(func() error {
			results, err := idx.SearchContext(ctx, query, topK)
			if err != nil {
				return err
			}
			out[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// rankLocked scores candidates against distinct terms and keeps the best
// topK. The caller holds at least the read lock.
func (idx *Index) rankLocked(ctx context.Context, candidates *roaring.Bitmap, terms []string, topK int) ([]Result, error) {
	if candidates.IsEmpty() {
		return []Result{}, nil
	}

	s := newScorer(idx.params, idx.postings, idx.docs, terms)
	top := NewTopK(topK)

	n := 0
	iter := candidates.Iterator()
	for iter.HasNext() {
		docID := iter.Next()

		n++
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		ds, ok := idx.docs.Get(docID)
		if !ok {
			continue
		}
		top.Offer(docID, s.score(ds, terms))
	}
	return top.Results(), nil
}
