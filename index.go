// Package okapi implements an in-memory full-text ranking engine.
//
// ═══════════════════════════════════════════════════════════════════════════════
// WHAT IS IN THE INDEX?
// ═══════════════════════════════════════════════════════════════════════════════
// Given these documents:
//
//	Doc 0: "Hello world"
//	Doc 1: "I like like cats"
//	Doc 2: "I like dogs"
//
// the index keeps two structures and one running total:
//
//	PostingStore (term → documents)      DocumentStatsStore (document → stats)
//	  "Hello" → {0}                        0 → len 2, {Hello:1, world:1}
//	  "world" → {0}                        1 → len 4, {I:1, like:2, cats:1}
//	  "I"     → {1, 2}                     2 → len 3, {I:1, like:1, dogs:1}
//	  "like"  → {1, 2}
//	  "cats"  → {1}                        total length = 9
//	  "dogs"  → {2}
//
// Every mutation updates all three together, under one write lock, so these
// always hold between calls:
//
//  1. total length == sum of every document's length
//  2. the posting set of t == the documents whose TermFreqs contain t
//  3. one DocumentStats per id
//
// Queries take the read lock and may run concurrently with each other.
// ═══════════════════════════════════════════════════════════════════════════════
package okapi

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Index is an in-memory BM25 index. The zero value is not usable; call
// NewIndex.
type Index struct {
	mu sync.RWMutex // Single writer, many readers

	postings *PostingStore
	docs     *DocumentStatsStore

	params   Params
	analyzer Analyzer
	logger   *slog.Logger
}

// Option customizes an Index.
type Option func(*Index)

// WithAnalyzer replaces the analyzer built from Config.Analyzer.
func WithAnalyzer(a Analyzer) Option {
	return func(idx *Index) { idx.analyzer = a }
}

// WithLogger sets the logger. Without it the index logs nothing.
func WithLogger(logger *slog.Logger) Option {
	return func(idx *Index) {
		if logger != nil {
			idx.logger = logger
		}
	}
}

// NewIndex creates an empty index. An invalid configuration fails with
// ErrInvalidConfig.
func NewIndex(cfg Config, opts ...Option) (*Index, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	analyzer, err := cfg.Analyzer.Build()
	if err != nil {
		return nil, err
	}

	idx := &Index{
		postings: NewPostingStore(),
		docs:     NewDocumentStatsStore(),
		params:   cfg.Params(),
		analyzer: analyzer,
		logger:   slog.New(discardHandler),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx, nil
}

// MustNewIndex is like NewIndex but panics on error.
func MustNewIndex(cfg Config, opts ...Option) *Index {
	idx, err := NewIndex(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return idx
}

// ═══════════════════════════════════════════════════════════════════════════════
// MUTATIONS
// ═══════════════════════════════════════════════════════════════════════════════
// Text is analyzed before the lock is taken; only the bookkeeping runs under
// it. The three public mutations reduce to two locked primitives:
//
//	IndexDocument = insertLocked            (fails on an existing id)
//	Upsert        = deleteLocked + insertLocked
//	Delete        = deleteLocked
// ═══════════════════════════════════════════════════════════════════════════════

// IndexDocument adds a new document. It fails with ErrDuplicateDocument if
// docID is already indexed.
//
// Empty text is valid: the document is stored with length 0 and counts toward
// the corpus size and the average length.
func (idx *Index) IndexDocument(docID uint32, text string) error {
	ds := idx.analyze(docID, text)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, exists := idx.docs.Get(docID); exists {
		return fmt.Errorf("%w: id %d", ErrDuplicateDocument, docID)
	}
	idx.insertLocked(ds)
	return nil
}

// Upsert indexes the document, replacing any existing document with the same
// id. Other callers never observe the intermediate state. Upserting the same
// (docID, text) twice leaves the index as after the first call.
func (idx *Index) Upsert(docID uint32, text string) error {
	ds := idx.analyze(docID, text)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.upsertLocked(ds)
	return nil
}

// Delete removes a document and reports whether it was present. A missing id
// is not an error.
func (idx *Index) Delete(docID uint32) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	return idx.deleteLocked(docID)
}

// Document is a unit of batch ingestion.
type Document struct {
	ID   uint32
	Text string
}

// UpsertBatch upserts many documents. Text analysis runs in parallel; the
// results are then applied in slice order under a single write lock, so a
// later entry with a repeated id wins. If ctx is cancelled during analysis
// nothing is applied.
func (idx *Index) UpsertBatch(ctx context.Context, docs []Document) error {
	analyzed := make([]DocumentStats, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			analyzed[i] = idx.analyze(doc.ID, doc.Text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, ds := range analyzed {
		idx.upsertLocked(ds)
	}
	idx.logger.Debug("applied batch", slog.Int("documents", len(analyzed)))
	return nil
}

// analyze turns text into document statistics. It touches no index state.
func (idx *Index) analyze(docID uint32, text string) DocumentStats {
	terms := idx.analyzer.Analyze(text)
	return DocumentStats{
		DocID:     docID,
		Length:    len(terms),
		TermFreqs: termFrequencies(terms),
	}
}

// insertLocked registers ds in both stores. The caller holds the write lock
// and has checked that the id is new.
func (idx *Index) insertLocked(ds DocumentStats) {
	idx.docs.Insert(ds)
	idx.postings.AddDocument(ds.DocID, ds.terms())

	idx.logger.Debug("indexed document",
		slog.Uint64("docID", uint64(ds.DocID)),
		slog.Int("length", ds.Length),
		slog.Int("uniqueTerms", len(ds.TermFreqs)))
}

func (idx *Index) upsertLocked(ds DocumentStats) {
	idx.deleteLocked(ds.DocID)
	idx.insertLocked(ds)
}

// deleteLocked removes docID from both stores. The caller holds the write
// lock.
func (idx *Index) deleteLocked(docID uint32) bool {
	ds, ok := idx.docs.Remove(docID)
	if !ok {
		return false
	}
	idx.postings.RemoveDocument(docID, ds.terms())

	idx.logger.Debug("deleted document", slog.Uint64("docID", uint64(docID)))
	return true
}

// ═══════════════════════════════════════════════════════════════════════════════
// READ ACCESSORS
// ═══════════════════════════════════════════════════════════════════════════════

// IndexStats is a point-in-time summary of the corpus.
type IndexStats struct {
	Documents       int     // Indexed documents
	Terms           int     // Distinct terms with a non-empty posting set
	TotalDocLengths uint64  // Sum of document lengths
	AvgDocLength    float64 // TotalDocLengths / Documents, 0 when empty
}

// Stats returns a consistent snapshot of the corpus aggregates.
func (idx *Index) Stats() IndexStats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return IndexStats{
		Documents:       idx.docs.Len(),
		Terms:           idx.postings.Len(),
		TotalDocLengths: idx.docs.TotalLength(),
		AvgDocLength:    idx.docs.AvgLength(),
	}
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.docs.Len()
}

// TotalDocLengths returns the sum of all document lengths.
func (idx *Index) TotalDocLengths() uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.docs.TotalLength()
}

// AvgDocLength returns the average document length, or 0 for an empty index.
func (idx *Index) AvgDocLength() float64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.docs.AvgLength()
}

// DocumentFrequency returns the number of documents containing term. The term
// is looked up as given; it is not analyzed.
func (idx *Index) DocumentFrequency(term string) int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.postings.DocumentFrequency(term)
}

// Contains reports whether docID is indexed.
func (idx *Index) Contains(docID uint32) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.docs.Get(docID)
	return ok
}

// Document returns a copy of the statistics of docID.
func (idx *Index) Document(docID uint32) (DocumentStats, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ds, ok := idx.docs.Get(docID)
	if !ok {
		return DocumentStats{}, false
	}
	return ds.clone(), true
}

// Params returns the BM25 constants fixed at construction.
func (idx *Index) Params() Params {
	return idx.params
}

// Analyze runs text through the index's analyzer.
func (idx *Index) Analyze(text string) []string {
	return idx.analyzer.Analyze(text)
}
