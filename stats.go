package okapi

// DocumentStats stores statistics about a single document
type DocumentStats struct {
	DocID     uint32         // Document identifier
	Length    int            // Number of terms in the document, repeats included
	TermFreqs map[string]int // How many times each term appears
}

// terms returns the distinct terms of the document.
func (ds DocumentStats) terms() []string {
	terms := make([]string, 0, len(ds.TermFreqs))
	for term := range ds.TermFreqs {
		terms = append(terms, term)
	}
	return terms
}

// clone returns a deep copy so callers can not reach index state.
func (ds DocumentStats) clone() DocumentStats {
	freqs := make(map[string]int, len(ds.TermFreqs))
	for term, n := range ds.TermFreqs {
		freqs[term] = n
	}
	ds.TermFreqs = freqs
	return ds
}

// ═══════════════════════════════════════════════════════════════════════════════
// DOCUMENT STATS STORE
// ═══════════════════════════════════════════════════════════════════════════════
// The store keeps one DocumentStats per id and the running sum of their
// lengths. The sum is never recomputed: Insert adds, Remove subtracts, and
// Index calls both in lock-step with the PostingStore.
// ═══════════════════════════════════════════════════════════════════════════════

// DocumentStatsStore maps document ids to their statistics.
type DocumentStatsStore struct {
	docs        map[uint32]DocumentStats
	totalLength uint64
}

// NewDocumentStatsStore returns an empty store.
func NewDocumentStatsStore() *DocumentStatsStore {
	return &DocumentStatsStore{docs: make(map[uint32]DocumentStats)}
}

// Get returns the stats for docID.
func (s *DocumentStatsStore) Get(docID uint32) (DocumentStats, bool) {
	ds, ok := s.docs[docID]
	return ds, ok
}

// Insert stores ds and adds its length to the total. It reports false, and
// changes nothing, if the id is already present.
func (s *DocumentStatsStore) Insert(ds DocumentStats) bool {
	if _, exists := s.docs[ds.DocID]; exists {
		return false
	}
	s.docs[ds.DocID] = ds
	s.totalLength += uint64(ds.Length)
	return true
}

// Remove deletes docID and subtracts its length from the total.
func (s *DocumentStatsStore) Remove(docID uint32) (DocumentStats, bool) {
	ds, ok := s.docs[docID]
	if !ok {
		return DocumentStats{}, false
	}
	delete(s.docs, docID)
	s.totalLength -= uint64(ds.Length)
	return ds, true
}

// Len returns the number of documents.
func (s *DocumentStatsStore) Len() int { return len(s.docs) }

// TotalLength returns the sum of all document lengths.
func (s *DocumentStatsStore) TotalLength() uint64 { return s.totalLength }

// AvgLength returns TotalLength / Len, or 0 for an empty store.
func (s *DocumentStatsStore) AvgLength() float64 {
	if len(s.docs) == 0 {
		return 0
	}
	return float64(s.totalLength) / float64(len(s.docs))
}

// Range calls fn for every document until fn returns false. Order is
// unspecified.
func (s *DocumentStatsStore) Range(fn func(DocumentStats) bool) {
	for _, ds := range s.docs {
		if !fn(ds) {
			return
		}
	}
}
