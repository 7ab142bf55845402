package okapi

import (
	"github.com/RoaringBitmap/roaring"
)

// ═══════════════════════════════════════════════════════════════════════════════
// POSTING STORE: term → set of documents
// ═══════════════════════════════════════════════════════════════════════════════
// Each term owns a roaring bitmap of the document ids that contain it at least
// once. Membership is a set, never a multiset: a document that repeats a term
// ten times still appears once, so the bitmap cardinality is exactly the
// document frequency BM25's idf expects.
//
//	"like" → {1, 2}
//	"cats" → {1}
//	"dogs" → {2}
//
// Bitmaps that become empty are pruned, so a term is present in the store only
// while some indexed document contains it.
// ═══════════════════════════════════════════════════════════════════════════════

// PostingStore maps terms to the documents containing them.
//
// It is not safe for concurrent mutation; Index serializes access.
type PostingStore struct {
	postings map[string]*roaring.Bitmap
}

// NewPostingStore returns an empty store.
func NewPostingStore() *PostingStore {
	return &PostingStore{postings: make(map[string]*roaring.Bitmap)}
}

// AddDocument records docID under every term. Adding the same pair twice is a
// no-op.
func (ps *PostingStore) AddDocument(docID uint32, terms []string) {
	for _, term := range terms {
		bitmap := ps.postings[term]
		if bitmap == nil {
			bitmap = roaring.NewBitmap()
			ps.postings[term] = bitmap
		}
		bitmap.Add(docID)
	}
}

// RemoveDocument drops docID from every term and prunes emptied terms.
func (ps *PostingStore) RemoveDocument(docID uint32, terms []string) {
	for _, term := range terms {
		bitmap, ok := ps.postings[term]
		if !ok {
			continue
		}
		bitmap.Remove(docID)
		if bitmap.IsEmpty() {
			delete(ps.postings, term)
		}
	}
}

// DocumentFrequency returns how many documents contain term.
func (ps *PostingStore) DocumentFrequency(term string) int {
	bitmap, ok := ps.postings[term]
	if !ok {
		return 0
	}
	return int(bitmap.GetCardinality())
}

// Candidates returns the union of the posting sets of terms as a new bitmap.
// Unknown terms contribute nothing; duplicates are harmless.
func (ps *PostingStore) Candidates(terms []string) *roaring.Bitmap {
	sets := make([]*roaring.Bitmap, 0, len(terms))
	for _, term := range terms {
		if bitmap, ok := ps.postings[term]; ok {
			sets = append(sets, bitmap)
		}
	}
	switch len(sets) {
	case 0:
		return roaring.NewBitmap()
	case 1:
		return sets[0].Clone()
	default:
		return roaring.FastOr(sets...)
	}
}

// Postings returns a copy of the posting set of term, or nil if absent.
func (ps *PostingStore) Postings(term string) *roaring.Bitmap {
	bitmap, ok := ps.postings[term]
	if !ok {
		return nil
	}
	return bitmap.Clone()
}

// Contains reports whether docID is in the posting set of term.
func (ps *PostingStore) Contains(term string, docID uint32) bool {
	bitmap, ok := ps.postings[term]
	return ok && bitmap.Contains(docID)
}

// Len returns the number of distinct terms in the store.
func (ps *PostingStore) Len() int {
	return len(ps.postings)
}
