package okapi

import (
	"context"

	"github.com/RoaringBitmap/roaring"
)

// ═══════════════════════════════════════════════════════════════════════════════
// QUERY BUILDER: Boolean Filters over Posting Bitmaps
// ═══════════════════════════════════════════════════════════════════════════════
// Search ranks every document that shares a term with the query (an implicit
// OR). The builder narrows the match set first and ranks afterwards:
//
// Query: documents with "machine" AND "learning"
//
//	results := NewQueryBuilder(idx).
//	    Term("machine").
//	    And().
//	    Term("learning").
//	    ExecuteBM25(10)
//
// Query: ("cat" OR "dog") but NOT "snake"
//
//	matches := NewQueryBuilder(idx).
//	    Group(func(q *QueryBuilder) {
//	        q.Term("cat").Or().Term("dog")
//	    }).
//	    And().Not().Term("snake").
//	    Execute()
//
// Operators apply left to right; use Group to control precedence. Every
// boolean step is a roaring bitmap operation, so filters stay cheap even when
// posting sets are large. Only terms that are not negated count toward the
// BM25 score.
// ═══════════════════════════════════════════════════════════════════════════════

// QueryBuilder provides a fluent interface for building boolean queries.
type QueryBuilder struct {
	index  *Index
	stack  []*roaring.Bitmap // Operand results, in order
	ops    []QueryOp         // Operators between consecutive operands
	negate bool              // Whether the next operand is negated
	terms  []string          // Positive terms, for scoring
}

// QueryOp represents a pending boolean operation.
type QueryOp int

const (
	OpNone QueryOp = iota
	OpAnd
	OpOr
)

// NewQueryBuilder creates a builder bound to idx.
func NewQueryBuilder(idx *Index) *QueryBuilder {
	return &QueryBuilder{index: idx}
}

// Term adds an operand matching the documents that contain term.
//
// The term goes through the index analyzer. If analysis yields several terms
// the operand matches documents containing any of them; if it yields none the
// operand matches nothing.
func (qb *QueryBuilder) Term(term string) *QueryBuilder {
	terms := qb.index.Analyze(term)

	qb.index.mu.RLock()
	bitmap := qb.index.postings.Candidates(terms)
	qb.index.mu.RUnlock()

	if qb.negate {
		bitmap = qb.negateBitmap(bitmap)
		qb.negate = false
	} else {
		qb.terms = append(qb.terms, terms...)
	}

	qb.pushBitmap(bitmap)
	return qb
}

// And joins the previous and next operands by intersection.
func (qb *QueryBuilder) And() *QueryBuilder {
	qb.ops = append(qb.ops, OpAnd)
	return qb
}

// Or joins the previous and next operands by union.
func (qb *QueryBuilder) Or() *QueryBuilder {
	qb.ops = append(qb.ops, OpOr)
	return qb
}

// Not negates the next operand.
//
//	qb.Term("python").And().Not().Term("snake")
func (qb *QueryBuilder) Not() *QueryBuilder {
	qb.negate = true
	return qb
}

// Group evaluates fn in its own scope and adds its result as one operand.
//
//	qb.Group(func(q *QueryBuilder) {
//	    q.Term("cat").Or().Term("dog")
//	}).And().Term("pet")
//	// (cat OR dog) AND pet
func (qb *QueryBuilder) Group(fn func(*QueryBuilder)) *QueryBuilder {
	sub := NewQueryBuilder(qb.index)
	fn(sub)
	result := sub.Execute()

	if qb.negate {
		result = qb.negateBitmap(result)
		qb.negate = false
	} else {
		qb.terms = append(qb.terms, sub.terms...)
	}

	qb.pushBitmap(result)
	return qb
}

// Execute evaluates the query and returns the matching document ids.
//
// An operand without a preceding operator is ignored, as is a trailing
// operator.
func (qb *QueryBuilder) Execute() *roaring.Bitmap {
	if len(qb.stack) == 0 {
		return roaring.NewBitmap()
	}

	result := qb.stack[0].Clone()
	for i := 1; i < len(qb.stack); i++ {
		if i-1 >= len(qb.ops) {
			break
		}
		switch qb.ops[i-1] {
		case OpAnd:
			result.And(qb.stack[i])
		case OpOr:
			result.Or(qb.stack[i])
		}
	}
	return result
}

// ExecuteBM25 evaluates the query and ranks the matches by BM25 over the
// positive terms, best first. Matches that score 0 are dropped.
func (qb *QueryBuilder) ExecuteBM25(topK int) []Result {
	matches := qb.Execute()
	terms := distinctTerms(qb.terms)
	if topK <= 0 || len(terms) == 0 {
		return []Result{}
	}

	qb.index.mu.RLock()
	defer qb.index.mu.RUnlock()

	// Background is never cancelled.
	results, _ := qb.index.rankLocked(context.Background(), matches, terms, topK)
	return results
}

// Terms returns the terms that will be scored.
func (qb *QueryBuilder) Terms() []string {
	return distinctTerms(qb.terms)
}

// ═══════════════════════════════════════════════════════════════════════════════
// INTERNAL HELPER METHODS
// ═══════════════════════════════════════════════════════════════════════════════

// negateBitmap returns all indexed documents except those in bitmap.
func (qb *QueryBuilder) negateBitmap(bitmap *roaring.Bitmap) *roaring.Bitmap {
	all := roaring.NewBitmap()

	qb.index.mu.RLock()
	qb.index.docs.Range(func(ds DocumentStats) bool {
		all.Add(ds.DocID)
		return true
	})
	qb.index.mu.RUnlock()

	all.AndNot(bitmap)
	return all
}

func (qb *QueryBuilder) pushBitmap(bitmap *roaring.Bitmap) {
	qb.stack = append(qb.stack, bitmap)
}

// ═══════════════════════════════════════════════════════════════════════════════
// CONVENIENCE METHODS FOR COMMON PATTERNS
// ═══════════════════════════════════════════════════════════════════════════════

// AllOf finds documents containing every term.
func AllOf(idx *Index, terms ...string) *roaring.Bitmap {
	if len(terms) == 0 {
		return roaring.NewBitmap()
	}
	qb := NewQueryBuilder(idx).Term(terms[0])
	for _, term := range terms[1:] {
		qb.And().Term(term)
	}
	return qb.Execute()
}

// AnyOf finds documents containing at least one term.
func AnyOf(idx *Index, terms ...string) *roaring.Bitmap {
	if len(terms) == 0 {
		return roaring.NewBitmap()
	}
	qb := NewQueryBuilder(idx).Term(terms[0])
	for _, term := range terms[1:] {
		qb.Or().Term(term)
	}
	return qb.Execute()
}

// TermExcluding finds documents with include but without exclude.
func TermExcluding(idx *Index, include, exclude string) *roaring.Bitmap {
	return NewQueryBuilder(idx).
		Term(include).
		And().Not().Term(exclude).
		Execute()
}
