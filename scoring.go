package okapi

import "math"

// ═══════════════════════════════════════════════════════════════════════════════
// BM25 RANKING SYSTEM
// ═══════════════════════════════════════════════════════════════════════════════
// BM25 (Best Matching 25) estimates how relevant a document is to a query from
// three signals:
//
//  1. Term frequency with saturation: the 10th "like" adds less than the 1st
//  2. Term rarity (idf): terms found in few documents weigh more
//  3. Length normalization: long documents do not win just by being long
//
// BM25 FORMULA:
// -------------
// For each DISTINCT query term t:
//
//	lengthNorm = k * (1 - b + b * docLen / avgDocLen)
//	tfPart     = tf / (tf + lengthNorm)
//	idf        = ln((N - df + 0.5) / (df + 0.5) + 1)
//	score     += tfPart * idf
//
// Where:
//
//	tf        = occurrences of t in the document
//	df        = documents containing t
//	N         = documents in the corpus
//	k         = term frequency saturation (default 1.5)
//	b         = length normalization strength (default 0.75)
//
// The "+ 1" inside the logarithm keeps idf positive even for terms found in
// more than half of the corpus. Terms with tf == 0 or df == 0 contribute 0.
//
// EXAMPLE:
// --------
// Corpus: "Hello world", "I like like cats", "I like dogs"   (avgDocLen = 3)
// Query:  "like"                                             (df = 2, N = 3)
//
//	idf           = ln((3 - 2 + 0.5) / (2 + 0.5) + 1) = ln(1.6) ≈ 0.470
//	doc 1 (len 4) = 2 / (2 + 1.5 * (0.25 + 0.75 * 4/3)) ≈ 0.516 → 0.243
//	doc 2 (len 3) = 1 / (1 + 1.5)                       = 0.400 → 0.188
// ═══════════════════════════════════════════════════════════════════════════════

// Params holds the BM25 tuning constants.
type Params struct {
	K float64 // Term frequency saturation (typical: 1.2-2.0)
	B float64 // Length normalization (typical: 0.75)
}

// DefaultParams returns k=1.5, b=0.75.
func DefaultParams() Params {
	return Params{K: 1.5, B: 0.75}
}

// IDF returns the variance-reduced inverse document frequency of a term that
// occurs in df of numDocs documents. It is 0 when df is 0.
func IDF(df, numDocs int) float64 {
	if df <= 0 {
		return 0
	}
	n := float64(numDocs)
	d := float64(df)
	return math.Log((n-d+0.5)/(d+0.5) + 1)
}

// LengthNorm returns k * (1 - b + b * docLen / avgDocLen).
//
// An average length of 0 only happens when every document is empty; the ratio
// is then taken as 0.
func (p Params) LengthNorm(docLen int, avgDocLen float64) float64 {
	ratio := 0.0
	if avgDocLen > 0 {
		ratio = float64(docLen) / avgDocLen
	}
	return p.K * (1 - p.B + p.B*ratio)
}

// scorer binds the parameters to a corpus snapshot. It is only valid while
// the index read lock is held.
type scorer struct {
	params    Params
	postings  *PostingStore
	numDocs   int
	avgDocLen float64
	idf       map[string]float64
}

func newScorer(params Params, postings *PostingStore, docs *DocumentStatsStore, terms []string) *scorer {
	s := &scorer{
		params:    params,
		postings:  postings,
		numDocs:   docs.Len(),
		avgDocLen: docs.AvgLength(),
		idf:       make(map[string]float64, len(terms)),
	}
	// idf depends only on the term, so compute it once per query
	for _, term := range terms {
		s.idf[term] = IDF(postings.DocumentFrequency(term), s.numDocs)
	}
	return s
}

// score computes the BM25 score of one document. terms must be distinct and
// must be the terms the scorer was built with.
func (s *scorer) score(ds DocumentStats, terms []string) float64 {
	norm := s.params.LengthNorm(ds.Length, s.avgDocLen)

	score := 0.0
	for _, term := range terms {
		tf := float64(ds.TermFreqs[term])
		idf := s.idf[term]
		if tf == 0 || idf == 0 {
			continue
		}
		score += tf / (tf + norm) * idf
	}
	return score
}

// distinctTerms removes duplicates while keeping first-seen order.
func distinctTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}
