// ═══════════════════════════════════════════════════════════════════════════════
// TEXT ANALYSIS OVERVIEW
// ═══════════════════════════════════════════════════════════════════════════════
// Text analysis turns raw text into the ordered sequence of terms that the
// index counts and the scorer matches. It has two pluggable stages:
//
//  1. Tokenization   → Split text into raw tokens
//  2. Normalization  → Rewrite the token stream (lowercase, stopwords, stems)
//
// The default analyzer is deliberately plain:
//
//	Input:  "I like like Cats!"
//	Step 1: ["I", "like", "like", "Cats!"]   (split on whitespace)
//	Step 2: ["I", "like", "like", "Cats!"]   (identity)
//
// Deployments that want real stemming swap in a different Normalizer:
//
//	Chain(LowercaseNormalizer{}, NewStopwordNormalizer(nil), stemmer)
//	"The Runners running" → ["runner", "run"]
//
// Both stages must be pure: the same input always yields the same terms, and
// neither stage may touch index state. The index calls them outside its lock.
// ═══════════════════════════════════════════════════════════════════════════════

package okapi

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// Tokenizer splits raw text into an ordered sequence of raw tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}

// Normalizer rewrites a token stream into index terms.
//
// A Normalizer may drop tokens (stopwords) or rewrite them (stemming), but it
// must preserve the order of the tokens it keeps.
type Normalizer interface {
	Normalize(tokens []string) []string
}

// TokenizerFunc adapts a plain function to the Tokenizer interface.
type TokenizerFunc func(text string) []string

// Tokenize calls f(text).
func (f TokenizerFunc) Tokenize(text string) []string { return f(text) }

// NormalizerFunc adapts a plain function to the Normalizer interface.
type NormalizerFunc func(tokens []string) []string

// Normalize calls f(tokens).
func (f NormalizerFunc) Normalize(tokens []string) []string { return f(tokens) }

// ═══════════════════════════════════════════════════════════════════════════════
// TOKENIZERS
// ═══════════════════════════════════════════════════════════════════════════════

// WhitespaceTokenizer splits on Unicode whitespace.
//
// Case is preserved and punctuation stays attached to its word:
//
//	"Hello, world"  → ["Hello,", "world"]
//	"a\tb c"   → ["a", "b", "c"]
type WhitespaceTokenizer struct{}

// Tokenize implements Tokenizer.
func (WhitespaceTokenizer) Tokenize(text string) []string {
	return strings.Fields(text)
}

// WordTokenizer splits on every rune that is neither a letter nor a number.
//
// Examples:
//
//	"hello-world"      → ["hello", "world"]
//	"user@email.com"   → ["user", "email", "com"]
//	"price: $9.99"     → ["price", "9", "99"]
//	"café"             → ["café"]
type WordTokenizer struct{}

// Tokenize implements Tokenizer.
func (WordTokenizer) Tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// ═══════════════════════════════════════════════════════════════════════════════
// NORMALIZERS
// ═══════════════════════════════════════════════════════════════════════════════

// IdentityNormalizer returns its input unchanged. It is the default.
type IdentityNormalizer struct{}

// Normalize implements Normalizer.
func (IdentityNormalizer) Normalize(tokens []string) []string { return tokens }

// LowercaseNormalizer folds every token to lower case.
type LowercaseNormalizer struct{}

// Normalize implements Normalizer.
func (LowercaseNormalizer) Normalize(tokens []string) []string {
	r := make([]string, len(tokens))
	for i, token := range tokens {
		r[i] = strings.ToLower(token)
	}
	return r
}

// StopwordNormalizer drops tokens found in its stop set.
//
// Matching is exact, so put a LowercaseNormalizer in front of it when the
// input is mixed case.
type StopwordNormalizer struct {
	stopwords map[string]struct{}
}

// NewStopwordNormalizer builds a StopwordNormalizer. A nil or empty list
// selects DefaultStopwords.
func NewStopwordNormalizer(words []string) *StopwordNormalizer {
	if len(words) == 0 {
		words = DefaultStopwords
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return &StopwordNormalizer{stopwords: set}
}

// Normalize implements Normalizer.
func (n *StopwordNormalizer) Normalize(tokens []string) []string {
	r := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, stop := n.stopwords[token]; !stop {
			r = append(r, token)
		}
	}
	return r
}

// DefaultStopwords is a short list of high-frequency English function words.
var DefaultStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "for",
	"from", "has", "have", "he", "her", "his", "i", "if", "in", "into",
	"is", "it", "its", "of", "on", "or", "our", "she", "so", "that",
	"the", "their", "them", "then", "there", "these", "they", "this", "to", "was",
	"we", "were", "what", "when", "which", "who", "will", "with", "you", "your",
}

// SnowballNormalizer reduces tokens to their stem with the Snowball
// algorithm for one language.
//
//	["running", "runs"] → ["run", "run"]
//
// Tokens should already be lower case; the stemmer does not fold case.
type SnowballNormalizer struct {
	language string
}

// SnowballLanguages lists the languages the snowball stemmer supports.
var SnowballLanguages = []string{
	"english", "french", "hungarian", "norwegian", "russian", "spanish", "swedish",
}

// NewSnowballNormalizer returns a stemmer for language. An unsupported
// language fails with ErrInvalidConfig.
func NewSnowballNormalizer(language string) (*SnowballNormalizer, error) {
	if _, err := snowball.Stem("probe", language, true); err != nil {
		return nil, fmt.Errorf("%w: stemmer language %q: %v", ErrInvalidConfig, language, err)
	}
	return &SnowballNormalizer{language: language}, nil
}

// Language returns the stemmer language.
func (n *SnowballNormalizer) Language() string { return n.language }

// Normalize implements Normalizer.
func (n *SnowballNormalizer) Normalize(tokens []string) []string {
	r := make([]string, len(tokens))
	for i, token := range tokens {
		stem, err := snowball.Stem(token, n.language, true)
		if err != nil {
			// The language was checked at construction.
			stem = token
		}
		r[i] = stem
	}
	return r
}

// Chain composes normalizers left to right.
func Chain(normalizers ...Normalizer) Normalizer {
	return NormalizerFunc(func(tokens []string) []string {
		for _, n := range normalizers {
			tokens = n.Normalize(tokens)
		}
		return tokens
	})
}

// ═══════════════════════════════════════════════════════════════════════════════
// ANALYZER
// ═══════════════════════════════════════════════════════════════════════════════

// Analyzer pairs a Tokenizer with a Normalizer.
//
// A nil stage falls back to the default for that stage, so the zero value is
// usable and behaves like DefaultAnalyzer.
type Analyzer struct {
	Tokenizer  Tokenizer
	Normalizer Normalizer
}

// DefaultAnalyzer splits on whitespace and keeps tokens as they are.
func DefaultAnalyzer() Analyzer {
	return Analyzer{
		Tokenizer:  WhitespaceTokenizer{},
		Normalizer: IdentityNormalizer{},
	}
}

// Analyze runs text through both stages.
//
// Example:
//
//	terms := DefaultAnalyzer().Analyze("I like like cats")
//	// Returns: ["I", "like", "like", "cats"]
func (a Analyzer) Analyze(text string) []string {
	tok := a.Tokenizer
	if tok == nil {
		tok = WhitespaceTokenizer{}
	}
	tokens := tok.Tokenize(text)
	if a.Normalizer == nil {
		return tokens
	}
	return a.Normalizer.Normalize(tokens)
}

// termFrequencies counts occurrences per term.
//
//	["like", "like", "cats"] → {"like": 2, "cats": 1}
func termFrequencies(terms []string) map[string]int {
	freqs := make(map[string]int, len(terms))
	for _, term := range terms {
		freqs[term]++
	}
	return freqs
}
