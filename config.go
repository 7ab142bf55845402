package okapi

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ═══════════════════════════════════════════════════════════════════════════════
// ERROR DEFINITIONS
// ═══════════════════════════════════════════════════════════════════════════════
// Sentinel errors are wrapped with detail, so compare them with errors.Is.
var (
	ErrDuplicateDocument = errors.New("document already indexed")
	ErrInvalidConfig     = errors.New("invalid index configuration")
)

// ═══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ═══════════════════════════════════════════════════════════════════════════════
// A Config fixes the BM25 constants for the lifetime of an index and names the
// analyzer that turns text into terms. It can be built in code or read from
// YAML:
//
//	k: 1.2
//	b: 0.75
//	analyzer:
//	  tokenizer: word
//	  lowercase: true
//	  stopwords: true
//	  stemmer: english
//
// Fields missing from the YAML keep their DefaultConfig values.
// ═══════════════════════════════════════════════════════════════════════════════

// Config holds the construction parameters of an Index.
type Config struct {
	K        float64        `yaml:"k"`        // Term frequency saturation (>= 0)
	B        float64        `yaml:"b"`        // Length normalization strength (0..1)
	Analyzer AnalyzerConfig `yaml:"analyzer"` // How text becomes terms
}

// AnalyzerConfig describes an Analyzer declaratively.
type AnalyzerConfig struct {
	Tokenizer string `yaml:"tokenizer"` // "whitespace" (default) or "word"
	Lowercase bool   `yaml:"lowercase"`
	Stopwords bool   `yaml:"stopwords"`
	Stemmer   string `yaml:"stemmer"` // Snowball language, empty for none
}

// DefaultConfig returns k=1.5, b=0.75 and the whitespace/identity analyzer.
func DefaultConfig() Config {
	return Config{
		K: 1.5,
		B: 0.75,
		Analyzer: AnalyzerConfig{
			Tokenizer: "whitespace",
		},
	}
}

// Validate reports whether the configuration can build an index.
func (c Config) Validate() error {
	if math.IsNaN(c.K) || c.K < 0 {
		return fmt.Errorf("%w: k must be >= 0, got %v", ErrInvalidConfig, c.K)
	}
	if math.IsNaN(c.B) || c.B < 0 || c.B > 1 {
		return fmt.Errorf("%w: b must be within [0, 1], got %v", ErrInvalidConfig, c.B)
	}
	if _, err := c.Analyzer.Build(); err != nil {
		return err
	}
	return nil
}

// Params returns the BM25 constants of the configuration.
func (c Config) Params() Params {
	return Params{K: c.K, B: c.B}
}

// Build constructs the Analyzer the configuration describes.
func (ac AnalyzerConfig) Build() (Analyzer, error) {
	a := DefaultAnalyzer()

	switch ac.Tokenizer {
	case "", "whitespace":
		a.Tokenizer = WhitespaceTokenizer{}
	case "word":
		a.Tokenizer = WordTokenizer{}
	default:
		return Analyzer{}, fmt.Errorf("%w: unknown tokenizer %q", ErrInvalidConfig, ac.Tokenizer)
	}

	var chain []Normalizer
	if ac.Lowercase {
		chain = append(chain, LowercaseNormalizer{})
	}
	if ac.Stopwords {
		chain = append(chain, NewStopwordNormalizer(nil))
	}
	if ac.Stemmer != "" {
		stemmer, err := NewSnowballNormalizer(ac.Stemmer)
		if err != nil {
			return Analyzer{}, err
		}
		chain = append(chain, stemmer)
	}

	switch len(chain) {
	case 0:
	case 1:
		a.Normalizer = chain[0]
	default:
		a.Normalizer = Chain(chain...)
	}
	return a, nil
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: decode yaml: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}
