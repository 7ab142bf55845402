// Command okapi indexes a small corpus and prints BM25 rankings for queries.
//
// Usage:
//
//	okapi [flags] query...
//
// Each line of --docs is one document; its id is the zero-based line number.
// Without --docs a three-document demo corpus is used.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/wizenheimer/okapi"
)

var demoCorpus = []string{
	"Hello world",
	"I like like like cats",
	"I like like dogs",
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "okapi:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := pflag.NewFlagSet("okapi", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	configPath := flags.StringP("config", "c", "", "YAML configuration file")
	k := flags.Float64("k", 1.5, "BM25 term frequency saturation")
	b := flags.Float64("b", 0.75, "BM25 length normalization")
	stem := flags.String("stem", "", "lowercase, drop stopwords and stem with this snowball language")
	top := flags.IntP("top", "n", 3, "results per query")
	docsPath := flags.StringP("docs", "d", "", "file with one document per line")
	verbose := flags.BoolP("verbose", "v", false, "log index activity to stderr")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg := okapi.DefaultConfig()
	if *configPath != "" {
		loaded, err := okapi.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if flags.Changed("k") {
		cfg.K = *k
	}
	if flags.Changed("b") {
		cfg.B = *b
	}
	if *stem != "" {
		cfg.Analyzer = okapi.AnalyzerConfig{
			Tokenizer: "word",
			Lowercase: true,
			Stopwords: true,
			Stemmer:   *stem,
		}
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	idx, err := okapi.NewIndex(cfg, okapi.WithLogger(logger))
	if err != nil {
		return err
	}

	docs, err := readCorpus(*docsPath)
	if err != nil {
		return err
	}
	if err := idx.UpsertBatch(context.Background(), docs); err != nil {
		return err
	}
	logger.Info("corpus loaded",
		slog.Int("documents", idx.Len()),
		slog.Float64("avgDocLength", idx.AvgDocLength()))

	queries := flags.Args()
	if len(queries) == 0 {
		queries = []string{"like"}
	}

	rankings, err := idx.SearchBatch(context.Background(), queries, *top)
	if err != nil {
		return err
	}
	for i, query := range queries {
		fmt.Fprintf(stdout, "Query: %q\n", query)
		for _, r := range rankings[i] {
			fmt.Fprintf(stdout, "Document ID: %d, Score: %.6f\n", r.DocID, r.Score)
		}
	}
	return nil
}

func readCorpus(path string) ([]okapi.Document, error) {
	if path == "" {
		docs := make([]okapi.Document, len(demoCorpus))
		for i, text := range demoCorpus {
			docs[i] = okapi.Document{ID: uint32(i), Text: text}
		}
		return docs, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var docs []okapi.Document
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for id := uint32(0); scanner.Scan(); id++ {
		docs = append(docs, okapi.Document{ID: id, Text: scanner.Text()})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return docs, nil
}
