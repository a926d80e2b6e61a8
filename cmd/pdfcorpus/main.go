// Command pdfcorpus scans a directory tree of PDFs and writes the chunked
// corpus artifacts (all_chunks.json, skipped_pdfs.json, skipped_pages.json)
// for the downstream enrichment and indexing stages.
//
// A single invocation with no required flags processes the stock layout:
//
//	pdfcorpus                       # data/raw/pdf → data/processed
//	pdfcorpus -config corpus.yaml
//	pdfcorpus -in /srv/docs -out /srv/corpus -v
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/raglab/pdfcorpus/docpipe"
	"github.com/raglab/pdfcorpus/runner"
	"github.com/raglab/pdfcorpus/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pdfcorpus: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "YAML config file")
		inDir      = flag.String("in", "", "input directory (overrides config)")
		outDir     = flag.String("out", "", "output directory (overrides config)")
		workers    = flag.Int("workers", 0, "worker pool size (overrides config)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := runner.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *inDir != "" {
		cfg.Input = *inDir
	}
	if *outDir != "" {
		cfg.Output = *outDir
		cfg.Pipeline.ImageDir = ""
		cfg.Pipeline.RepairDir = ""
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	cfg.Defaults()
	cfg.Pipeline.Logger = logger

	docs, err := runner.Discover(cfg.Input)
	if err != nil {
		return err
	}
	logger.Info("corpus scanned", "dir", cfg.Input, "documents", len(docs))

	caps := docpipe.Probe(cfg.Pipeline)
	pipe := docpipe.New(cfg.Pipeline, caps, docpipe.WithChunkOptions(cfg.Chunk))

	ctx := context.Background()
	agg := runner.Run(ctx, docs, pipe.Process, cfg.Workers, logger)

	if err := runner.WriteArtifacts(cfg.Output, agg); err != nil {
		return err
	}
	if cfg.ChunksDB != "" {
		s, err := store.Open(cfg.ChunksDB)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Replace(ctx, agg.Chunks, agg.DocFailures, agg.PageFailures); err != nil {
			return err
		}
		logger.Info("artifact mirror written", "db", cfg.ChunksDB)
	}

	logger.Info("run complete",
		"documents", agg.Docs,
		"chunks", len(agg.Chunks),
		"skipped_documents", len(agg.DocFailures),
		"skipped_pages", len(agg.PageFailures),
		"output", cfg.Output)

	for _, name := range caps.Missing() {
		logger.Warn("optional capability unavailable this run", "capability", name, "hint", capabilityHint(name))
	}
	return nil
}

func capabilityHint(name string) string {
	switch name {
	case "repair":
		return "enable structural repair to recover malformed documents"
	case "fallback":
		return "enable the fallback parser to recover pages the primary engine fails"
	case "ocr":
		return "install tesseract with language data to extract text from scanned images"
	case "tables":
		return "enable table recovery to emit table chunks"
	}
	return ""
}
