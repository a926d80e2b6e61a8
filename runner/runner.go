// Package runner fans the discovered corpus out across a fixed worker pool,
// isolates failures per document task, merges results in completion order
// and writes the run artifacts.
package runner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/raglab/pdfcorpus/chunk"
	"github.com/raglab/pdfcorpus/docpipe"
)

// ProcessFunc runs one document and returns its self-contained result.
// A non-nil error marks the whole document as failed.
type ProcessFunc func(ctx context.Context, path string) (*docpipe.Result, error)

// Aggregate is the run's merged output: the only writer is the single
// goroutine consuming completed tasks.
type Aggregate struct {
	Chunks       []chunk.Chunk
	DocFailures  []chunk.DocFailure
	PageFailures []chunk.PageFailure
	Docs         int // documents discovered
	Failed       int // documents contributing zero pages
}

// Discover walks root recursively and returns all PDF paths, sorted for a
// stable submission order.
func Discover(root string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			docs = append(docs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	sort.Strings(docs)
	return docs, nil
}

// taskResult is one completed task: either a document result or the error
// that felled it.
type taskResult struct {
	doc string
	res *docpipe.Result
	err error
}

// Run executes one task per document across a pool of workers goroutines
// and merges results as tasks complete. The run never aborts early: every
// failure is captured in the aggregate and the remaining tasks proceed.
func Run(ctx context.Context, docs []string, fn ProcessFunc, workers int, logger *slog.Logger) *Aggregate {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}

	results := make(chan taskResult)

	var g errgroup.Group
	g.SetLimit(workers)
	go func() {
		for _, doc := range docs {
			g.Go(func() error {
				results <- runTask(ctx, fn, doc)
				return nil
			})
		}
		g.Wait()
		close(results)
	}()

	agg := &Aggregate{Docs: len(docs)}
	done := 0
	for r := range results {
		done++
		if r.err != nil {
			agg.Failed++
			agg.DocFailures = append(agg.DocFailures, chunk.DocFailure{
				Doc:   filepath.Base(r.doc),
				Error: r.err.Error(),
			})
			logger.Warn("document failed", "doc", filepath.Base(r.doc), "error", r.err, "progress", fmt.Sprintf("%d/%d", done, len(docs)))
			continue
		}
		agg.Chunks = append(agg.Chunks, r.res.Chunks...)
		agg.PageFailures = append(agg.PageFailures, r.res.PageFailures...)
		logger.Info("document merged", "doc", filepath.Base(r.doc), "chunks", len(r.res.Chunks), "progress", fmt.Sprintf("%d/%d", done, len(docs)))
	}
	return agg
}

// runTask invokes fn with a panic guard: anything escaping a task's normal
// failure paths becomes a whole-document failure instead of taking down
// the run.
func runTask(ctx context.Context, fn ProcessFunc, doc string) (tr taskResult) {
	tr.doc = doc
	defer func() {
		if r := recover(); r != nil {
			tr.res, tr.err = nil, fmt.Errorf("task panic: %v", r)
		}
	}()
	tr.res, tr.err = fn(ctx, doc)
	return tr
}
