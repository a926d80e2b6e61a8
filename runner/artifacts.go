package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raglab/pdfcorpus/chunk"
)

// Artifact file names, fixed contract with the downstream enrichment and
// indexing collaborators.
const (
	ChunksFile       = "all_chunks.json"
	DocFailuresFile  = "skipped_pdfs.json"
	PageFailuresFile = "skipped_pages.json"
)

// WriteArtifacts rewrites the three run artifacts wholesale under dir.
// Empty collections are written as [], never null, so consumers can rely
// on array shape.
func WriteArtifacts(dir string, agg *Aggregate) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("artifacts dir: %w", err)
	}

	chunks := agg.Chunks
	if chunks == nil {
		chunks = make([]chunk.Chunk, 0)
	}
	docFails := agg.DocFailures
	if docFails == nil {
		docFails = make([]chunk.DocFailure, 0)
	}
	pageFails := agg.PageFailures
	if pageFails == nil {
		pageFails = make([]chunk.PageFailure, 0)
	}

	if err := writeJSON(filepath.Join(dir, ChunksFile), chunks); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, DocFailuresFile), docFails); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, PageFailuresFile), pageFails)
}

// ReadChunks loads a previously written chunk list.
func ReadChunks(dir string) ([]chunk.Chunk, error) {
	data, err := os.ReadFile(filepath.Join(dir, ChunksFile))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ChunksFile, err)
	}
	var chunks []chunk.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ChunksFile, err)
	}
	return chunks, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
