package docpipe

import (
	"github.com/raglab/pdfcorpus/chunk"
)

// Engine opens documents and extracts per-page content. The pipeline uses
// two: the primary pdfcpu engine and an optional fallback engine tried only
// when the primary fails a page.
type Engine interface {
	Open(path string) (Doc, error)
}

// Doc is an open document handle. Page numbers are 1-based. Handles are
// owned by a single worker task and are not safe for concurrent use.
type Doc interface {
	PageCount() int

	// PageText extracts the raw text of one page. An empty string with a
	// nil error is a successful extraction of an empty page.
	PageText(pageNr int) (string, error)

	// PageImages exports the page's embedded raster images into outDir and
	// returns their file paths. Engines without image support return
	// (nil, nil).
	PageImages(pageNr int, outDir string) ([]string, error)

	Close() error
}

// Repairer attempts to produce a structurally normalized copy of a document.
type Repairer interface {
	Repair(src, dst string) error
}

// Recognizer turns a raster image into text.
type Recognizer interface {
	Recognize(imgPath string) (string, error)
}

// TableEngine recovers tabular structures from a document.
type TableEngine interface {
	Open(path string) (TableDoc, error)
}

// TableDoc is an open handle for table recovery; page numbers are 1-based.
type TableDoc interface {
	// PageTables returns one serialized text block per recovered table,
	// in discovery order. No tables is (nil, nil).
	PageTables(pageNr int) ([]string, error)
	Close() error
}

// Result is everything one document contributed to the run.
type Result struct {
	Path         string
	Repaired     bool
	Chunks       []chunk.Chunk
	PageFailures []chunk.PageFailure
	Quality      *Quality
}
