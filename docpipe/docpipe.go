// Package docpipe extracts chunked text from a corpus of PDF documents.
//
// Each document goes through: optional structural repair → open with the
// primary engine → per-page tiered extraction (primary, then fallback) →
// best-effort enrichment (recognition, table recovery) → sentence-window
// chunking. Failures are contained at the document or page boundary; a
// document that cannot be opened, or a page that defeats both engines,
// degrades that contribution to zero and is recorded, never propagated.
//
// Usage:
//
//	caps := docpipe.Probe(cfg)
//	pipe := docpipe.New(cfg, caps)
//	res, err := pipe.Process(ctx, "manual.pdf")
package docpipe

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/raglab/pdfcorpus/chunk"
	"github.com/raglab/pdfcorpus/idgen"
	"github.com/raglab/pdfcorpus/segment"
)

// Pipeline is the per-document extraction engine. It is safe to share
// across worker goroutines: all per-document state lives in Process.
type Pipeline struct {
	cfg     Config
	caps    Capabilities
	primary Engine
	seg     segment.Segmenter
	copts   chunk.Options
	gen     idgen.Generator
	logger  *slog.Logger
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithSegmenter replaces the default UAX #29 sentence segmenter.
func WithSegmenter(s segment.Segmenter) Option { return func(p *Pipeline) { p.seg = s } }

// WithChunkOptions sets the sentence window geometry.
func WithChunkOptions(o chunk.Options) Option { return func(p *Pipeline) { p.copts = o } }

// WithIDGen replaces the chunk ID generator.
func WithIDGen(g idgen.Generator) Option { return func(p *Pipeline) { p.gen = g } }

// WithPrimary replaces the primary engine. Intended for tests.
func WithPrimary(e Engine) Option { return func(p *Pipeline) { p.primary = e } }

// New creates a Pipeline with the given configuration and capabilities.
func New(cfg Config, caps Capabilities, opts ...Option) *Pipeline {
	cfg.defaults()
	p := &Pipeline{
		cfg:     cfg,
		caps:    caps,
		primary: NewPrimaryEngine(),
		seg:     segment.New(),
		gen:     idgen.Default,
		logger:  cfg.Logger,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Process runs one document through the pipeline. The returned error is
// non-nil only when the document is unopenable by the primary engine,
// rejected outright, or ctx is cancelled; per-page losses are reported in
// Result.PageFailures. Cancellation is checked between pages because the
// underlying parsers take no context.
func (p *Pipeline) Process(ctx context.Context, path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > p.cfg.MaxFileSize {
		return nil, fmt.Errorf("%s: file too large: %d bytes (max %d)", filepath.Base(path), info.Size(), p.cfg.MaxFileSize)
	}

	base := filepath.Base(path)
	key := docKey(path)
	logger := p.logger.With("doc", base)

	// Repair stage: silent, non-fatal. The repaired copy lives under its
	// own directory and is removed when the task ends unless configured
	// otherwise. The destination is keyed by the document's full identity,
	// not its base name, so same-named documents from different
	// directories never share a path.
	workPath := path
	repaired := false
	if p.caps.Repairer != nil {
		dst := filepath.Join(p.cfg.RepairDir, key+filepath.Ext(base))
		if err := p.caps.Repairer.Repair(path, dst); err != nil {
			logger.Debug("repair failed, using original bytes", "error", err)
		} else {
			workPath = dst
			repaired = true
			if !p.cfg.KeepRepaired {
				defer os.Remove(dst)
			}
		}
	}

	doc, err := p.primary.Open(workPath)
	if err != nil && repaired {
		logger.Debug("repaired copy failed to open, retrying original", "error", err)
		workPath = path
		repaired = false
		doc, err = p.primary.Open(path)
	}
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	// Fallback and table handles are opened lazily, once per document,
	// against whichever path the primary opened.
	var fbDoc Doc
	fbTried := false
	openFallback := func() Doc {
		if fbTried {
			return fbDoc
		}
		fbTried = true
		if p.caps.Fallback == nil {
			return nil
		}
		d, err := p.caps.Fallback.Open(workPath)
		if err != nil {
			logger.Debug("fallback open failed", "error", err)
			return nil
		}
		fbDoc = d
		return fbDoc
	}
	defer func() {
		if fbDoc != nil {
			fbDoc.Close()
		}
	}()

	var tblDoc TableDoc
	tblTried := false
	defer func() {
		if tblDoc != nil {
			tblDoc.Close()
		}
	}()

	res := &Result{Path: path, Repaired: repaired}
	var pageTexts []string
	hasImages := false

	for n := 1; n <= doc.PageCount(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", base, err)
		}
		ext := extractPage(doc, openFallback, n)
		if ext.state == StateSkipped {
			logger.Debug("page skipped", "page", n, "error", ext.failure())
			res.PageFailures = append(res.PageFailures, chunk.PageFailure{
				Doc: base, Page: n, Error: ext.failure(),
			})
			continue
		}
		via := "primary"
		if ext.viaFallback {
			via = "fallback"
		}
		logger.Debug("page extracted", "page", n, "via", via)

		text := ext.text
		if p.caps.Recognizer != nil {
			text = p.enrich(logger, doc, key, n, text, &hasImages)
		}

		tables := p.pageTables(logger, &tblDoc, &tblTried, workPath, n)

		sents := p.seg.Segment(text)
		res.Chunks = append(res.Chunks, chunk.ForPage(path, n, sents, text, tables, p.copts, p.gen)...)
		pageTexts = append(pageTexts, text)
	}

	res.Quality = measureQuality(pageTexts, doc.PageCount(), len(res.PageFailures), hasImages)
	logger.Info("document processed",
		"pages", doc.PageCount(),
		"chunks", len(res.Chunks),
		"skipped_pages", len(res.PageFailures),
		"repaired", repaired,
		"chars_per_page", int(res.Quality.CharsPerPage))
	if res.Quality.NeedsOCR() && p.caps.Recognizer == nil {
		logger.Warn("document looks scanned or badly encoded and recognition is unavailable")
	}

	return res, nil
}

// enrich appends recognized text from the page's embedded images. Purely
// additive: every failure is swallowed per image and the incoming text is
// returned unchanged.
func (p *Pipeline) enrich(logger *slog.Logger, doc Doc, key string, pageNr int, text string, hasImages *bool) string {
	outDir := filepath.Join(p.cfg.ImageDir, key, fmt.Sprintf("page_%d", pageNr))
	imgs, err := doc.PageImages(pageNr, outDir)
	if err != nil {
		logger.Debug("image export failed", "page", pageNr, "error", err)
		return text
	}
	if len(imgs) > 0 {
		*hasImages = true
	}
	for _, img := range imgs {
		t, err := p.caps.Recognizer.Recognize(img)
		if err != nil {
			logger.Debug("recognition failed", "image", img, "error", err)
			continue
		}
		if t != "" {
			text += "\n" + t
		}
	}
	return text
}

// pageTables recovers the page's tables, best-effort and independent of
// which extractor produced the text.
func (p *Pipeline) pageTables(logger *slog.Logger, tblDoc *TableDoc, tried *bool, workPath string, pageNr int) []string {
	if p.caps.Tables == nil {
		return nil
	}
	if !*tried {
		*tried = true
		d, err := p.caps.Tables.Open(workPath)
		if err != nil {
			logger.Debug("table engine open failed", "error", err)
		} else {
			*tblDoc = d
		}
	}
	if *tblDoc == nil {
		return nil
	}
	tables, err := (*tblDoc).PageTables(pageNr)
	if err != nil {
		logger.Debug("table recovery failed", "page", pageNr, "error", err)
		return nil
	}
	return tables
}

func stem(base string) string {
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// docKey derives the document's working-directory segment from its full
// path, so that same-named documents discovered in different directories
// write to disjoint repair and image paths. Stable across runs.
func docKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	sum := sha256.Sum256([]byte(abs))
	return fmt.Sprintf("%s-%x", stem(filepath.Base(path)), sum[:4])
}
