// Package chunk defines the pipeline's output records and the sentence
// sliding-window chunker that produces them.
package chunk

import (
	"strings"

	"github.com/raglab/pdfcorpus/idgen"
)

// Source tags every chunk produced by this pipeline.
const Source = "pdf"

// ElemType discriminates chunk content.
type ElemType string

const (
	ElemText  ElemType = "text"
	ElemTable ElemType = "table"
)

// Loc places a chunk within its source document: always a 1-based page,
// plus a 1-based sentence range for windowed text chunks, or a 0-based
// table index for table chunks.
type Loc struct {
	Page      int  `json:"page"`
	StartSent int  `json:"start_sent,omitempty"`
	EndSent   int  `json:"end_sent,omitempty"`
	TableNo   *int `json:"table_no,omitempty"`
}

// Chunk is the smallest retrievable unit of output text.
type Chunk struct {
	ID       string   `json:"chunk_id"`
	Source   string   `json:"source"`
	DocPath  string   `json:"doc_path"`
	Loc      Loc      `json:"loc"`
	ElemType ElemType `json:"elem_type"`
	Text     string   `json:"text"`
}

// DocFailure records a document that could not be opened by any engine.
type DocFailure struct {
	Doc   string `json:"doc"`
	Error string `json:"error"`
}

// PageFailure records a page lost after both extraction attempts failed.
type PageFailure struct {
	Doc   string `json:"doc"`
	Page  int    `json:"page"`
	Error string `json:"error"`
}

// Options controls the sentence window.
type Options struct {
	// Window is the number of sentences per chunk (default 5).
	Window int `json:"window" yaml:"window"`
	// Overlap is the number of sentences shared between neighboring
	// chunks (default 2). Must be < Window.
	Overlap int `json:"overlap" yaml:"overlap"`
}

func (o *Options) defaults() {
	if o.Window <= 0 {
		o.Window = 5
	}
	if o.Overlap < 0 || o.Overlap >= o.Window {
		o.Overlap = 2
		if o.Overlap >= o.Window {
			o.Overlap = o.Window - 1
		}
	}
}

// Stride is the distance between window start indices.
func (o Options) Stride() int {
	o.defaults()
	return o.Window - o.Overlap
}

// ForPage converts one page's sentences and recovered tables into chunks.
//
// Text chunks come first: one per window start index 0, S, 2S, … while the
// index is below the sentence count, each covering up to Window sentences
// (the last window may be clipped). A page with no sentences yields exactly
// one text chunk carrying rawText verbatim, with no sentence range. Table
// chunks follow in recovery order.
func ForPage(docPath string, pageNr int, sents []string, rawText string, tables []string, opts Options, gen idgen.Generator) []Chunk {
	opts.defaults()
	if gen == nil {
		gen = idgen.Default
	}

	var out []Chunk

	if len(sents) > 0 {
		stride := opts.Stride()
		for i := 0; i < len(sents); i += stride {
			end := i + opts.Window
			if end > len(sents) {
				end = len(sents)
			}
			out = append(out, Chunk{
				ID:       gen(),
				Source:   Source,
				DocPath:  docPath,
				Loc:      Loc{Page: pageNr, StartSent: i + 1, EndSent: end},
				ElemType: ElemText,
				Text:     strings.Join(sents[i:end], " "),
			})
		}
	} else {
		out = append(out, Chunk{
			ID:       gen(),
			Source:   Source,
			DocPath:  docPath,
			Loc:      Loc{Page: pageNr},
			ElemType: ElemText,
			Text:     rawText,
		})
	}

	for ti, tbl := range tables {
		no := ti
		out = append(out, Chunk{
			ID:       gen(),
			Source:   Source,
			DocPath:  docPath,
			Loc:      Loc{Page: pageNr, TableNo: &no},
			ElemType: ElemTable,
			Text:     tbl,
		})
	}

	return out
}
