// Package segment splits raw page text into ordered sentence spans.
//
// Segmentation is a narrow, swappable collaborator of the chunker: the
// pipeline core only depends on the Segmenter interface, so tests can inject
// a trivial splitter and the default can be replaced without touching the
// chunking logic.
package segment

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/sentences"
)

// Segmenter splits text into an ordered sequence of sentences.
// Implementations must trim surrounding whitespace and drop empty spans.
type Segmenter interface {
	Segment(text string) []string
}

// UAX29 segments text per Unicode Standard Annex #29 sentence boundaries.
type UAX29 struct{}

// New returns the default sentence segmenter.
func New() UAX29 {
	return UAX29{}
}

// Segment implements Segmenter.
func (UAX29) Segment(text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	toks := sentences.FromString(text)
	for toks.Next() {
		s := strings.TrimSpace(toks.Value())
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Func adapts a plain function to the Segmenter interface.
type Func func(text string) []string

// Segment implements Segmenter.
func (f Func) Segment(text string) []string { return f(text) }
