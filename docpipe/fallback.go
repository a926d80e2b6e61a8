package docpipe

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// ledongEngine is the fallback engine, a second independent PDF parser that
// sometimes succeeds on pages the primary engine cannot decode. Its parser
// panics on some malformed inputs, so every call is panic-guarded.
type ledongEngine struct{}

// NewFallbackEngine returns the ledongthuc/pdf-backed fallback engine.
func NewFallbackEngine() Engine {
	return ledongEngine{}
}

func (ledongEngine) Open(path string) (doc Doc, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("fallback open: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fallback open: %w", err)
	}
	return &ledongDoc{f: f, r: r}, nil
}

type ledongDoc struct {
	f closer
	r *pdf.Reader
}

type closer interface{ Close() error }

func (d *ledongDoc) PageCount() int { return d.r.NumPage() }

func (d *ledongDoc) PageText(pageNr int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("fallback page %d: %v", pageNr, r)
		}
	}()

	if pageNr < 1 || pageNr > d.r.NumPage() {
		return "", fmt.Errorf("fallback page %d: out of range", pageNr)
	}
	page := d.r.Page(pageNr)
	if page.V.IsNull() {
		return "", fmt.Errorf("fallback page %d: null page", pageNr)
	}
	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("fallback page %d: %w", pageNr, err)
	}
	return text, nil
}

// PageImages is unsupported by this engine.
func (d *ledongDoc) PageImages(int, string) ([]string, error) { return nil, nil }

func (d *ledongDoc) Close() error { return d.f.Close() }
