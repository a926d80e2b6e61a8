package docpipe

import "unicode"

// Quality captures rough per-document extraction metrics, logged at task
// completion. A low printable ratio or near-empty pages alongside image
// streams usually means the document is scanned and OCR is the only way in.
type Quality struct {
	PageCount      int     `json:"page_count"`
	SkippedPages   int     `json:"skipped_pages"`
	CharsPerPage   float64 `json:"chars_per_page"`
	PrintableRatio float64 `json:"printable_ratio"`
	HasImages      bool    `json:"has_images"`
}

// NeedsOCR reports whether the document likely requires recognition to
// yield usable text.
func (q *Quality) NeedsOCR() bool {
	return (q.CharsPerPage < 50 && q.HasImages) || q.PrintableRatio < 0.85
}

// measureQuality aggregates metrics over the pages' extracted text.
func measureQuality(pageTexts []string, pageCount, skipped int, hasImages bool) *Quality {
	total := 0
	printable := 0
	chars := 0
	for _, text := range pageTexts {
		for _, r := range text {
			total++
			chars++
			if isUsableRune(r) {
				printable++
			}
		}
	}

	q := &Quality{
		PageCount:    pageCount,
		SkippedPages: skipped,
		HasImages:    hasImages,
	}
	if pageCount > 0 {
		q.CharsPerPage = float64(chars) / float64(pageCount)
	}
	if total > 0 {
		q.PrintableRatio = float64(printable) / float64(total)
	} else {
		q.PrintableRatio = 1.0
	}
	return q
}

// isUsableRune excludes the Private Use Area, the replacement character and
// non-whitespace control characters, which all indicate font decoding gone
// wrong rather than real content.
func isUsableRune(r rune) bool {
	if r >= 0xE000 && r <= 0xF8FF {
		return false
	}
	if r == 0xFFFD {
		return false
	}
	if r < 0x0020 {
		return r == '\n' || r == '\r' || r == '\t'
	}
	return unicode.IsPrint(r)
}
