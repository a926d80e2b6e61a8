package docpipe

import "testing"

func TestMeasureQuality(t *testing.T) {
	q := measureQuality([]string{"abcd", "ef"}, 2, 0, false)
	if q.CharsPerPage != 3 {
		t.Errorf("chars per page: got %v, want 3", q.CharsPerPage)
	}
	if q.PrintableRatio != 1 {
		t.Errorf("printable ratio: got %v, want 1", q.PrintableRatio)
	}
	if q.PageCount != 2 || q.SkippedPages != 0 || q.HasImages {
		t.Errorf("metrics: %+v", q)
	}
}

func TestMeasureQuality_EmptyDocument(t *testing.T) {
	q := measureQuality(nil, 0, 0, false)
	if q.CharsPerPage != 0 {
		t.Errorf("chars per page: got %v, want 0", q.CharsPerPage)
	}
	// No text at all is vacuously clean, not garbage.
	if q.PrintableRatio != 1 {
		t.Errorf("printable ratio: got %v, want 1", q.PrintableRatio)
	}
}

func TestMeasureQuality_GarbageRunes(t *testing.T) {
	// Private Use Area codepoints indicate unmapped glyphs.
	q := measureQuality([]string{"ab\uE000\uE001"}, 1, 0, false)
	if q.PrintableRatio != 0.5 {
		t.Errorf("printable ratio: got %v, want 0.5", q.PrintableRatio)
	}
}

func TestNeedsOCR(t *testing.T) {
	cases := []struct {
		name string
		q    Quality
		want bool
	}{
		{"clean text document", Quality{CharsPerPage: 2000, PrintableRatio: 0.99}, false},
		{"near-empty with images", Quality{CharsPerPage: 10, PrintableRatio: 1, HasImages: true}, true},
		{"near-empty without images", Quality{CharsPerPage: 10, PrintableRatio: 1}, false},
		{"garbled encoding", Quality{CharsPerPage: 2000, PrintableRatio: 0.4}, true},
	}
	for _, tc := range cases {
		if got := tc.q.NeedsOCR(); got != tc.want {
			t.Errorf("%s: NeedsOCR() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsUsableRune(t *testing.T) {
	for _, r := range "aZ9 é汉\n\r\t" {
		if !isUsableRune(r) {
			t.Errorf("isUsableRune(%q) = false, want true", r)
		}
	}
	for _, r := range []rune{0xE000, 0xF8FF, 0xFFFD, 0x0001, 0x001F} {
		if isUsableRune(r) {
			t.Errorf("isUsableRune(%#x) = true, want false", r)
		}
	}
}
