package segment

import (
	"strings"
	"testing"
)

func TestSegmentBasic(t *testing.T) {
	seg := New()
	got := seg.Segment("The pump failed. It was replaced in March. No further issues were reported.")
	if len(got) != 3 {
		t.Fatalf("got %d sentences, want 3: %q", len(got), got)
	}
	if got[0] != "The pump failed." {
		t.Errorf("first sentence: got %q", got[0])
	}
	for i, s := range got {
		if s != strings.TrimSpace(s) {
			t.Errorf("sentence %d not trimmed: %q", i, s)
		}
		if s == "" {
			t.Errorf("sentence %d empty", i)
		}
	}
}

func TestSegmentEmpty(t *testing.T) {
	seg := New()
	if got := seg.Segment(""); got != nil {
		t.Errorf("empty text: got %v, want nil", got)
	}
	if got := seg.Segment("   \n\t "); len(got) != 0 {
		t.Errorf("whitespace text: got %v, want none", got)
	}
}

func TestSegmentSingle(t *testing.T) {
	seg := New()
	got := seg.Segment("no terminal punctuation here")
	if len(got) != 1 {
		t.Fatalf("got %d sentences, want 1", len(got))
	}
}

func TestFuncAdapter(t *testing.T) {
	f := Func(func(text string) []string { return strings.Fields(text) })
	got := f.Segment("a b c")
	if len(got) != 3 {
		t.Fatalf("adapter: got %d, want 3", len(got))
	}
}
