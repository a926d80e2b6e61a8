package chunk

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/raglab/pdfcorpus/idgen"
)

func sentences(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("s%d.", i+1)
	}
	return out
}

// Worked example: 7 sentences, window 5, overlap 2 → stride 3 →
// windows [1-5], [4-7], [7-7].
func TestForPage_WindowMath(t *testing.T) {
	got := ForPage("a.pdf", 1, sentences(7), "", nil, Options{Window: 5, Overlap: 2}, idgen.Sequential("t"))
	if len(got) != 3 {
		t.Fatalf("got %d chunks, want 3", len(got))
	}

	want := []struct{ start, end int }{{1, 5}, {4, 7}, {7, 7}}
	for i, w := range want {
		c := got[i]
		if c.Loc.StartSent != w.start || c.Loc.EndSent != w.end {
			t.Errorf("chunk[%d]: range [%d-%d], want [%d-%d]", i, c.Loc.StartSent, c.Loc.EndSent, w.start, w.end)
		}
		if c.ElemType != ElemText {
			t.Errorf("chunk[%d]: elem_type %q, want text", i, c.ElemType)
		}
		if c.Loc.Page != 1 {
			t.Errorf("chunk[%d]: page %d, want 1", i, c.Loc.Page)
		}
	}
	if got[2].Text != "s7." {
		t.Errorf("clipped window text: got %q, want %q", got[2].Text, "s7.")
	}
}

// Dropping the overlapping prefix of every non-first window must
// reconstruct the original sentence sequence exactly.
func TestForPage_Reconstruct(t *testing.T) {
	for _, n := range []int{1, 2, 4, 5, 6, 7, 12, 23} {
		sents := sentences(n)
		opts := Options{Window: 5, Overlap: 2}
		chunks := ForPage("a.pdf", 1, sents, "", nil, opts, idgen.Sequential("t"))

		var rebuilt []string
		for i, c := range chunks {
			win := strings.Fields(c.Text)
			if i > 0 {
				overlap := opts.Overlap
				if len(win) < overlap {
					overlap = len(win)
				}
				win = win[overlap:]
			}
			rebuilt = append(rebuilt, win...)
		}
		if strings.Join(rebuilt, " ") != strings.Join(sents, " ") {
			t.Errorf("n=%d: rebuilt %q != original %q", n, rebuilt, sents)
		}
	}
}

func TestForPage_ChunkCount(t *testing.T) {
	// count = |{i in 0,S,2S,… : i < n}| = ceil(n/S)
	opts := Options{Window: 5, Overlap: 2}
	stride := opts.Stride()
	for n := 1; n <= 30; n++ {
		chunks := ForPage("a.pdf", 1, sentences(n), "", nil, opts, idgen.Sequential("t"))
		want := (n + stride - 1) / stride
		if len(chunks) != want {
			t.Errorf("n=%d: got %d chunks, want %d", n, len(chunks), want)
		}
	}
}

func TestForPage_EmptySentences(t *testing.T) {
	got := ForPage("a.pdf", 3, nil, "raw page text", nil, Options{}, idgen.Sequential("t"))
	if len(got) != 1 {
		t.Fatalf("got %d chunks, want 1", len(got))
	}
	c := got[0]
	if c.Text != "raw page text" {
		t.Errorf("text: got %q", c.Text)
	}
	if c.Loc.StartSent != 0 || c.Loc.EndSent != 0 {
		t.Errorf("empty page must carry no sentence range, got [%d-%d]", c.Loc.StartSent, c.Loc.EndSent)
	}

	// Even a fully empty page contributes one chunk.
	got = ForPage("a.pdf", 4, nil, "", nil, Options{}, idgen.Sequential("t"))
	if len(got) != 1 || got[0].Text != "" {
		t.Fatalf("empty raw text: got %+v", got)
	}
}

func TestForPage_Tables(t *testing.T) {
	tables := []string{"h1,h2\na,b", "x,y\n1,2"}
	got := ForPage("a.pdf", 2, sentences(2), "", tables, Options{}, idgen.Sequential("t"))
	if len(got) != 3 {
		t.Fatalf("got %d chunks, want 1 text + 2 table", len(got))
	}

	// Text chunks precede table chunks; table_no follows recovery order.
	if got[0].ElemType != ElemText {
		t.Fatalf("first chunk should be text, got %s", got[0].ElemType)
	}
	prev := -1
	for _, c := range got[1:] {
		if c.ElemType != ElemTable {
			t.Errorf("expected table chunk, got %s", c.ElemType)
			continue
		}
		if c.Loc.TableNo == nil {
			t.Fatal("table chunk missing table_no")
		}
		if *c.Loc.TableNo <= prev {
			t.Errorf("table_no not strictly increasing: %d after %d", *c.Loc.TableNo, prev)
		}
		prev = *c.Loc.TableNo
	}
	if got[1].Text != tables[0] || got[2].Text != tables[1] {
		t.Error("table chunk text does not match recovery order")
	}
}

func TestForPage_UniqueIDs(t *testing.T) {
	got := ForPage("a.pdf", 1, sentences(20), "", []string{"t"}, Options{}, idgen.UUID())
	seen := make(map[string]bool)
	for _, c := range got {
		if seen[c.ID] {
			t.Fatalf("duplicate chunk id %s", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestChunkJSON(t *testing.T) {
	no := 0
	c := Chunk{
		ID: "id-1", Source: Source, DocPath: "d.pdf",
		Loc:      Loc{Page: 2, TableNo: &no},
		ElemType: ElemTable, Text: "a,b",
	}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, `"table_no":0`) {
		t.Errorf("table_no 0 must survive marshaling: %s", s)
	}
	if strings.Contains(s, "start_sent") {
		t.Errorf("table chunk must not carry a sentence range: %s", s)
	}

	text := Chunk{ID: "id-2", Source: Source, DocPath: "d.pdf", Loc: Loc{Page: 1, StartSent: 1, EndSent: 5}, ElemType: ElemText}
	data, _ = json.Marshal(text)
	if strings.Contains(string(data), "table_no") {
		t.Errorf("text chunk must not carry table_no: %s", data)
	}
}
