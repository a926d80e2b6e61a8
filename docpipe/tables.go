package docpipe

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Table recovery heuristics over positioned text runs.
const (
	// rowTolerance groups runs into one row when their baselines differ
	// by at most this many points.
	rowTolerance = 5.0
	// cellGap starts a new cell when the horizontal distance from the end
	// of the previous run exceeds this many points.
	cellGap = 20.0
	// minTableRows and minTableCols qualify a row block as a table.
	minTableRows = 2
	minTableCols = 2
)

// streamTableEngine recovers tables from text-layer geometry alone, the way
// stream-mode table parsers do: cluster runs into rows by baseline, split
// rows into cells on horizontal gaps, and keep blocks of aligned rows.
type streamTableEngine struct{}

// NewTableEngine returns the geometry-based table recovery engine.
func NewTableEngine() TableEngine {
	return streamTableEngine{}
}

func (streamTableEngine) Open(path string) (td TableDoc, err error) {
	defer func() {
		if r := recover(); r != nil {
			td, err = nil, fmt.Errorf("tables open: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tables open: %w", err)
	}
	return &streamTableDoc{f: f, r: r}, nil
}

type streamTableDoc struct {
	f closer
	r *pdf.Reader
}

func (d *streamTableDoc) PageTables(pageNr int) (tables []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			tables, err = nil, fmt.Errorf("tables page %d: %v", pageNr, r)
		}
	}()

	if pageNr < 1 || pageNr > d.r.NumPage() {
		return nil, fmt.Errorf("tables page %d: out of range", pageNr)
	}
	page := d.r.Page(pageNr)
	if page.V.IsNull() {
		return nil, fmt.Errorf("tables page %d: null page", pageNr)
	}
	return recoverTables(page.Content().Text), nil
}

func (d *streamTableDoc) Close() error { return d.f.Close() }

// recoverTables finds blocks of row-aligned, multi-column text runs and
// serializes each block as comma-separated rows in reading order.
func recoverTables(runs []pdf.Text) []string {
	rows := clusterRows(runs)

	var tables []string
	var block [][]string
	flush := func() {
		if len(block) >= minTableRows {
			lines := make([]string, len(block))
			for i, cells := range block {
				lines[i] = strings.Join(cells, ",")
			}
			tables = append(tables, strings.Join(lines, "\n"))
		}
		block = nil
	}

	for _, row := range rows {
		cells := splitCells(row)
		if len(cells) >= minTableCols {
			block = append(block, cells)
		} else {
			flush()
		}
	}
	flush()

	return tables
}

// clusterRows groups runs sharing a baseline (within rowTolerance) and
// returns the rows top-to-bottom, each row's runs left-to-right.
// PDF user space has its origin at the bottom left, so reading order is
// descending Y.
func clusterRows(runs []pdf.Text) [][]pdf.Text {
	if len(runs) == 0 {
		return nil
	}

	sorted := make([]pdf.Text, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var rows [][]pdf.Text
	var row []pdf.Text
	rowY := sorted[0].Y
	for _, t := range sorted {
		if rowY-t.Y > rowTolerance {
			rows = append(rows, row)
			row = nil
			rowY = t.Y
		}
		row = append(row, t)
	}
	rows = append(rows, row)

	for _, r := range rows {
		sort.SliceStable(r, func(i, j int) bool { return r[i].X < r[j].X })
	}
	return rows
}

// splitCells merges a row's runs into cells, starting a new cell whenever
// the horizontal gap from the previous run exceeds cellGap.
func splitCells(row []pdf.Text) []string {
	var cells []string
	var cell strings.Builder
	end := 0.0

	for i, t := range row {
		if i > 0 && t.X-end > cellGap {
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		}
		cell.WriteString(t.S)
		if t.X+t.W > end {
			end = t.X + t.W
		}
	}
	if s := strings.TrimSpace(cell.String()); s != "" || len(cells) > 0 {
		cells = append(cells, s)
	}
	return cells
}
