package cli

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// table collects rows and writes them with aligned columns. The first
// column is left-aligned, every other column right-aligned.
type table struct {
	header []string
	rows   [][]string
	// styles, when set, decorate a cell after padding so escape codes do
	// not disturb alignment.
	styles map[[2]int]func(string) string
}

func newTable(header ...string) *table {
	return &table{header: header, styles: make(map[[2]int]func(string) string)}
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

// style decorates the cell at column col of the most recently added row.
func (t *table) style(col int, fn func(string) string) {
	t.styles[[2]int{len(t.rows) - 1, col}] = fn
}

func (t *table) widths() []int {
	var widths []int
	measure := func(cells []string) {
		for i, cell := range cells {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.header)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

func (t *table) write(w io.Writer) error {
	widths := t.widths()
	if len(t.header) > 0 {
		if err := t.writeRow(w, -1, t.header, widths); err != nil {
			return err
		}
	}
	for i, row := range t.rows {
		if err := t.writeRow(w, i, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func (t *table) writeRow(w io.Writer, index int, cells []string, widths []int) error {
	var b strings.Builder
	for i, cell := range cells {
		pad := strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell))
		if fn, ok := t.styles[[2]int{index, i}]; ok {
			cell = fn(cell)
		}
		if i > 0 {
			b.WriteString("  ")
			b.WriteString(pad)
			b.WriteString(cell)
			continue
		}
		b.WriteString(cell)
		if len(cells) > 1 {
			b.WriteString(pad)
		}
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}
