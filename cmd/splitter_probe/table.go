package main

import (
	"fmt"
	"io"
	"strings"
)

type column struct {
	header string
	format func(string) string
}

// table prints aligned columns; cell widths ignore ANSI color codes
type table struct {
	columns []column
	rows    [][]string
	widths  []int
}

func newTable(cols ...column) *table {
	t := &table{columns: cols, widths: make([]int, len(cols))}
	for i, c := range cols {
		t.widths[i] = len(c.header)
	}
	return t
}

func (t *table) addRow(cells ...string) {
	row := make([]string, len(t.columns))
	for i := range row {
		row[i] = "-"
		if i < len(cells) && cells[i] != "" {
			row[i] = cells[i]
		}
		if n := visibleLength(row[i]); n > t.widths[i] {
			t.widths[i] = n
		}
	}
	t.rows = append(t.rows, row)
}

func (t *table) render(w io.Writer) {
	cells := make([]string, len(t.columns))
	for i, c := range t.columns {
		cells[i] = pad(c.header, t.widths[i])
	}
	fmt.Fprintln(w, strings.Join(cells, " "))
	for i := range cells {
		cells[i] = strings.Repeat("-", t.widths[i])
	}
	fmt.Fprintln(w, strings.Join(cells, " "))

	for _, row := range t.rows {
		for i, v := range row {
			if f := t.columns[i].format; f != nil {
				v = f(v)
			}
			cells[i] = pad(v, t.widths[i])
		}
		fmt.Fprintln(w, strings.Join(cells, " "))
	}
}

func pad(s string, width int) string {
	if n := visibleLength(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func visibleLength(s string) int {
	length := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			length++
		}
	}
	return length
}
