package report

import "strings"

// TextMeasurer reports the rendered width of a string in the renderer's
// units. Layout never touches the drawing surface itself.
type TextMeasurer interface {
	TextWidth(s string) float64
}

const (
	headerPad       = 6
	cellPad         = 4
	lineHeight      = 5
	minRowHeight    = 10
	headerRowHeight = 10
)

// Columns whose content may span multiple lines.
var wrapEligible = map[string]bool{
	"Medications": true,
	"Comments":    true,
}

// Cell is one draw instruction: a bordered rectangle of Width x Height with
// aligned text. Multiline cells carry their pre-wrapped lines in order.
type Cell struct {
	Width     float64
	Height    float64
	Align     string // "C" or "L"
	Border    bool
	Multiline bool
	Lines     []string
}

// Row groups the cells sharing one row height.
type Row struct {
	Height float64
	Cells  []Cell
}

// Plan is the computed table geometry: final column widths plus one draw
// instruction per header and body cell, in draw order.
type Plan struct {
	Widths []float64
	Header Row
	Rows   []Row
}

// Layout computes column widths, wraps the wrap-eligible columns and derives
// row heights. Each column starts at its header width plus padding; a
// wrap-eligible column grows to the widest simulated line at its current
// candidate width, other columns to the widest stringified value.
func Layout(headers []string, rows [][]string, m TextMeasurer) Plan {
	widths := make([]float64, len(headers))
	for i, h := range headers {
		widths[i] = m.TextWidth(h) + headerPad
	}

	for _, row := range rows {
		for i, h := range headers {
			if i >= len(row) || row[i] == "" {
				continue
			}
			if wrapEligible[h] {
				for _, line := range wrapText(row[i], widths[i]-cellPad, m) {
					if w := m.TextWidth(line) + cellPad; w > widths[i] {
						widths[i] = w
					}
				}
			} else if w := m.TextWidth(row[i]) + cellPad; w > widths[i] {
				widths[i] = w
			}
		}
	}

	header := Row{Height: headerRowHeight, Cells: make([]Cell, len(headers))}
	for i, h := range headers {
		header.Cells[i] = Cell{
			Width:  widths[i],
			Height: headerRowHeight,
			Align:  "C",
			Border: true,
			Lines:  []string{h},
		}
	}

	body := make([]Row, 0, len(rows))
	for _, row := range rows {
		body = append(body, layoutRow(headers, widths, row, m))
	}

	return Plan{Widths: widths, Header: header, Rows: body}
}

// layoutRow wraps the row's cells against the final column widths and sizes
// the row to its tallest wrap-eligible cell, floored at the minimum height.
func layoutRow(headers []string, widths []float64, row []string, m TextMeasurer) Row {
	lines := make([][]string, len(headers))
	maxLines := 1
	for i, h := range headers {
		val := ""
		if i < len(row) {
			val = row[i]
		}
		if !wrapEligible[h] {
			lines[i] = []string{val}
			continue
		}
		ls := wrapText(val, widths[i]-cellPad, m)
		if len(ls) == 0 {
			ls = []string{""}
		}
		lines[i] = ls
		if len(ls) > maxLines {
			maxLines = len(ls)
		}
	}

	height := float64(maxLines) * lineHeight
	if height < minRowHeight {
		height = minRowHeight
	}

	out := Row{Height: height, Cells: make([]Cell, len(headers))}
	for i, h := range headers {
		c := Cell{
			Width:  widths[i],
			Height: height,
			Align:  "C",
			Border: true,
			Lines:  lines[i],
		}
		if wrapEligible[h] {
			c.Align = "L"
			c.Multiline = true
		}
		out.Cells[i] = c
	}
	return out
}

// wrapText greedily packs words into lines no wider than maxWidth. A single
// word wider than maxWidth stands alone on its own line and is never split.
func wrapText(text string, maxWidth float64, m TextMeasurer) []string {
	words := strings.Fields(text)
	var lines []string
	current := ""
	for _, word := range words {
		if current == "" {
			current = word
			continue
		}
		candidate := current + " " + word
		if m.TextWidth(candidate) > maxWidth {
			lines = append(lines, current)
			current = word
		} else {
			current = candidate
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
