package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"headache-tracker/internal/episode"
)

// Period is the requested report window.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Days is the window length in days, inclusive of both boundaries.
func (p Period) Days() int {
	if p == PeriodMonth {
		return 30
	}
	return 7
}

func (p Period) title() string {
	return strings.ToUpper(string(p)[:1]) + string(p)[1:]
}

// Headers is the fixed report column order.
var Headers = []string{"#", "Date", "Start Time", "Stop Time", "Medications", "Rating", "Comments"}

const pageBreakMargin = 15

// Generator renders episode tables to PDF. Measurement and drawing use two
// separate documents so layout never depends on the drawing cursor.
type Generator struct {
	fontPath string
}

// NewGenerator takes an optional UTF-8 TTF font path. With an empty path the
// built-in Helvetica core font is used (Latin-1 only).
func NewGenerator(fontPath string) *Generator {
	return &Generator{fontPath: fontPath}
}

// Build produces the finished PDF document for the given episodes.
func (g *Generator) Build(episodes []episode.Episode, period Period) ([]byte, error) {
	measure, err := g.newDoc()
	if err != nil {
		return nil, err
	}
	plan := Layout(Headers, tableRows(episodes), pdfMeasurer{measure})

	pdf, err := g.newDoc()
	if err != nil {
		return nil, err
	}
	pdf.SetAutoPageBreak(true, pageBreakMargin)
	pdf.AddPage()

	title := fmt.Sprintf("Headache Report (Last %s)", period.title())
	pdf.CellFormat(200, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(10)

	for _, c := range plan.Header.Cells {
		pdf.CellFormat(c.Width, c.Height, c.Lines[0], "1", 0, c.Align, false, 0, "")
	}
	pdf.Ln(-1)

	for _, row := range plan.Rows {
		y := pdf.GetY()
		for _, c := range row.Cells {
			if c.Multiline {
				x := pdf.GetX()
				pdf.MultiCell(c.Width, lineHeight, strings.Join(c.Lines, "\n"), "1", c.Align, false)
				pdf.SetXY(x+c.Width, y)
				continue
			}
			pdf.CellFormat(c.Width, row.Height, c.Lines[0], "1", 0, c.Align, false, 0, "")
		}
		pdf.Ln(row.Height)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("finalize report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) newDoc() (*fpdf.Fpdf, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	family := "Helvetica"
	if g.fontPath != "" {
		family = "DejaVuSans"
		pdf.AddUTF8Font(family, "", g.fontPath)
	}
	pdf.SetFont(family, "", 12)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("init report font: %w", err)
	}
	return pdf, nil
}

type pdfMeasurer struct{ doc *fpdf.Fpdf }

func (m pdfMeasurer) TextWidth(s string) float64 { return m.doc.GetStringWidth(s) }

func tableRows(episodes []episode.Episode) [][]string {
	rows := make([][]string, 0, len(episodes))
	for i, ep := range episodes {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			ep.Date.Format("2006-01-02"),
			ep.Start.String(),
			ep.Stop.String(),
			ep.Medications,
			strconv.Itoa(ep.Rating),
			ep.Comments,
		})
	}
	return rows
}
