package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/jfc974-droid/order-management-system/orders"
)

// CombinedTitle heads the all-schools production table.
const CombinedTitle = "ALL SCHOOLS - TOTAL PRODUCTION NEEDED"

// ProductionFileName is Production_Report_<YYYYMMDD_HHMMSS>.pdf.
func ProductionFileName(now time.Time) string {
	return "Production_Report_" + now.Format("20060102_150405") + ".pdf"
}

// =============================================================================
// PDF
// =============================================================================

type rgb struct{ r, g, b int }

var (
	pdfInk       = rgb{0x2d, 0x37, 0x48}
	pdfGrey      = rgb{128, 128, 128}
	pdfWhiteish  = rgb{245, 245, 245}
	pdfLightGrey = rgb{211, 211, 211}
	pdfBeige     = rgb{245, 245, 220}
	pdfGreen     = rgb{0x4C, 0xAF, 0x50}
	pdfWhite     = rgb{255, 255, 255}
	pdfBlack     = rgb{0, 0, 0}
)

// ProductionPDF renders the production report: one table per school
// (alphabetical) and the combined table with a GRAND TOTAL row.
func ProductionPDF(p orders.Production, now time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	setText(pdf, pdfInk)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 14, "Production Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)
	setText(pdf, pdfBlack)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated: "+now.Format(TimestampLayout), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	for _, s := range p.Schools {
		schoolHeading(pdf, tr(s.School))
		table := pdfTable{
			widths: []float64{76, 38, 38},
			header: []string{"Flavor", "Pick-up", "Shipping"},
			headBg: pdfGrey,
			footBg: pdfBeige,
			footFg: pdfBlack,
		}
		for _, f := range s.Flavors {
			table.rows = append(table.rows, []string{tr(f.Flavor), strconv.Itoa(f.Pickup), strconv.Itoa(f.Shipping)})
		}
		table.footer = []string{"TOTAL", strconv.Itoa(s.Pickup), strconv.Itoa(s.Ship)}
		table.draw(pdf)
		pdf.Ln(8)
	}

	schoolHeading(pdf, CombinedTitle)
	combined := pdfTable{
		widths: []float64{64, 33, 33, 33},
		header: []string{"Flavor", "Pick-up", "Shipping", "TOTAL"},
		headBg: pdfInk,
		footBg: pdfGreen,
		footFg: pdfWhiteish,
	}
	for _, f := range p.Flavors {
		combined.rows = append(combined.rows, []string{
			tr(f.Flavor), strconv.Itoa(f.Pickup), strconv.Itoa(f.Shipping), strconv.Itoa(f.Total()),
		})
	}
	combined.footer = []string{"GRAND TOTAL", strconv.Itoa(p.Pickup), strconv.Itoa(p.Ship), strconv.Itoa(p.Total())}
	combined.draw(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render production pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func schoolHeading(pdf *fpdf.Fpdf, title string) {
	setText(pdf, pdfInk)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

type pdfTable struct {
	widths []float64
	header []string
	rows   [][]string
	footer []string
	headBg rgb
	footBg rgb
	footFg rgb
}

func (t pdfTable) draw(pdf *fpdf.Fpdf) {
	pdf.SetDrawColor(0, 0, 0)

	setFill(pdf, t.headBg)
	setText(pdf, pdfWhiteish)
	pdf.SetFont("Helvetica", "B", 12)
	t.line(pdf, t.header, 9)

	pdf.SetFont("Helvetica", "", 11)
	setText(pdf, pdfBlack)
	for i, row := range t.rows {
		if i%2 == 0 {
			setFill(pdf, pdfWhite)
		} else {
			setFill(pdf, pdfLightGrey)
		}
		t.line(pdf, row, 7)
	}

	setFill(pdf, t.footBg)
	setText(pdf, t.footFg)
	pdf.SetFont("Helvetica", "B", 12)
	t.line(pdf, t.footer, 8)
	setText(pdf, pdfBlack)
}

func (t pdfTable) line(pdf *fpdf.Fpdf, cells []string, h float64) {
	for i, c := range cells {
		pdf.CellFormat(t.widths[i], h, c, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func setFill(pdf *fpdf.Fpdf, c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }
func setText(pdf *fpdf.Fpdf, c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }

// =============================================================================
// SHEET LAYOUT
// =============================================================================

var (
	colorSchoolHeader = orders.Color{Red: 0.3, Green: 0.5, Blue: 0.8}
	colorColumnHeader = orders.Color{Red: 0.9, Green: 0.9, Blue: 0.9}
	colorTotals       = orders.Color{Red: 1, Green: 1, Blue: 0.8}
	colorGrand        = orders.Color{Red: 0.2, Green: 0.6, Blue: 0.2}
	colorDarkHeader   = orders.Color{Red: 0.2, Green: 0.2, Blue: 0.2}
)

// ProductionColumns is the number of columns the Production sheet uses.
const ProductionColumns = 4

// ProductionSheet lays the report out as sheet rows plus the format requests
// that style it, all to be applied in one batch.
func ProductionSheet(p orders.Production) ([]orders.Row, []orders.FormatRequest) {
	var rows []orders.Row
	var formats []orders.FormatRequest
	white := orders.White

	for _, s := range p.Schools {
		formats = append(formats, orders.FormatRequest{
			Range:  orders.CellRange(len(rows), 0, 1),
			Format: orders.CellFormat{Background: &colorSchoolHeader, Foreground: &white, Bold: true, FontSize: 14},
		})
		rows = append(rows, orders.Row{s.School})

		formats = append(formats, orders.FormatRequest{
			Range:  orders.CellRange(len(rows), 0, 3),
			Format: orders.CellFormat{Background: &colorColumnHeader, Bold: true, Align: "CENTER"},
		})
		rows = append(rows, orders.Row{"Flavor", "Pick-up", "Shipping"})

		for _, f := range s.Flavors {
			rows = append(rows, orders.Row{f.Flavor, strconv.Itoa(f.Pickup), strconv.Itoa(f.Shipping)})
		}

		formats = append(formats, orders.FormatRequest{
			Range:  orders.CellRange(len(rows), 0, 3),
			Format: orders.CellFormat{Background: &colorTotals, Bold: true},
		})
		rows = append(rows, orders.Row{"TOTAL", strconv.Itoa(s.Pickup), strconv.Itoa(s.Ship)})
		rows = append(rows, orders.Row{})
	}

	formats = append(formats, orders.FormatRequest{
		Range:  orders.CellRange(len(rows), 0, 1),
		Format: orders.CellFormat{Background: &colorGrand, Foreground: &white, Bold: true, FontSize: 14},
	})
	rows = append(rows, orders.Row{CombinedTitle})

	formats = append(formats, orders.FormatRequest{
		Range:  orders.CellRange(len(rows), 0, 4),
		Format: orders.CellFormat{Background: &colorDarkHeader, Foreground: &white, Bold: true, Align: "CENTER"},
	})
	rows = append(rows, orders.Row{"Flavor", "Pick-up", "Shipping", "TOTAL"})

	for _, f := range p.Flavors {
		rows = append(rows, orders.Row{f.Flavor, strconv.Itoa(f.Pickup), strconv.Itoa(f.Shipping), strconv.Itoa(f.Total())})
	}

	formats = append(formats, orders.FormatRequest{
		Range:  orders.CellRange(len(rows), 0, 4),
		Format: orders.CellFormat{Background: &colorGrand, Foreground: &white, Bold: true, FontSize: 12},
	})
	rows = append(rows, orders.Row{"GRAND TOTAL", strconv.Itoa(p.Pickup), strconv.Itoa(p.Ship), strconv.Itoa(p.Total())})

	return rows, formats
}
