package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/jfc974-droid/order-management-system/orders"
)

// ErrorLogHeader is row 0 of the Error Log sheet and the CSV.
var ErrorLogHeader = orders.Row{"Error Type", "School", "Student Name", "Details", "Suggestion"}

var colorErrorHeader = orders.Color{Red: 0.8, Green: 0.2, Blue: 0.2}

// ErrorLogSheet returns the header plus one row per finding, and the header
// format.
func ErrorLogSheet(findings []orders.Finding) ([]orders.Row, []orders.FormatRequest) {
	rows := make([]orders.Row, 0, len(findings)+1)
	rows = append(rows, ErrorLogHeader)
	for _, f := range findings {
		rows = append(rows, f.Cells())
	}
	white := orders.White
	formats := []orders.FormatRequest{{
		Range: orders.CellRange(0, 0, len(ErrorLogHeader)),
		Format: orders.CellFormat{
			Background: &colorErrorHeader,
			Foreground: &white,
			Bold:       true,
			FontSize:   12,
			Align:      "CENTER",
		},
	}}
	return rows, formats
}

// ErrorLogCSV encodes findings with the Error Log header.
func ErrorLogCSV(findings []orders.Finding) ([]byte, error) {
	if findings == nil {
		findings = []orders.Finding{}
	}
	var buf bytes.Buffer
	if err := gocsv.Marshal(&findings, &buf); err != nil {
		return nil, fmt.Errorf("encode error log: %w", err)
	}
	return buf.Bytes(), nil
}

// ErrorLogFileName is Error_Log_<YYYYMMDD_HHMMSS>.csv.
func ErrorLogFileName(now time.Time) string {
	return "Error_Log_" + now.Format("20060102_150405") + ".csv"
}
