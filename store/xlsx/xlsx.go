// Package xlsx implements orders.Workbook over an Excel file using excelize.
// Every mutating call saves the file, so a crash part-way leaves the writes
// made so far on disk, the same as the remote spreadsheet.
package xlsx

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/jfc974-droid/order-management-system/orders"
)

// defaultSheet is the sheet excelize creates in a new file.
const defaultSheet = "Sheet1"

type Workbook struct {
	mu   sync.Mutex
	path string
	f    *excelize.File
}

// Open opens path, or starts an empty workbook when the file does not exist
// yet. An empty path keeps the workbook in memory only.
func Open(path string) (*Workbook, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			f, err := excelize.OpenFile(path)
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", path, err)
			}
			return &Workbook{path: path, f: f}, nil
		}
	}
	return &Workbook{path: path, f: excelize.NewFile()}, nil
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

func (w *Workbook) Sheets(_ context.Context) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sheetsLocked(), nil
}

// sheetsLocked hides the placeholder sheet of a new file while it is empty.
func (w *Workbook) sheetsLocked() []string {
	var out []string
	for _, name := range w.f.GetSheetList() {
		if name == defaultSheet && len(w.f.GetSheetList()) > 1 {
			if rows, _ := w.f.GetRows(name); len(rows) == 0 {
				continue
			}
		}
		out = append(out, name)
	}
	return out
}

func (w *Workbook) has(sheet string) bool {
	for _, name := range w.f.GetSheetList() {
		if name == sheet {
			return true
		}
	}
	return false
}

func (w *Workbook) Read(_ context.Context, sheet string) ([]orders.Row, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.has(sheet) {
		return nil, fmt.Errorf("%w: %s", orders.ErrSheetNotFound, sheet)
	}
	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
	}
	out := make([]orders.Row, len(rows))
	for i, r := range rows {
		out[i] = orders.Row(r)
	}
	return out, nil
}

func (w *Workbook) Write(_ context.Context, sheet string, startRow int, rows []orders.Row) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.has(sheet) {
		return fmt.Errorf("%w: %s", orders.ErrSheetNotFound, sheet)
	}
	if err := w.setRows(sheet, startRow, rows); err != nil {
		return err
	}
	return w.save()
}

func (w *Workbook) setRows(sheet string, startRow int, rows []orders.Row) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, startRow+i+1)
		if err != nil {
			return err
		}
		values := []string(row)
		if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d of %q: %w", startRow+i, sheet, err)
		}
	}
	return nil
}

func (w *Workbook) Append(_ context.Context, sheet string, rows []orders.Row) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.has(sheet) {
		return fmt.Errorf("%w: %s", orders.ErrSheetNotFound, sheet)
	}
	existing, err := w.f.GetRows(sheet)
	if err != nil {
		return err
	}
	next := len(existing)
	for next > 0 && blank(existing[next-1]) {
		next--
	}
	if err := w.setRows(sheet, next, rows); err != nil {
		return err
	}
	return w.save()
}

func (w *Workbook) Clear(_ context.Context, sheet string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.has(sheet) {
		return fmt.Errorf("%w: %s", orders.ErrSheetNotFound, sheet)
	}
	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return err
	}
	for i := len(rows); i >= 1; i-- {
		if err := w.f.RemoveRow(sheet, i); err != nil {
			return fmt.Errorf("clear %q: %w", sheet, err)
		}
	}
	return w.save()
}

func (w *Workbook) AddSheet(_ context.Context, sheet string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.has(sheet) {
		return fmt.Errorf("%w: %s", orders.ErrSheetExists, sheet)
	}
	if _, err := w.f.NewSheet(sheet); err != nil {
		return fmt.Errorf("add sheet %q: %w", sheet, err)
	}
	return w.save()
}

// Format creates one excelize style per request.
func (w *Workbook) Format(_ context.Context, sheet string, reqs []orders.FormatRequest) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.has(sheet) {
		return fmt.Errorf("%w: %s", orders.ErrSheetNotFound, sheet)
	}
	lastCol := 1
	if rows, err := w.f.GetRows(sheet); err == nil {
		for _, r := range rows {
			if len(r) > lastCol {
				lastCol = len(r)
			}
		}
	}

	for _, req := range reqs {
		if req.Range.EndRow <= req.Range.StartRow {
			continue
		}
		styleID, err := w.f.NewStyle(toStyle(req.Format))
		if err != nil {
			return fmt.Errorf("new style: %w", err)
		}
		endCol := req.Range.EndCol
		if endCol == 0 {
			endCol = lastCol
		}
		from, err := excelize.CoordinatesToCellName(req.Range.StartCol+1, req.Range.StartRow+1)
		if err != nil {
			return err
		}
		to, err := excelize.CoordinatesToCellName(endCol, req.Range.EndRow)
		if err != nil {
			return err
		}
		if err := w.f.SetCellStyle(sheet, from, to, styleID); err != nil {
			return fmt.Errorf("style %s:%s: %w", from, to, err)
		}
	}
	return w.save()
}

// AutoResize sets each column's width from its longest value.
func (w *Workbook) AutoResize(_ context.Context, sheet string, from, to int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.has(sheet) {
		return fmt.Errorf("%w: %s", orders.ErrSheetNotFound, sheet)
	}
	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return err
	}
	for col := from; col < to; col++ {
		width := 8
		for _, r := range rows {
			if col < len(r) {
				if n := utf8.RuneCountInString(r[col]) + 2; n > width {
					width = n
				}
			}
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := w.f.SetColWidth(sheet, name, name, float64(width)); err != nil {
			return err
		}
	}
	return w.save()
}

func (w *Workbook) save() error {
	if w.path == "" {
		return nil
	}
	if err := w.f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save %s: %w", w.path, err)
	}
	return nil
}

func toStyle(f orders.CellFormat) *excelize.Style {
	s := &excelize.Style{}
	if f.Background != nil {
		s.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hex(*f.Background)}}
	}
	if f.Bold || f.Foreground != nil || f.FontSize > 0 {
		s.Font = &excelize.Font{Bold: f.Bold, Size: float64(f.FontSize)}
		if f.Foreground != nil {
			s.Font.Color = hex(*f.Foreground)
		}
	}
	if f.Align != "" {
		s.Alignment = &excelize.Alignment{Horizontal: strings.ToLower(f.Align)}
	}
	return s
}

func hex(c orders.Color) string {
	return fmt.Sprintf("%02X%02X%02X", channel(c.Red), channel(c.Green), channel(c.Blue))
}

func channel(v float64) int {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return int(v*255 + 0.5)
}

func blank(r []string) bool {
	for _, c := range r {
		if c != "" {
			return false
		}
	}
	return true
}
