package gworkspace

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jfc974-droid/order-management-system/orders"
)

// =============================================================================
// SHEETS WORKBOOK - orders.Workbook over one Google spreadsheet
// =============================================================================

const mimeSpreadsheet = "application/vnd.google-apps.spreadsheet"

// New sheets get the spreadsheet UI's default grid size.
const (
	newSheetRows = 1000
	newSheetCols = 26
)

type Workbook struct {
	svc           *sheets.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64
	order    []string
}

// OpenWorkbook opens a spreadsheet by ID, or by exact title via Drive when id
// is empty.
func OpenWorkbook(ctx context.Context, client *http.Client, id, title string) (*Workbook, error) {
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}
	if id == "" {
		id, err = findSpreadsheet(ctx, client, title)
		if err != nil {
			return nil, err
		}
	}
	return &Workbook{svc: svc, spreadsheetID: id}, nil
}

func findSpreadsheet(ctx context.Context, client *http.Client, title string) (string, error) {
	d, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", fmt.Errorf("failed to create Drive service: %w", err)
	}
	q := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false", escapeQuery(title), mimeSpreadsheet)
	res, err := d.Files.List().Q(q).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("find spreadsheet %q: %w", title, err)
	}
	if len(res.Files) == 0 {
		return "", &orders.PrerequisiteError{Name: title, Err: orders.ErrFileNotFound}
	}
	return res.Files[0].Id, nil
}

// ID returns the spreadsheet ID.
func (w *Workbook) ID() string { return w.spreadsheetID }

func (w *Workbook) Sheets(ctx context.Context) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.refreshLocked(ctx); err != nil {
		return nil, err
	}
	return append([]string(nil), w.order...), nil
}

func (w *Workbook) refreshLocked(ctx context.Context) error {
	ss, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("list sheets: %w", err)
	}
	w.sheetIDs = make(map[string]int64, len(ss.Sheets))
	w.order = w.order[:0]
	for _, sh := range ss.Sheets {
		w.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
		w.order = append(w.order, sh.Properties.Title)
	}
	return nil
}

// sheetID resolves a title, refreshing the cache once on a miss.
func (w *Workbook) sheetID(ctx context.Context, sheet string) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if id, ok := w.sheetIDs[sheet]; ok {
		return id, nil
	}
	if err := w.refreshLocked(ctx); err != nil {
		return 0, err
	}
	if id, ok := w.sheetIDs[sheet]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: %s", orders.ErrSheetNotFound, sheet)
}

func (w *Workbook) Read(ctx context.Context, sheet string) ([]orders.Row, error) {
	if _, err := w.sheetID(ctx, sheet); err != nil {
		return nil, err
	}
	resp, err := w.svc.Spreadsheets.Values.Get(w.spreadsheetID, quote(sheet)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheet, err)
	}
	out := make([]orders.Row, len(resp.Values))
	for i, vals := range resp.Values {
		row := make(orders.Row, len(vals))
		for j, v := range vals {
			row[j] = fmt.Sprint(v)
		}
		out[i] = row
	}
	return out, nil
}

func (w *Workbook) Write(ctx context.Context, sheet string, startRow int, rows []orders.Row) error {
	if _, err := w.sheetID(ctx, sheet); err != nil {
		return err
	}
	rng := fmt.Sprintf("%s!A%d", quote(sheet), startRow+1)
	_, err := w.svc.Spreadsheets.Values.Update(w.spreadsheetID, rng, valueRange(rows)).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write %s: %w", rng, err)
	}
	return nil
}

func (w *Workbook) Append(ctx context.Context, sheet string, rows []orders.Row) error {
	if _, err := w.sheetID(ctx, sheet); err != nil {
		return err
	}
	_, err := w.svc.Spreadsheets.Values.Append(w.spreadsheetID, quote(sheet)+"!A1", valueRange(rows)).
		ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", sheet, err)
	}
	return nil
}

func (w *Workbook) Clear(ctx context.Context, sheet string) error {
	if _, err := w.sheetID(ctx, sheet); err != nil {
		return err
	}
	_, err := w.svc.Spreadsheets.Values.Clear(w.spreadsheetID, quote(sheet), &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", sheet, err)
	}
	return nil
}

func (w *Workbook) AddSheet(ctx context.Context, sheet string) error {
	if _, err := w.sheetID(ctx, sheet); err == nil {
		return fmt.Errorf("%w: %s", orders.ErrSheetExists, sheet)
	}
	req := &sheets.Request{AddSheet: &sheets.AddSheetRequest{
		Properties: &sheets.SheetProperties{
			Title:          sheet,
			GridProperties: &sheets.GridProperties{RowCount: newSheetRows, ColumnCount: newSheetCols},
		},
	}}
	resp, err := w.batch(ctx, []*sheets.Request{req})
	if err != nil {
		return fmt.Errorf("add sheet %s: %w", sheet, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sheetIDs == nil {
		w.sheetIDs = make(map[string]int64)
	}
	if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil {
		w.sheetIDs[sheet] = resp.Replies[0].AddSheet.Properties.SheetId
		w.order = append(w.order, sheet)
	}
	return nil
}

// Format sends every request as a repeatCell in one batchUpdate.
func (w *Workbook) Format(ctx context.Context, sheet string, reqs []orders.FormatRequest) error {
	if len(reqs) == 0 {
		return nil
	}
	id, err := w.sheetID(ctx, sheet)
	if err != nil {
		return err
	}
	batch := make([]*sheets.Request, 0, len(reqs))
	for _, r := range reqs {
		format, fields := cellFormat(r.Format)
		batch = append(batch, &sheets.Request{RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          id,
				StartRowIndex:    int64(r.Range.StartRow),
				EndRowIndex:      int64(r.Range.EndRow),
				StartColumnIndex: int64(r.Range.StartCol),
				EndColumnIndex:   int64(r.Range.EndCol),
			},
			Cell:   &sheets.CellData{UserEnteredFormat: format},
			Fields: fields,
		}})
	}
	if _, err := w.batch(ctx, batch); err != nil {
		return fmt.Errorf("format %s: %w", sheet, err)
	}
	return nil
}

func (w *Workbook) AutoResize(ctx context.Context, sheet string, from, to int) error {
	id, err := w.sheetID(ctx, sheet)
	if err != nil {
		return err
	}
	req := &sheets.Request{AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
		Dimensions: &sheets.DimensionRange{
			SheetId:    id,
			Dimension:  "COLUMNS",
			StartIndex: int64(from),
			EndIndex:   int64(to),
		},
	}}
	if _, err := w.batch(ctx, []*sheets.Request{req}); err != nil {
		return fmt.Errorf("resize %s: %w", sheet, err)
	}
	return nil
}

func (w *Workbook) batch(ctx context.Context, reqs []*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error) {
	return w.svc.Spreadsheets.BatchUpdate(w.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
}

// =============================================================================
// HELPERS
// =============================================================================

func quote(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}

func valueRange(rows []orders.Row) *sheets.ValueRange {
	vals := make([][]interface{}, len(rows))
	for i, row := range rows {
		vals[i] = make([]interface{}, len(row))
		for j, c := range row {
			vals[i][j] = c
		}
	}
	return &sheets.ValueRange{Values: vals}
}

func cellFormat(f orders.CellFormat) (*sheets.CellFormat, string) {
	out := &sheets.CellFormat{}
	var fields []string
	if f.Background != nil {
		out.BackgroundColor = color(*f.Background)
		fields = append(fields, "userEnteredFormat.backgroundColor")
	}
	if f.Bold || f.Foreground != nil || f.FontSize > 0 {
		out.TextFormat = &sheets.TextFormat{Bold: f.Bold, FontSize: int64(f.FontSize)}
		if f.Foreground != nil {
			out.TextFormat.ForegroundColor = color(*f.Foreground)
		}
		fields = append(fields, "userEnteredFormat.textFormat")
	}
	if f.Align != "" {
		out.HorizontalAlignment = f.Align
		fields = append(fields, "userEnteredFormat.horizontalAlignment")
	}
	return out, strings.Join(fields, ",")
}

func color(c orders.Color) *sheets.Color {
	return &sheets.Color{Red: c.Red, Green: c.Green, Blue: c.Blue}
}

// escapeQuery escapes a value for a Drive query string literal.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}
