/*
workbook.go - Interfaces to the external collaborators

PURPOSE:
  Defines the boundary between the pipeline and the outside world. The
  pipeline only ever reads a whole sheet, writes rows back, and asks a
  document/file backend to copy, fill, export and store order forms.
  Different implementations talk to Google Workspace, a SQLite file, an Excel
  file, or memory.

KEY INTERFACES:
  Workbook:  spreadsheet tables (read all rows, write, append, clear, add
             sheet, batched cell formatting, auto-resize)
  Documents: template documents (copy, replace placeholders, locate a table,
             insert styled text, delete table rows, export PDF, delete)
  Files:     file storage (find, create folder, list, upload, move, delete)

CALL DISCIPLINE:
  Every call is synchronous and issued one at a time. Nothing here is
  transactional: a failure part-way leaves earlier writes in place. Format
  takes a whole slice so backends can submit it as one batched request; the
  batching is for request count, not atomicity.

IMPLEMENTATIONS:
  - orders/store/memory.go:  Workbook in memory (tests, demos)
  - orders/store/drive.go:   Documents + Files in memory
  - store/sqlite/sqlite.go:  Workbook in a SQLite file
  - store/xlsx/xlsx.go:      Workbook in an .xlsx file
  - gworkspace/:             Google Sheets, Docs and Drive

SEE ALSO:
  - automation/: the only caller
*/
package orders

import "context"

// =============================================================================
// WORKBOOK - Spreadsheet tables
// =============================================================================

// Workbook is a spreadsheet: an ordered set of named sheets of string rows.
type Workbook interface {
	// Sheets lists sheet names in workbook order.
	Sheets(ctx context.Context) ([]string, error)

	// Read returns every row of sheet; row 0 is the header. Rows may be
	// ragged. Returns ErrSheetNotFound for an unknown sheet.
	Read(ctx context.Context, sheet string) ([]Row, error)

	// Write overwrites rows starting at the given zero-based row, column A.
	Write(ctx context.Context, sheet string, startRow int, rows []Row) error

	// Append adds rows after the last non-empty row.
	Append(ctx context.Context, sheet string, rows []Row) error

	// Clear removes every value from sheet, keeping the sheet.
	Clear(ctx context.Context, sheet string) error

	// AddSheet creates an empty sheet. Returns ErrSheetExists if taken.
	AddSheet(ctx context.Context, sheet string) error

	// Format applies all requests to sheet as one batch.
	Format(ctx context.Context, sheet string, reqs []FormatRequest) error

	// AutoResize fits the width of columns [from, to) to their content.
	AutoResize(ctx context.Context, sheet string, from, to int) error
}

// Color is an RGB color with components in [0, 1].
type Color struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
}

// White is the foreground of dark header rows.
var White = Color{Red: 1, Green: 1, Blue: 1}

// CellFormat is the subset of cell formatting the reports use.
type CellFormat struct {
	Background *Color `json:"background,omitempty"`
	Foreground *Color `json:"foreground,omitempty"`
	Bold       bool   `json:"bold,omitempty"`
	FontSize   int    `json:"font_size,omitempty"`
	Align      string `json:"align,omitempty"` // "", "LEFT", "CENTER", "RIGHT"
}

// GridRange is a zero-based, end-exclusive block of cells. EndCol 0 means
// "to the last column".
type GridRange struct {
	StartRow int `json:"start_row"`
	EndRow   int `json:"end_row"`
	StartCol int `json:"start_col"`
	EndCol   int `json:"end_col"`
}

// RowRange covers whole rows [start, end).
func RowRange(start, end int) GridRange {
	return GridRange{StartRow: start, EndRow: end}
}

// CellRange covers rows [row, row+1) and columns [fromCol, toCol).
func CellRange(row, fromCol, toCol int) GridRange {
	return GridRange{StartRow: row, EndRow: row + 1, StartCol: fromCol, EndCol: toCol}
}

// FormatRequest applies Format to every cell of Range.
type FormatRequest struct {
	Range  GridRange  `json:"range"`
	Format CellFormat `json:"format"`
}

// EnsureSheet returns whether sheet already existed, adding it if not.
func EnsureSheet(ctx context.Context, wb Workbook, sheet string) (existed bool, err error) {
	names, err := wb.Sheets(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == sheet {
			return true, nil
		}
	}
	return false, wb.AddSheet(ctx, sheet)
}

// =============================================================================
// DOCUMENTS - Template documents
// =============================================================================

// Replacement is one exact, case-sensitive, replace-all substitution.
type Replacement struct {
	Placeholder string
	Value       string
}

// Table locates a table inside a document by character offsets.
type Table struct {
	StartIndex int64
	EndIndex   int64
	Rows       int
}

// TextStyle is the styling applied to inserted text.
type TextStyle struct {
	Bold       bool
	FontSize   float64
	FontFamily string
	Weight     int64
}

// Documents edits template-based documents.
type Documents interface {
	// Copy duplicates a template and returns the new document ID.
	Copy(ctx context.Context, templateID, title string) (string, error)

	// ReplaceAll performs every replacement over the whole document.
	ReplaceAll(ctx context.Context, docID string, repl []Replacement) error

	// FindTable returns the first table whose text contains every marker.
	FindTable(ctx context.Context, docID string, markers ...string) (Table, bool, error)

	// InsertText inserts styled text at a character offset.
	InsertText(ctx context.Context, docID string, index int64, text string, style TextStyle) error

	// DeleteTableRows deletes count rows at rowIndex. Each deletion shifts
	// the following rows up, so the same index is deleted count times.
	DeleteTableRows(ctx context.Context, docID string, table Table, rowIndex, count int) error

	// ExportPDF renders the document as PDF bytes.
	ExportPDF(ctx context.Context, docID string) ([]byte, error)

	// Delete removes the document.
	Delete(ctx context.Context, docID string) error
}

// =============================================================================
// FILES - File storage
// =============================================================================

const (
	MimeFolder   = "application/vnd.google-apps.folder"
	MimeDocument = "application/vnd.google-apps.document"
	MimePDF      = "application/pdf"
)

// File is a stored file or folder.
type File struct {
	ID          string
	Name        string
	MimeType    string
	WebViewLink string
}

// Files stores folders and files. parentID "" means the root.
type Files interface {
	// Find returns the first file named name with mimeType under parentID.
	// An empty parentID searches everywhere.
	Find(ctx context.Context, name, mimeType, parentID string) (File, bool, error)

	CreateFolder(ctx context.Context, name, parentID string) (File, error)
	List(ctx context.Context, parentID string) ([]File, error)
	Upload(ctx context.Context, name, parentID, mimeType string, data []byte) (File, error)
	Move(ctx context.Context, fileID, parentID string) error
	Delete(ctx context.Context, fileID string) error
}

// EnsureFolder finds a folder by name under parentID, creating it if needed.
func EnsureFolder(ctx context.Context, fs Files, name, parentID string) (File, bool, error) {
	f, found, err := fs.Find(ctx, name, MimeFolder, parentID)
	if err != nil {
		return File{}, false, err
	}
	if found {
		return f, true, nil
	}
	f, err = fs.CreateFolder(ctx, name, parentID)
	return f, false, err
}
