package gworkspace

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf16"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/jfc974-droid/order-management-system/orders"
)

// =============================================================================
// DRIVE - orders.Documents and orders.Files over Google Docs + Drive
// =============================================================================

// Drive implements both orders.Documents and orders.Files. Document copies,
// exports and deletes go through the Drive API; edits through the Docs API.
type Drive struct {
	docs  *docs.Service
	drive *drive.Service
}

func NewDrive(ctx context.Context, client *http.Client) (*Drive, error) {
	d, err := docs.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs service: %w", err)
	}
	f, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}
	return &Drive{docs: d, drive: f}, nil
}

func (d *Drive) Copy(ctx context.Context, templateID, title string) (string, error) {
	f, err := d.drive.Files.Copy(templateID, &drive.File{Name: title}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("copy template: %w", err)
	}
	return f.Id, nil
}

// ReplaceAll issues one replaceAllText per replacement in a single batch.
func (d *Drive) ReplaceAll(ctx context.Context, docID string, repl []orders.Replacement) error {
	reqs := make([]*docs.Request, 0, len(repl))
	for _, r := range repl {
		reqs = append(reqs, &docs.Request{ReplaceAllText: &docs.ReplaceAllTextRequest{
			ContainsText: &docs.SubstringMatchCriteria{Text: r.Placeholder, MatchCase: true},
			ReplaceText:  r.Value,
			// An empty value still has to be sent to clear the placeholder.
			ForceSendFields: []string{"ReplaceText"},
		}})
	}
	return d.update(ctx, docID, reqs)
}

func (d *Drive) FindTable(ctx context.Context, docID string, markers ...string) (orders.Table, bool, error) {
	doc, err := d.docs.Documents.Get(docID).Context(ctx).Do()
	if err != nil {
		return orders.Table{}, false, fmt.Errorf("get document: %w", err)
	}
	if doc.Body == nil {
		return orders.Table{}, false, nil
	}
	for _, el := range doc.Body.Content {
		if el.Table == nil {
			continue
		}
		text := tableText(el.Table)
		all := true
		for _, m := range markers {
			if !strings.Contains(text, m) {
				all = false
				break
			}
		}
		if all {
			return orders.Table{
				StartIndex: el.StartIndex,
				EndIndex:   el.EndIndex,
				Rows:       len(el.Table.TableRows),
			}, true, nil
		}
	}
	return orders.Table{}, false, nil
}

func tableText(t *docs.Table) string {
	var b strings.Builder
	for _, row := range t.TableRows {
		for _, cell := range row.TableCells {
			for _, c := range cell.Content {
				if c.Paragraph == nil {
					continue
				}
				for _, pe := range c.Paragraph.Elements {
					if pe.TextRun != nil {
						b.WriteString(pe.TextRun.Content)
					}
				}
			}
		}
	}
	return b.String()
}

// InsertText inserts text and styles exactly the inserted range. Docs
// indexes count UTF-16 code units.
func (d *Drive) InsertText(ctx context.Context, docID string, index int64, text string, style orders.TextStyle) error {
	end := index + int64(len(utf16.Encode([]rune(text))))
	ts := &docs.TextStyle{Bold: style.Bold}
	fields := []string{"bold"}
	if style.FontSize > 0 {
		ts.FontSize = &docs.Dimension{Magnitude: style.FontSize, Unit: "PT"}
		fields = append(fields, "fontSize")
	}
	if style.FontFamily != "" {
		ts.WeightedFontFamily = &docs.WeightedFontFamily{FontFamily: style.FontFamily, Weight: style.Weight}
		fields = append(fields, "weightedFontFamily")
	}
	return d.update(ctx, docID, []*docs.Request{
		{InsertText: &docs.InsertTextRequest{
			Location: &docs.Location{Index: index},
			Text:     text,
		}},
		{UpdateTextStyle: &docs.UpdateTextStyleRequest{
			Range:     &docs.Range{StartIndex: index, EndIndex: end},
			TextStyle: ts,
			Fields:    strings.Join(fields, ","),
		}},
	})
}

func (d *Drive) DeleteTableRows(ctx context.Context, docID string, table orders.Table, rowIndex, count int) error {
	if count <= 0 {
		return nil
	}
	reqs := make([]*docs.Request, 0, count)
	for i := 0; i < count; i++ {
		reqs = append(reqs, &docs.Request{DeleteTableRow: &docs.DeleteTableRowRequest{
			TableCellLocation: &docs.TableCellLocation{
				TableStartLocation: &docs.Location{Index: table.StartIndex},
				RowIndex:           int64(rowIndex),
				ColumnIndex:        0,
			},
		}})
	}
	return d.update(ctx, docID, reqs)
}

func (d *Drive) ExportPDF(ctx context.Context, docID string) ([]byte, error) {
	resp, err := d.drive.Files.Export(docID, orders.MimePDF).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", docID, err)
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (d *Drive) update(ctx context.Context, docID string, reqs []*docs.Request) error {
	if len(reqs) == 0 {
		return nil
	}
	_, err := d.docs.Documents.BatchUpdate(docID, &docs.BatchUpdateDocumentRequest{Requests: reqs}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update document %s: %w", docID, err)
	}
	return nil
}
