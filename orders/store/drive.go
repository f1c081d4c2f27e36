package store

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"

	"github.com/jfc974-droid/order-management-system/orders"
)

// =============================================================================
// MEMORY DRIVE - Documents + Files in memory
// =============================================================================

// Block is one top-level element of a document body: a paragraph when Cells
// is nil, a table otherwise.
type Block struct {
	Text  string
	Style orders.TextStyle
	Cells [][]string
}

// IsTable reports whether b is a table.
func (b Block) IsTable() bool { return b.Cells != nil }

// Document is the body of a memory document. Character offsets used by
// FindTable and InsertText are block positions: a table at position i spans
// [i, i+1), and inserting at i places a paragraph before block i.
type Document struct {
	Blocks []Block
}

// Text flattens the document, paragraphs and table cells, one per line.
func (d Document) Text() string {
	var b strings.Builder
	for _, blk := range d.Blocks {
		if !blk.IsTable() {
			b.WriteString(blk.Text)
			b.WriteString("\n")
			continue
		}
		for _, row := range blk.Cells {
			b.WriteString(strings.Join(row, "\t"))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (d Document) clone() Document {
	out := Document{Blocks: make([]Block, len(d.Blocks))}
	for i, blk := range d.Blocks {
		out.Blocks[i] = blk
		if blk.Cells != nil {
			out.Blocks[i].Cells = make([][]string, len(blk.Cells))
			for r, row := range blk.Cells {
				out.Blocks[i].Cells[r] = append([]string(nil), row...)
			}
		}
	}
	return out
}

type entry struct {
	file    orders.File
	parents []string
	data    []byte
	doc     *Document
}

// Drive implements orders.Documents and orders.Files in memory.
type Drive struct {
	mu    sync.RWMutex
	order []string
	files map[string]*entry
}

func NewDrive() *Drive {
	return &Drive{files: make(map[string]*entry)}
}

// AddDocument stores a document (e.g. an order template) at the root.
func (d *Drive) AddDocument(name string, doc Document) orders.File {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := doc.clone()
	return d.addLocked(name, orders.MimeDocument, "", nil, &c).file
}

// Document returns a copy of a stored document body.
func (d *Drive) Document(id string) (Document, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.files[id]
	if !ok || e.doc == nil {
		return Document{}, false
	}
	return e.doc.clone(), true
}

// Data returns the content of an uploaded file.
func (d *Drive) Data(id string) ([]byte, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.files[id]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), e.data...), true
}

// Parents returns the parent folder IDs of a file.
func (d *Drive) Parents(id string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if e, ok := d.files[id]; ok {
		return append([]string(nil), e.parents...)
	}
	return nil
}

func (d *Drive) addLocked(name, mime, parent string, data []byte, doc *Document) *entry {
	id := uuid.NewString()
	e := &entry{
		file: orders.File{
			ID:          id,
			Name:        name,
			MimeType:    mime,
			WebViewLink: "memory://" + id,
		},
		data: data,
		doc:  doc,
	}
	if parent != "" {
		e.parents = []string{parent}
	}
	d.files[id] = e
	d.order = append(d.order, id)
	return e
}

func (d *Drive) docLocked(id string) (*entry, error) {
	e, ok := d.files[id]
	if !ok || e.doc == nil {
		return nil, fmt.Errorf("%w: %s", orders.ErrFileNotFound, id)
	}
	return e, nil
}

func hasParent(e *entry, parent string) bool {
	if parent == "" {
		return true
	}
	for _, p := range e.parents {
		if p == parent {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------
// orders.Files
// -----------------------------------------------------------------------------

func (d *Drive) Find(_ context.Context, name, mimeType, parentID string) (orders.File, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, id := range d.order {
		e := d.files[id]
		if e.file.Name == name && e.file.MimeType == mimeType && hasParent(e, parentID) {
			return e.file, true, nil
		}
	}
	return orders.File{}, false, nil
}

func (d *Drive) CreateFolder(_ context.Context, name, parentID string) (orders.File, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addLocked(name, orders.MimeFolder, parentID, nil, nil).file, nil
}

func (d *Drive) List(_ context.Context, parentID string) ([]orders.File, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []orders.File
	for _, id := range d.order {
		if e := d.files[id]; hasParent(e, parentID) {
			out = append(out, e.file)
		}
	}
	return out, nil
}

func (d *Drive) Upload(_ context.Context, name, parentID, mimeType string, data []byte) (orders.File, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addLocked(name, mimeType, parentID, append([]byte(nil), data...), nil).file, nil
}

// Move adds parentID to the file's parents; existing parents are kept.
func (d *Drive) Move(_ context.Context, fileID, parentID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.files[fileID]
	if !ok {
		return fmt.Errorf("%w: %s", orders.ErrFileNotFound, fileID)
	}
	if !hasParent(e, parentID) {
		e.parents = append(e.parents, parentID)
	}
	return nil
}

func (d *Drive) Delete(_ context.Context, fileID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.files[fileID]; !ok {
		return fmt.Errorf("%w: %s", orders.ErrFileNotFound, fileID)
	}
	delete(d.files, fileID)
	for i, id := range d.order {
		if id == fileID {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// orders.Documents
// -----------------------------------------------------------------------------

// Copy duplicates a document; the copy is placed at the root.
func (d *Drive) Copy(_ context.Context, templateID, title string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	src, err := d.docLocked(templateID)
	if err != nil {
		return "", err
	}
	c := src.doc.clone()
	return d.addLocked(title, orders.MimeDocument, "", nil, &c).file.ID, nil
}

func (d *Drive) ReplaceAll(_ context.Context, docID string, repl []orders.Replacement) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, err := d.docLocked(docID)
	if err != nil {
		return err
	}
	for _, r := range repl {
		for i := range e.doc.Blocks {
			blk := &e.doc.Blocks[i]
			blk.Text = strings.ReplaceAll(blk.Text, r.Placeholder, r.Value)
			for _, row := range blk.Cells {
				for c := range row {
					row[c] = strings.ReplaceAll(row[c], r.Placeholder, r.Value)
				}
			}
		}
	}
	return nil
}

func (d *Drive) FindTable(_ context.Context, docID string, markers ...string) (orders.Table, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, err := d.docLocked(docID)
	if err != nil {
		return orders.Table{}, false, err
	}
	for i, blk := range e.doc.Blocks {
		if !blk.IsTable() {
			continue
		}
		text := Document{Blocks: []Block{blk}}.Text()
		all := true
		for _, m := range markers {
			if !strings.Contains(text, m) {
				all = false
				break
			}
		}
		if all {
			return orders.Table{StartIndex: int64(i), EndIndex: int64(i + 1), Rows: len(blk.Cells)}, true, nil
		}
	}
	return orders.Table{}, false, nil
}

func (d *Drive) InsertText(_ context.Context, docID string, index int64, text string, style orders.TextStyle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, err := d.docLocked(docID)
	if err != nil {
		return err
	}
	if index < 0 || index > int64(len(e.doc.Blocks)) {
		return fmt.Errorf("insert index %d out of range", index)
	}
	blocks := append([]Block(nil), e.doc.Blocks[:index]...)
	blocks = append(blocks, Block{Text: text, Style: style})
	e.doc.Blocks = append(blocks, e.doc.Blocks[index:]...)
	return nil
}

func (d *Drive) DeleteTableRows(_ context.Context, docID string, table orders.Table, rowIndex, count int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, err := d.docLocked(docID)
	if err != nil {
		return err
	}
	if table.StartIndex < 0 || table.StartIndex >= int64(len(e.doc.Blocks)) || !e.doc.Blocks[table.StartIndex].IsTable() {
		return fmt.Errorf("no table at index %d", table.StartIndex)
	}
	blk := &e.doc.Blocks[table.StartIndex]
	for n := 0; n < count; n++ {
		if rowIndex >= len(blk.Cells) {
			return fmt.Errorf("table row %d out of range", rowIndex)
		}
		blk.Cells = append(blk.Cells[:rowIndex], blk.Cells[rowIndex+1:]...)
	}
	return nil
}

// ExportPDF renders the document with fpdf: paragraphs as text, tables as
// bordered cells.
func (d *Drive) ExportPDF(_ context.Context, docID string) ([]byte, error) {
	d.mu.RLock()
	e, err := d.docLocked(docID)
	if err != nil {
		d.mu.RUnlock()
		return nil, err
	}
	doc := e.doc.clone()
	d.mu.RUnlock()

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, blk := range doc.Blocks {
		if !blk.IsTable() {
			style := ""
			size := 11.0
			if blk.Style.Bold {
				style = "B"
			}
			if blk.Style.FontSize > 0 {
				size = blk.Style.FontSize
			}
			pdf.SetFont("Helvetica", style, size)
			pdf.MultiCell(0, 6, tr(strings.Trim(blk.Text, "\n")), "", "L", false)
			continue
		}
		pdf.SetFont("Helvetica", "", 11)
		for _, row := range blk.Cells {
			if len(row) == 0 {
				continue
			}
			w := 190.0 / float64(len(row))
			for _, cell := range row {
				pdf.CellFormat(w, 7, tr(cell), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
