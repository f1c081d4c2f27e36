package automation

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jfc974-droid/order-management-system/orders"
	"github.com/jfc974-droid/order-management-system/report"
)

// =============================================================================
// SCHOOL SELECTION
// =============================================================================

// ListSchools returns the schools that have a "<school> MASTER" view, in
// workbook order.
func (r *Runner) ListSchools(ctx context.Context) ([]string, error) {
	sheets, err := r.Workbook.Sheets(ctx)
	if err != nil {
		return nil, err
	}
	var schools []string
	for _, s := range sheets {
		if school, ok := orders.SchoolFromSheet(s); ok {
			schools = append(schools, school)
		}
	}
	if len(schools) == 0 {
		return nil, orders.ErrNoSchoolSheets
	}
	return schools, nil
}

// SelectSchool prints a numbered list and reads a 1-based choice.
func SelectSchool(in io.Reader, out io.Writer, schools []string) (string, error) {
	fmt.Fprintln(out, "\nAvailable schools:")
	for i, s := range schools {
		fmt.Fprintf(out, "  %d. %s\n", i+1, s)
	}
	fmt.Fprint(out, "\nEnter the number of the school you want to process: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("%w: %v", orders.ErrInvalidSelection, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(schools) {
		return "", fmt.Errorf("%w: %q", orders.ErrInvalidSelection, strings.TrimSpace(line))
	}
	return schools[n-1], nil
}

// =============================================================================
// ORDER FORMS
// =============================================================================

// ExportOrderForms fills one template copy per pick-up order of school,
// exports each as PDF, and combines them in grade/student order.
//
// Prerequisites (template, school sheet, at least one pick-up order) are all
// checked before anything is created or deleted. After that, a failure
// leaves whatever was already created in place.
func (r *Runner) ExportOrderForms(ctx context.Context, school string) Result {
	t := r.begin(ctx, "export")
	return t.done(r.exportOrderForms(t, school))
}

type exportPlan struct {
	template orders.File
	orders   []orders.Order
}

func (r *Runner) planExport(t *transcript, school string) (exportPlan, error) {
	if r.Documents == nil || r.Files == nil {
		return exportPlan{}, errors.New("no document backend configured")
	}

	name := r.Config.Template.Name
	tmpl, found, err := r.Files.Find(t.ctx, name, orders.MimeDocument, "")
	if err != nil {
		return exportPlan{}, err
	}
	if !found {
		return exportPlan{}, &orders.PrerequisiteError{Name: name, Err: orders.ErrTemplateNotFound}
	}
	t.printf("Found template")

	sheet := school + orders.SchoolSheetSuffix
	table, err := r.Workbook.Read(t.ctx, sheet)
	if errors.Is(err, orders.ErrSheetNotFound) {
		return exportPlan{}, &orders.PrerequisiteError{Name: sheet, Err: orders.ErrSheetNotFound}
	}
	if err != nil {
		return exportPlan{}, err
	}
	var rows []orders.Row
	if len(table) > 1 {
		rows = table[1:]
	}
	t.printf("Found %d rows in %s", len(rows), sheet)

	grouped := orders.GroupOrders(rows, orders.SchoolSheetSchema, orders.PickupAtSchool)
	if len(grouped) == 0 {
		return exportPlan{}, &orders.PrerequisiteError{Name: school, Err: orders.ErrNoPickupOrders}
	}
	t.printf("Grouped into %d unique orders", len(grouped))

	sorted := orders.SortOrders(grouped)
	t.printf("")
	t.printf("Orders sorted by grade then student name:")
	for _, o := range sorted {
		t.printf("  Grade %s: %s (Order #%s)", o.Grade, o.Student, o.Number)
	}
	return exportPlan{template: tmpl, orders: sorted}, nil
}

type exportFolders struct {
	main, docs, pdfs orders.File
}

func (r *Runner) ensureFolders(t *transcript, school string) (exportFolders, error) {
	var f exportFolders
	var err error
	ensure := func(name, parent string) (orders.File, error) {
		folder, found, err := orders.EnsureFolder(t.ctx, r.Files, name, parent)
		if err != nil {
			return orders.File{}, err
		}
		if found {
			t.printf("Found '%s' folder", name)
		} else {
			t.printf("Created '%s' folder", name)
		}
		return folder, nil
	}

	t.printf("")
	t.printf("Setting up folders...")
	if f.main, err = ensure(school+" Orders", ""); err != nil {
		return f, err
	}
	if f.docs, err = ensure(school+" Individual Documents", f.main.ID); err != nil {
		return f, err
	}
	if f.pdfs, err = ensure(school+" PDFs", f.main.ID); err != nil {
		return f, err
	}
	return f, nil
}

func (r *Runner) clearFolder(t *transcript, folder orders.File, what string) error {
	files, err := r.Files.List(t.ctx, folder.ID)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := r.Files.Delete(t.ctx, f.ID); err != nil {
			return err
		}
	}
	t.printf("Deleted %d old %s", len(files), what)
	return nil
}

func (r *Runner) exportOrderForms(t *transcript, school string) error {
	plan, err := r.planExport(t, school)
	if err != nil {
		return err
	}

	folders, err := r.ensureFolders(t, school)
	if err != nil {
		return err
	}

	t.printf("")
	t.printf("Cleaning up old files...")
	if err := r.clearFolder(t, folders.docs, "documents"); err != nil {
		return err
	}
	if err := r.clearFolder(t, folders.pdfs, "PDFs"); err != nil {
		return err
	}

	t.printf("")
	t.printf("Creating individual order documents...")
	pdfs := make([][]byte, 0, len(plan.orders))
	for i, o := range plan.orders {
		t.printf("  Creating document for order #%s (%d/%d)...", o.Number, i+1, len(plan.orders))
		pdf, err := r.fillOrderForm(t, plan.template, folders.docs, o)
		if err != nil {
			return fmt.Errorf("order #%s: %w", o.Number, err)
		}
		pdfs = append(pdfs, pdf)
	}
	t.printf("Created %d individual documents", len(plan.orders))

	t.printf("")
	t.printf("Combining PDFs in sorted order...")
	combined, err := report.MergePDFs(pdfs)
	if err != nil {
		return err
	}
	if _, err := r.writeFile(t, report.CombinedFileName(school), combined); err != nil {
		return err
	}
	t.printf("Combined PDF created: %s", report.CombinedFileName(school))

	if r.Config.Export.Upload {
		uploadName := report.CombinedUploadName(school)
		f, err := r.Files.Upload(t.ctx, uploadName, folders.pdfs.ID, orders.MimePDF, combined)
		if err != nil {
			return err
		}
		t.printf("Uploaded '%s' to '%s'", uploadName, folders.pdfs.Name)
		t.printf("View combined PDF: %s", f.WebViewLink)
	}

	t.printf("")
	t.printf("COMPLETE! %d documents in '%s'", len(plan.orders), folders.docs.Name)
	return nil
}

// fillOrderForm copies the template for one order, fills it, files it in
// the documents folder and returns its PDF.
func (r *Runner) fillOrderForm(t *transcript, tmpl, docsFolder orders.File, o orders.Order) ([]byte, error) {
	maxItems := r.Config.Template.MaxItems
	if maxItems <= 0 {
		maxItems = report.DefaultMaxItems
	}

	docID, err := r.Documents.Copy(t.ctx, tmpl.ID, report.OrderDocTitle(o))
	if err != nil {
		return nil, err
	}
	if err := r.Documents.ReplaceAll(t.ctx, docID, report.OrderReplacements(o, maxItems)); err != nil {
		return nil, err
	}

	table, found, err := r.Documents.FindTable(t.ctx, docID, report.ItemsTableMarkers...)
	if err != nil {
		return nil, err
	}
	if found {
		if err := r.Documents.InsertText(t.ctx, docID, table.EndIndex, report.OrderSummary(o), report.SummaryStyle); err != nil {
			return nil, err
		}
		// Look the table up again: the insert may have shifted offsets.
		table, found, err = r.Documents.FindTable(t.ctx, docID, report.ItemsTableMarkers...)
		if err != nil {
			return nil, err
		}
	}
	if found {
		rowIndex, count := report.UnusedItemRows(table.Rows, len(o.Items), maxItems)
		if count > 0 {
			if err := r.Documents.DeleteTableRows(t.ctx, docID, table, rowIndex, count); err != nil {
				return nil, err
			}
		}
	}

	if err := r.Files.Move(t.ctx, docID, docsFolder.ID); err != nil {
		return nil, err
	}
	return r.Documents.ExportPDF(t.ctx, docID)
}
