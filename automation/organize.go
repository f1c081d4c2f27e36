package automation

import (
	"context"

	"github.com/jfc974-droid/order-management-system/orders"
)

var schoolHeaderColor = orders.Color{Red: 0.2, Green: 0.2, Blue: 0.2}

// OrganizeSchools color-codes MASTER rows by school and creates or refreshes
// each "<school> MASTER" view. Existing view rows are kept; rows whose order
// number is not on the view yet are added; the whole view is re-sorted by
// order number, highest first.
func (r *Runner) OrganizeSchools(ctx context.Context) Result {
	t := r.begin(ctx, "organize")
	return t.done(r.organize(t))
}

func (r *Runner) organize(t *transcript) error {
	table, err := r.readMaster(t)
	if err != nil {
		return err
	}

	views := orders.BuildSchoolViews(table)
	t.printf("")
	t.printf("Found %d schools", len(views))
	for _, v := range views {
		t.printf("  %s: %d orders", v.School, len(v.Rows))
	}

	var highlights []orders.FormatRequest
	for _, v := range views {
		color := v.Color
		for _, idx := range v.SheetRows {
			highlights = append(highlights, orders.FormatRequest{
				Range:  orders.RowRange(idx, idx+1),
				Format: orders.CellFormat{Background: &color},
			})
		}
	}
	if len(highlights) > 0 {
		if err := r.Workbook.Format(t.ctx, r.Config.Sheets.Master, highlights); err != nil {
			return err
		}
		t.printf("Highlighted %d rows", len(highlights))
	}

	header := orders.SchoolViewHeader(table[0])
	for _, v := range views {
		if err := r.refreshView(t, v, header); err != nil {
			return err
		}
	}

	t.printf("")
	t.printf("COMPLETE! Processed %d schools", len(views))
	return nil
}

func (r *Runner) refreshView(t *transcript, v orders.SchoolView, header orders.Row) error {
	sheet := v.SheetName()
	existed, err := orders.EnsureSheet(t.ctx, r.Workbook, sheet)
	if err != nil {
		return err
	}

	var existing []orders.Row
	if existed {
		current, err := r.Workbook.Read(t.ctx, sheet)
		if err != nil {
			return err
		}
		if len(current) > 1 {
			existing = current[1:]
		}
	}

	all, added := orders.MergeSchoolRows(existing, v.Rows)

	if existed {
		if err := r.Workbook.Clear(t.ctx, sheet); err != nil {
			return err
		}
	}
	if err := r.Workbook.Write(t.ctx, sheet, 0, append([]orders.Row{header}, all...)); err != nil {
		return err
	}
	white := orders.White
	err = r.Workbook.Format(t.ctx, sheet, []orders.FormatRequest{{
		Range:  orders.CellRange(0, 0, len(header)),
		Format: orders.CellFormat{Background: &schoolHeaderColor, Foreground: &white, Bold: true},
	}})
	if err != nil {
		return err
	}

	if !existed {
		t.printf("Created %s with %d orders", sheet, len(all))
		return nil
	}
	if added > 0 {
		t.printf("Added %d new orders to %s", added, sheet)
	}
	t.printf("Sheet re-sorted with %d total orders", len(all))
	return nil
}
