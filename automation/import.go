package automation

import (
	"context"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/jfc974-droid/order-management-system/orders"
)

// ImportCSV replaces the MASTER sheet with a CSV order export. The header
// is checked against the MASTER layout before anything is written.
func (r *Runner) ImportCSV(ctx context.Context, in io.Reader) Result {
	t := r.begin(ctx, "import")
	return t.done(r.importCSV(t, in))
}

func (r *Runner) importCSV(t *transcript, in io.Reader) error {
	records, err := gocsv.LazyCSVReader(in).ReadAll()
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}
	sheet := r.Config.Sheets.Master
	var header orders.Row
	if len(records) > 0 {
		header = records[0]
	}
	if err := orders.MasterSchema.Validate(sheet, header); err != nil {
		return err
	}

	rows := make([]orders.Row, len(records))
	for i, rec := range records {
		rows[i] = orders.Row(rec)
	}
	t.printf("Read %d rows", len(rows)-1)

	existed, err := orders.EnsureSheet(t.ctx, r.Workbook, sheet)
	if err != nil {
		return err
	}
	if existed {
		if err := r.Workbook.Clear(t.ctx, sheet); err != nil {
			return err
		}
	}
	if err := r.Workbook.Write(t.ctx, sheet, 0, rows); err != nil {
		return err
	}
	t.printf("Imported %d rows into %s", len(rows)-1, sheet)
	return nil
}
