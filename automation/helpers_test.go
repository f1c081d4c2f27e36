package automation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jfc974-droid/order-management-system/automation"
	"github.com/jfc974-droid/order-management-system/config"
	"github.com/jfc974-droid/order-management-system/orders"
	"github.com/jfc974-droid/order-management-system/orders/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var fixedNow = time.Date(2026, 3, 14, 15, 4, 5, 0, time.UTC)

type line struct {
	order, delivery, qty, flavor, price, school, student, grade string
}

func masterTable(lines ...line) []orders.Row {
	table := []orders.Row{orders.MasterSchema.Header(nil)}
	for _, l := range lines {
		table = append(table, orders.MasterSchema.Row(map[orders.Field]string{
			orders.FieldOrderNumber: l.order,
			orders.FieldDelivery:    l.delivery,
			orders.FieldQuantity:    l.qty,
			orders.FieldFlavor:      l.flavor,
			orders.FieldPrice:       l.price,
			orders.FieldBillingName: "Parent of " + l.student,
			orders.FieldSchool:      l.school,
			orders.FieldStudent:     l.student,
			orders.FieldGrade:       l.grade,
		}))
	}
	return table
}

// fundraiser has three schools: Lincoln with two pick-up orders and one
// shipped, Washington with one pick-up order, Adams with only shipping.
func fundraiser() []orders.Row {
	return masterTable(
		line{"1001", orders.PickupAtSchool, "2", "Butter", "10", "Lincoln", "Emma Smith", "3"},
		line{"1001", orders.PickupAtSchool, "1", "Kettle Corn", "8", "Lincoln", "Emma Smith", "3"},
		line{"1002", "Ship to home", "1", "Caramel", "12.50", "Lincoln", "Noah Lee", "K"},
		line{"1003", orders.PickupAtSchool, "2", "Coffee - Dark Roast", "15", "Lincoln", "Liam Park", "1"},
		line{"2001", orders.PickupAtSchool, "1", "Butter", "10", "Washington", "Ava Fox", "2"},
		line{"3001", "Ship to home", "1", "Cheddar", "10", "Adams", "Mia Ruiz", "4"},
	)
}

type fixture struct {
	ctx    context.Context
	cfg    config.Config
	runner *automation.Runner
	wb     *store.Memory
	drive  *store.Drive
}

// newFixture opens a memory backend with MASTER seeded from table.
func newFixture(t *testing.T, table []orders.Row) *fixture {
	t.Helper()
	ctx := context.Background()

	cfg := config.Default()
	cfg.Backend = config.BackendMemory
	cfg.Output.Dir = t.TempDir()

	log := zaptest.NewLogger(t)
	b, err := automation.OpenBackend(ctx, cfg, nil, nil, log)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	wb := b.Workbook.(*store.Memory)
	if table != nil {
		require.NoError(t, wb.AddSheet(ctx, cfg.Sheets.Master))
		require.NoError(t, wb.Write(ctx, cfg.Sheets.Master, 0, table))
	}

	runner := b.Runner(cfg, log)
	runner.Now = func() time.Time { return fixedNow }

	return &fixture{ctx: ctx, cfg: cfg, runner: runner, wb: wb, drive: b.Files.(*store.Drive)}
}

func (f *fixture) read(t *testing.T, sheet string) []orders.Row {
	t.Helper()
	rows, err := f.wb.Read(f.ctx, sheet)
	require.NoError(t, err)
	return rows
}

func (f *fixture) folder(t *testing.T, name string) (orders.File, bool) {
	t.Helper()
	folder, found, err := f.drive.Find(f.ctx, name, orders.MimeFolder, "")
	require.NoError(t, err)
	return folder, found
}

func requireOK(t *testing.T, res automation.Result) {
	t.Helper()
	require.NoError(t, res.Err, "transcript:\n%v", res.Output)
}
