package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfc974-droid/order-management-system/orders"
	"github.com/jfc974-droid/order-management-system/orders/store"
)

// =============================================================================
// MEMORY WORKBOOK
// =============================================================================

func TestMemory_WriteReadAppend(t *testing.T) {
	ctx := context.Background()
	wb := store.NewMemory()

	// GIVEN: A new sheet
	existed, err := orders.EnsureSheet(ctx, wb, "MASTER")
	require.NoError(t, err)
	assert.False(t, existed)
	existed, err = orders.EnsureSheet(ctx, wb, "MASTER")
	require.NoError(t, err)
	assert.True(t, existed)

	// WHEN: Writing two rows, overwriting one cell, then appending
	require.NoError(t, wb.Write(ctx, "MASTER", 0, []orders.Row{{"h1", "h2"}, {"a", "b"}}))
	require.NoError(t, wb.Write(ctx, "MASTER", 1, []orders.Row{{"A"}}))
	require.NoError(t, wb.Append(ctx, "MASTER", []orders.Row{{"c"}}))

	// THEN: Untouched cells survive and Append goes after the last row
	rows, err := wb.Read(ctx, "MASTER")
	require.NoError(t, err)
	assert.Equal(t, []orders.Row{{"h1", "h2"}, {"A", "b"}, {"c"}}, rows)

	rows[0][0] = "mutated"
	again, _ := wb.Read(ctx, "MASTER")
	assert.Equal(t, "h1", again[0][0], "Read must return a copy")
}

func TestMemory_UnknownSheet(t *testing.T) {
	ctx := context.Background()
	wb := store.NewMemory()

	_, err := wb.Read(ctx, "nope")
	assert.ErrorIs(t, err, orders.ErrSheetNotFound)
	assert.ErrorIs(t, wb.Clear(ctx, "nope"), orders.ErrSheetNotFound)
	assert.ErrorIs(t, wb.Format(ctx, "nope", nil), orders.ErrSheetNotFound)

	require.NoError(t, wb.AddSheet(ctx, "x"))
	assert.ErrorIs(t, wb.AddSheet(ctx, "x"), orders.ErrSheetExists)
}

func TestMemory_FormatsAndReset(t *testing.T) {
	ctx := context.Background()
	wb := store.NewMemoryWith([]string{"B", "A"}, map[string][]orders.Row{"A": {{"1"}}})

	names, err := wb.Sheets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, names)

	req := orders.FormatRequest{Range: orders.RowRange(0, 1), Format: orders.CellFormat{Bold: true}}
	require.NoError(t, wb.Format(ctx, "A", []orders.FormatRequest{req}))
	assert.Equal(t, []orders.FormatRequest{req}, wb.Formats("A"))

	require.NoError(t, wb.Reset(ctx))
	names, _ = wb.Sheets(ctx)
	assert.Empty(t, names)
}
