package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfc974-droid/order-management-system/orders"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err, "Failed to create store")
	t.Cleanup(func() { s.Close() })
	return s
}

// =============================================================================
// WORKBOOK
// =============================================================================

func TestStore_SheetsInCreationOrder(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.AddSheet(ctx, "MASTER"))
	require.NoError(t, s.AddSheet(ctx, "Production"))
	assert.ErrorIs(t, s.AddSheet(ctx, "MASTER"), orders.ErrSheetExists)

	names, err := s.Sheets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"MASTER", "Production"}, names)
}

func TestStore_WriteKeepsRowIndexes(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.AddSheet(ctx, "MASTER"))

	// GIVEN: A header and a row written with a gap in between
	require.NoError(t, s.Write(ctx, "MASTER", 0, []orders.Row{{"Order", "Name", ""}}))
	require.NoError(t, s.Write(ctx, "MASTER", 2, []orders.Row{{"7", "Emma"}}))

	// WHEN: Overwriting the first cell of row 2
	require.NoError(t, s.Write(ctx, "MASTER", 2, []orders.Row{{"8"}}))

	// THEN: The gap reads as an empty row; trailing blanks are trimmed
	rows, err := s.Read(ctx, "MASTER")
	require.NoError(t, err)
	assert.Equal(t, []orders.Row{{"Order", "Name"}, {}, {"8", "Emma"}}, rows)
}

func TestStore_AppendAfterLastNonEmptyRow(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.ImportRows(ctx, "Log", []orders.Row{{"h"}, {"a"}, {""}}))

	require.NoError(t, s.Append(ctx, "Log", []orders.Row{{"b"}}))

	rows, err := s.Read(ctx, "Log")
	require.NoError(t, err)
	assert.Equal(t, []orders.Row{{"h"}, {"a"}, {"b"}}, rows)
}

func TestStore_ClearKeepsSheet(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.ImportRows(ctx, "MASTER", []orders.Row{{"h"}, {"a"}}))

	require.NoError(t, s.Clear(ctx, "MASTER"))

	rows, err := s.Read(ctx, "MASTER")
	require.NoError(t, err)
	assert.Empty(t, rows)
	_, err = s.Read(ctx, "missing")
	assert.ErrorIs(t, err, orders.ErrSheetNotFound)
}

func TestStore_FormatsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.AddSheet(ctx, "Production"))

	bg := orders.Color{Red: 0.2, Green: 0.4, Blue: 0.6}
	reqs := []orders.FormatRequest{
		{Range: orders.RowRange(0, 1), Format: orders.CellFormat{Background: &bg, Foreground: &orders.White, Bold: true}},
		{Range: orders.CellRange(3, 0, 4), Format: orders.CellFormat{Align: "CENTER"}},
	}
	require.NoError(t, s.Format(ctx, "Production", reqs))
	require.NoError(t, s.AutoResize(ctx, "Production", 0, 5))

	got, err := s.Formats(ctx, "Production")
	require.NoError(t, err)
	assert.Equal(t, reqs, got)
}

func TestStore_ClearDropsFormats(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.ImportRows(ctx, "MASTER", []orders.Row{{"h"}, {"a"}}))
	require.NoError(t, s.AddSheet(ctx, "Log"))
	reqs := []orders.FormatRequest{{Range: orders.RowRange(0, 1), Format: orders.CellFormat{Bold: true}}}

	// GIVEN: Formats saved on two sheets
	require.NoError(t, s.Format(ctx, "MASTER", reqs))
	require.NoError(t, s.Format(ctx, "Log", reqs))

	// WHEN: Clearing one sheet and formatting it again
	require.NoError(t, s.Clear(ctx, "MASTER"))
	require.NoError(t, s.Format(ctx, "MASTER", reqs))

	// THEN: Only the latest formats remain; the other sheet is untouched
	got, err := s.Formats(ctx, "MASTER")
	require.NoError(t, err)
	assert.Equal(t, reqs, got)
	got, err = s.Formats(ctx, "Log")
	require.NoError(t, err)
	assert.Equal(t, reqs, got)
}

func TestStore_FormatSameRangeReplaces(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.ImportRows(ctx, "MASTER", []orders.Row{{"h"}, {"a"}, {"b"}}))

	// GIVEN: Row highlights applied by one run
	blue := orders.Color{Blue: 1}
	red := orders.Color{Red: 1}
	first := []orders.FormatRequest{
		{Range: orders.RowRange(1, 2), Format: orders.CellFormat{Background: &blue}},
		{Range: orders.RowRange(2, 3), Format: orders.CellFormat{Background: &blue}},
	}
	require.NoError(t, s.Format(ctx, "MASTER", first))

	// WHEN: A second run highlights row 1 again with another color
	require.NoError(t, s.Format(ctx, "MASTER", []orders.FormatRequest{
		{Range: orders.RowRange(1, 2), Format: orders.CellFormat{Background: &red}},
	}))

	// THEN: One format per range, the latest one wins
	got, err := s.Formats(ctx, "MASTER")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, red, *got[0].Format.Background)
	assert.Equal(t, first[1], got[1])
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.ImportRows(ctx, "MASTER", []orders.Row{{"h"}}))

	require.NoError(t, s.Reset(ctx))

	names, err := s.Sheets(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}
