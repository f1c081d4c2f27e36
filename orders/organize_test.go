package orders_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfc974-droid/order-management-system/orders"
)

// =============================================================================
// SCHOOL VIEWS
// =============================================================================

func TestBuildSchoolViews_FirstSeenOrderWithPalette(t *testing.T) {
	// GIVEN: Lincoln, a row without a school, then Adams, then Lincoln again
	table := masterTable(
		line{order: "1", school: "Lincoln", student: "Emma Smith"},
		line{order: "2", school: "", student: "Ghost"},
		line{order: "3", school: "Adams", student: "Ava Fox"},
		line{order: "4", school: " Lincoln ", student: "Noah Lee"},
	)

	// WHEN: Building views
	views := orders.BuildSchoolViews(table)

	// THEN: Two views, colors assigned in order, sheet rows point back at MASTER
	require.Len(t, views, 2)
	assert.Equal(t, "Lincoln", views[0].School)
	assert.Equal(t, "Lincoln MASTER", views[0].SheetName())
	assert.Equal(t, orders.SchoolPalette[0], views[0].Color)
	assert.Equal(t, []int{1, 4}, views[0].SheetRows)
	assert.Equal(t, "Adams", views[1].School)
	assert.Equal(t, orders.SchoolPalette[1], views[1].Color)

	require.Len(t, views[0].Rows, 2)
	assert.Len(t, views[0].Rows[0], len(orders.SchoolViewFields))
	assert.Equal(t, "Emma Smith", orders.SchoolSheetSchema.Cell(views[0].Rows[0], orders.FieldStudent))
}

func TestSchoolFromSheet(t *testing.T) {
	school, ok := orders.SchoolFromSheet("Lincoln MASTER")
	assert.True(t, ok)
	assert.Equal(t, "Lincoln", school)

	_, ok = orders.SchoolFromSheet("MASTER")
	assert.False(t, ok)
	_, ok = orders.SchoolFromSheet("Production")
	assert.False(t, ok)
}

func TestSchoolViewHeader(t *testing.T) {
	header := orders.SchoolViewHeader(orders.MasterSchema.Header(nil))
	assert.Len(t, header, len(orders.SchoolViewFields))
	assert.Equal(t, "A", header[0])
}

// =============================================================================
// MERGING
// =============================================================================

func TestMergeSchoolRows_NewestFirst(t *testing.T) {
	// GIVEN: Orders 3 and 1 on the sheet plus a blank row
	existing := []orders.Row{{"3", "Emma"}, {"", ""}, {"1", "Noah"}}
	incoming := []orders.Row{{"1", "Noah"}, {"10", "Liam"}, {"2", "Ava"}}

	// WHEN: Merging
	all, added := orders.MergeSchoolRows(existing, incoming)

	// THEN: Only 10 and 2 are new; blank rows go; highest number first
	assert.Equal(t, 2, added)
	assert.Equal(t, []orders.Row{{"10", "Liam"}, {"3", "Emma"}, {"2", "Ava"}, {"1", "Noah"}}, all)
}

func TestMergeSchoolRows_RemergeAddsNothing(t *testing.T) {
	incoming := []orders.Row{{"5", "A"}, {"6", "B"}}
	first, added := orders.MergeSchoolRows(nil, incoming)
	require.Equal(t, 2, added)

	second, added := orders.MergeSchoolRows(first, incoming)
	assert.Zero(t, added)
	assert.Equal(t, first, second)
}
