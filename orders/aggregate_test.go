package orders_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfc974-droid/order-management-system/orders"
)

// =============================================================================
// SALES
// =============================================================================

func TestBuildSales_Lincoln(t *testing.T) {
	// GIVEN: Emma orders twice (grade 3, then grade 4), Noah once
	recs := orders.NormalizeAll(lincoln(), orders.MasterSchema)

	// WHEN: Building sales
	sales := orders.BuildSales(recs)

	// THEN: One school, students in first-seen order, first grade wins
	require.Len(t, sales, 1)
	assert.Equal(t, "Lincoln", sales[0].School)
	require.Len(t, sales[0].Students, 2)

	emma, noah := sales[0].Students[0], sales[0].Students[1]
	assert.Equal(t, "Emma Smith", emma.Name)
	assert.Equal(t, "3", emma.Grade)
	assert.Equal(t, "30.00", emma.Total.String())
	assert.Equal(t, "Noah Lee", noah.Name)
	assert.Equal(t, "12.50", noah.Total.String())
}

func TestSalesAccumulator_SnapshotIsACopy(t *testing.T) {
	acc := orders.NewSalesAccumulator()
	for _, rec := range orders.NormalizeAll(lincoln(), orders.MasterSchema) {
		acc.Fold(rec)
	}
	snap := acc.Snapshot()
	snap[0].Students[0].Name = "changed"

	assert.Equal(t, "Emma Smith", acc.Snapshot()[0].Students[0].Name)
}

// =============================================================================
// PRODUCTION
// =============================================================================

func TestBuildProduction_SplitsChannelsAndSortsFlavors(t *testing.T) {
	// GIVEN: Butter picked up at two schools, Caramel shipped, a zero-quantity
	// row and a row without a student
	table := masterTable(
		line{delivery: "Pick-up at school", qty: "2", flavor: "Butter", school: "Lincoln", student: "Emma Smith"},
		line{delivery: "Ship to home", qty: "3", flavor: "Caramel", school: "Lincoln", student: "Noah Lee"},
		line{delivery: "Pick-up at school", qty: "0", flavor: "Cheddar", school: "Lincoln", student: "Noah Lee"},
		line{delivery: "Pick-up at school", qty: "5", flavor: "Butter", school: "Adams", student: ""},
	)

	// WHEN: Building production from every row
	p := orders.BuildProduction(orders.ReadAll(table, orders.MasterSchema))

	// THEN: Schools and flavors are alphabetical with channel totals
	want := orders.Production{
		Schools: []orders.SchoolProduction{
			{School: "Adams", Flavors: []orders.FlavorCount{{Flavor: "Butter", Pickup: 5}}, Pickup: 5},
			{School: "Lincoln", Flavors: []orders.FlavorCount{
				{Flavor: "Butter", Pickup: 2},
				{Flavor: "Caramel", Shipping: 3},
			}, Pickup: 2, Ship: 3},
		},
		Flavors: []orders.FlavorCount{
			{Flavor: "Butter", Pickup: 7},
			{Flavor: "Caramel", Shipping: 3},
		},
		Pickup: 7,
		Ship:   3,
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("production mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 10, p.Total())
	assert.Equal(t, 7, p.Flavors[0].Total())
}

// =============================================================================
// IDENTITY
// =============================================================================

func TestIdentityAccumulator_CollectsDistinctValues(t *testing.T) {
	// GIVEN: Maria Garcia in two schools with two grades; one blank teacher
	table := masterTable(
		line{school: "Lincoln", student: "Maria Garcia", teacher: "Brown", grade: "3"},
		line{school: "Lincoln", student: "Maria Garcia", teacher: "", grade: "3"},
		line{school: "Adams", student: "Maria Garcia", teacher: "Lane", grade: "4"},
	)
	acc := orders.NewIdentityAccumulator()
	for _, rec := range orders.NormalizeAll(table, orders.MasterSchema) {
		acc.Fold(rec)
	}

	// THEN: One identity, blank teacher ignored; one roster per school
	ids := acc.Identities()
	require.Len(t, ids, 1)
	assert.Equal(t, []string{"Lincoln", "Adams"}, ids[0].Schools)
	assert.Equal(t, []string{"3", "4"}, ids[0].Grades)
	assert.Equal(t, []string{"Brown", "Lane"}, ids[0].Teachers)

	rosters := acc.Rosters()
	require.Len(t, rosters, 2)
	assert.Equal(t, "Lincoln", rosters[0].School)
	assert.Equal(t, 2, rosters[0].Counts["Maria Garcia"])
	assert.Equal(t, 1, rosters[1].Counts["Maria Garcia"])
}

// =============================================================================
// RANKING
// =============================================================================

func TestRank_HighestFirstStableOnTies(t *testing.T) {
	// GIVEN: Two students tied at 20
	students := []orders.StudentTotal{
		{Name: "A", Total: money("10")},
		{Name: "B", Total: money("20")},
		{Name: "C", Total: money("20")},
		{Name: "D", Total: money("5")},
	}

	// WHEN: Ranking the top 3
	ranked := orders.Rank(students, 3)

	// THEN: Ties keep source order and the input is untouched
	names := make([]string, len(ranked))
	for i, s := range ranked {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"B", "C", "A"}, names)
	assert.Equal(t, "A", students[0].Name)
}

func TestRank_FewerThanN(t *testing.T) {
	ranked := orders.Rank([]orders.StudentTotal{{Name: "A"}}, orders.DefaultTopN)
	assert.Len(t, ranked, 1)
	assert.Empty(t, orders.Rank(nil, orders.DefaultTopN))
}
