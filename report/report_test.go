package report_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfc974-droid/order-management-system/orders"
	"github.com/jfc974-droid/order-management-system/report"
)

var now = time.Date(2026, 3, 14, 15, 4, 5, 0, time.UTC)

func money(s string) orders.Money { return orders.ParseMoney(s).Value }

// =============================================================================
// LEADERBOARD
// =============================================================================

func TestCurrency(t *testing.T) {
	assert.Equal(t, "$30.00", report.Currency(money("30")))
	assert.Equal(t, "$1,234.50", report.Currency(money("1234.5")))
	assert.Equal(t, "$0.00", report.Currency(orders.Money{}))
}

func TestNewLeaderboard_MedalsAndRanks(t *testing.T) {
	// GIVEN: Six ranked students
	var ranked []orders.StudentTotal
	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		ranked = append(ranked, orders.StudentTotal{Name: name, Grade: "3", Total: money("10")})
	}

	// WHEN: Building the leaderboard
	lb := report.NewLeaderboard("Lincoln", ranked, now)

	// THEN: Five medals, then none
	require.Len(t, lb.Entries, 6)
	assert.Equal(t, 1, lb.Entries[0].Rank)
	assert.Equal(t, report.Medals[0], lb.Entries[0].Medal)
	assert.Equal(t, report.Medals[4], lb.Entries[4].Medal)
	assert.Empty(t, lb.Entries[5].Medal)
	assert.Equal(t, "March 14, 2026 at 03:04 PM", lb.Updated)
}

func TestRenderLeaderboard(t *testing.T) {
	lb := report.NewLeaderboard("Lincoln Elementary", []orders.StudentTotal{
		{Name: "Emma Smith", Grade: "3", Total: money("30")},
		{Name: "Noah Lee", Grade: "K", Total: money("12.5")},
	}, now)

	html, err := report.RenderLeaderboard(lb)
	require.NoError(t, err)

	page := string(html)
	assert.Contains(t, page, "<title>Lincoln Elementary Top Sellers</title>")
	assert.Contains(t, page, "Emma Smith")
	assert.Contains(t, page, "Grade K")
	assert.Contains(t, page, "$12.50")
	assert.Contains(t, page, "Last updated: March 14, 2026 at 03:04 PM")
	assert.Less(t, strings.Index(page, "Emma Smith"), strings.Index(page, "Noah Lee"))
}

func TestLeaderboardFileName(t *testing.T) {
	assert.Equal(t, "leaderboard_Lincoln_Elementary.html", report.LeaderboardFileName("Lincoln Elementary"))
	assert.Equal(t, "leaderboard_A_B.html", report.LeaderboardFileName("A/B"))
}

// =============================================================================
// PRODUCTION
// =============================================================================

func production() orders.Production {
	return orders.Production{
		Schools: []orders.SchoolProduction{
			{School: "Adams", Flavors: []orders.FlavorCount{{Flavor: "Butter", Pickup: 5}}, Pickup: 5},
			{School: "Lincoln", Flavors: []orders.FlavorCount{{Flavor: "Caramel", Shipping: 3}}, Ship: 3},
		},
		Flavors: []orders.FlavorCount{{Flavor: "Butter", Pickup: 5}, {Flavor: "Caramel", Shipping: 3}},
		Pickup:  5,
		Ship:    3,
	}
}

func TestProductionSheet_Layout(t *testing.T) {
	rows, formats := report.ProductionSheet(production())

	want := []orders.Row{
		{"Adams"},
		{"Flavor", "Pick-up", "Shipping"},
		{"Butter", "5", "0"},
		{"TOTAL", "5", "0"},
		{},
		{"Lincoln"},
		{"Flavor", "Pick-up", "Shipping"},
		{"Caramel", "0", "3"},
		{"TOTAL", "0", "3"},
		{},
		{report.CombinedTitle},
		{"Flavor", "Pick-up", "Shipping", "TOTAL"},
		{"Butter", "5", "0", "5"},
		{"Caramel", "0", "3", "3"},
		{"GRAND TOTAL", "5", "3", "8"},
	}
	assert.Equal(t, want, rows)

	// Three per school, three for the combined section
	require.Len(t, formats, 9)
	assert.Equal(t, orders.CellRange(0, 0, 1), formats[0].Range)
	assert.Equal(t, orders.CellRange(14, 0, report.ProductionColumns), formats[8].Range)
	assert.True(t, formats[8].Format.Bold)
}

func TestProductionPDF(t *testing.T) {
	pdf, err := report.ProductionPDF(production(), now)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	assert.Equal(t, "Production_Report_20260314_150405.pdf", report.ProductionFileName(now))
}

// =============================================================================
// ERROR LOG
// =============================================================================

func TestErrorLogSheet(t *testing.T) {
	findings := []orders.Finding{{Kind: orders.KindMissingLastName, Schools: "Lincoln", Subject: "Emma", Detail: "d", Suggestion: "s"}}

	rows, formats := report.ErrorLogSheet(findings)

	assert.Equal(t, []orders.Row{report.ErrorLogHeader, findings[0].Cells()}, rows)
	require.Len(t, formats, 1)
	assert.Equal(t, orders.CellRange(0, 0, 5), formats[0].Range)
}

func TestErrorLogCSV(t *testing.T) {
	data, err := report.ErrorLogCSV([]orders.Finding{
		{Kind: orders.KindSimilarNames, Schools: "Lincoln", Subject: "Jon Smith / John Smith", Detail: "95% similar", Suggestion: "Keep 'John Smith' (2 orders), merge 'Jon Smith' (1 orders)", Similarity: 95},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Error Type,School,Student Name,Details,Suggestion", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Similar Names,Lincoln,Jon Smith / John Smith,95% similar,"))

	empty, err := report.ErrorLogCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "Error Type,School,Student Name,Details,Suggestion", strings.TrimSpace(string(empty)))

	assert.Equal(t, "Error_Log_20260314_150405.csv", report.ErrorLogFileName(now))
}

// =============================================================================
// ORDER FORMS
// =============================================================================

func TestOrderReplacements(t *testing.T) {
	o := orders.Order{Number: "1001", BillingName: "Pat Smith", School: "Lincoln", Student: "Emma Smith", Grade: "3",
		Items: []orders.LineItem{{Flavor: "Butter", Quantity: 2}}}

	repl := report.OrderReplacements(o, 2)

	values := make(map[string]string, len(repl))
	for _, r := range repl {
		values[r.Placeholder] = r.Value
	}
	assert.Len(t, repl, 6+2*2)
	assert.Len(t, values, len(repl), "each placeholder is issued once")
	assert.Equal(t, "1001", values["{{Order Number}}"])
	assert.Equal(t, "Emma Smith", values["{{Student name}}"])
	assert.Equal(t, "Emma Smith", values["{{student name}}"])
	assert.Equal(t, "2", values["{{quantity1}}"])
	assert.Equal(t, "Butter", values["{{flavor name1}}"])
	assert.Equal(t, "", values["{{quantity2}}"])
	_, beyond := values["{{quantity3}}"]
	assert.False(t, beyond)

	assert.Equal(t, "Grade 3 - Emma Smith - Order 1001", report.OrderDocTitle(o))
}

func TestOrderReplacements_OnePerPlaceholderAtFullTemplate(t *testing.T) {
	o := orders.Order{Number: "7", Student: "Noah Lee"}
	repl := report.OrderReplacements(o, 13)

	seen := make(map[string]int, len(repl))
	for _, r := range repl {
		seen[r.Placeholder]++
	}
	assert.Len(t, repl, 6+2*13)
	for placeholder, n := range seen {
		assert.Equal(t, 1, n, "%s issued more than once", placeholder)
	}
	assert.Contains(t, seen, "{{Student name}}")
	assert.Contains(t, seen, "{{student name}}")
	assert.Contains(t, seen, "{{flavor name13}}")
	assert.NotContains(t, seen, "{{Teacher}}")
}

func TestOrderSummary(t *testing.T) {
	o := orders.Order{Items: []orders.LineItem{
		{Flavor: "Butter", Quantity: 1},
		{Flavor: "Coffee - Dark Roast", Quantity: 2},
	}}
	assert.Equal(t, "\n\nPopcorn: 1 bag     Coffee: 2 bags\n", report.OrderSummary(o))
	assert.Contains(t, report.OrderSummary(orders.Order{}), "Popcorn: 0 bags")
}

func TestUnusedItemRows(t *testing.T) {
	cases := []struct {
		tableRows, items, max int
		row, count            int
	}{
		{14, 2, 13, 3, 11},
		{14, 13, 13, 14, 0},
		{14, 15, 13, 16, 0},
		{3, 5, 13, 6, 0},
	}
	for _, c := range cases {
		row, count := report.UnusedItemRows(c.tableRows, c.items, c.max)
		assert.Equal(t, c.row, row, "UnusedItemRows(%d, %d, %d) row", c.tableRows, c.items, c.max)
		assert.Equal(t, c.count, count, "UnusedItemRows(%d, %d, %d) count", c.tableRows, c.items, c.max)
	}
}

// =============================================================================
// MERGE
// =============================================================================

func TestMergePDFs(t *testing.T) {
	_, err := report.MergePDFs(nil)
	assert.ErrorIs(t, err, report.ErrNothingToMerge)

	one, err := report.ProductionPDF(production(), now)
	require.NoError(t, err)

	single, err := report.MergePDFs([][]byte{one})
	require.NoError(t, err)
	assert.Equal(t, one, single)

	merged, err := report.MergePDFs([][]byte{one, one})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(merged, []byte("%PDF")))

	assert.Equal(t, "Lincoln_Orders_Combined.pdf", report.CombinedFileName("Lincoln"))
	assert.Equal(t, "Lincoln Orders - Combined.pdf", report.CombinedUploadName("Lincoln"))
}
