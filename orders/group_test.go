package orders_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfc974-droid/order-management-system/orders"
)

// viewRow builds one "<school> MASTER" row in SchoolViewFields order.
func viewRow(order, student, grade, qty, flavor, delivery string) orders.Row {
	return orders.Row{order, student, grade, qty, flavor, "10", delivery, "Billing " + student, "Lincoln"}
}

// =============================================================================
// GROUPING
// =============================================================================

func TestGroupOrders_ByNumberPickupOnly(t *testing.T) {
	// GIVEN: Order 5 with two items, a shipped order, order 4 with one item
	rows := []orders.Row{
		viewRow("5", "Emma Smith", "3", "2", "Butter", orders.PickupAtSchool),
		viewRow("6", "Noah Lee", "K", "1", "Caramel", "Ship to home"),
		viewRow("4", "Liam Park", "5", "1", "Cheddar", orders.PickupAtSchool),
		viewRow("5", "Emma Smith", "3", "1", "Coffee - Dark Roast", orders.PickupAtSchool),
	}

	// WHEN: Grouping pick-up rows
	got := orders.GroupOrders(rows, orders.SchoolSheetSchema, orders.PickupAtSchool)

	// THEN: Two orders, first-seen order, items in row order
	require.Len(t, got, 2)
	assert.Equal(t, "5", got[0].Number)
	assert.Equal(t, "Billing Emma Smith", got[0].BillingName)
	assert.Equal(t, []orders.LineItem{
		{Flavor: "Butter", Quantity: 2},
		{Flavor: "Coffee - Dark Roast", Quantity: 1},
	}, got[0].Items)
	assert.Equal(t, "4", got[1].Number)

	assert.Equal(t, 2, got[0].ItemCount(false))
	assert.Equal(t, 1, got[0].ItemCount(true))
}

func TestGroupOrders_DeliveryMustMatchExactly(t *testing.T) {
	rows := []orders.Row{viewRow("1", "Emma Smith", "3", "1", "Butter", "pick-up at school")}
	assert.Empty(t, orders.GroupOrders(rows, orders.SchoolSheetSchema, orders.PickupAtSchool))
}

// =============================================================================
// GRADE SORTING
// =============================================================================

func TestGradeKey(t *testing.T) {
	cases := []struct {
		grade string
		rank  int
		sub   string
	}{
		{"K", 0, ""},
		{"k", 0, ""},
		{"Kindergarten", 0, ""},
		{"3", 3, ""},
		{" 12 ", 12, ""},
		{"2B", 2, "2B"},
		{"Pre-K", orders.UnrankedGrade, "PRE-K"},
		{"", orders.UnrankedGrade, ""},
	}
	for _, c := range cases {
		rank, sub := orders.GradeKey(c.grade)
		assert.Equal(t, c.rank, rank, "GradeKey(%q) rank", c.grade)
		assert.Equal(t, c.sub, sub, "GradeKey(%q) sub", c.grade)
	}
}

func TestSortOrders_GradeThenStudent(t *testing.T) {
	// GIVEN: Orders in arbitrary order
	in := []orders.Order{
		{Number: "1", Student: "Zoe", Grade: "3"},
		{Number: "2", Student: "Adam", Grade: "Pre-K"},
		{Number: "3", Student: "Bea", Grade: "K"},
		{Number: "4", Student: "Abe", Grade: "3"},
		{Number: "5", Student: "Cal", Grade: "1"},
	}

	// WHEN: Sorting
	got := orders.SortOrders(in)

	// THEN: K, 1, 3 (by name), then unranked
	numbers := make([]string, len(got))
	for i, o := range got {
		numbers[i] = o.Number
	}
	assert.Equal(t, []string{"3", "5", "4", "1", "2"}, numbers)
	assert.Equal(t, "1", in[0].Number, "input must not be reordered")
}

func TestSortOrders_Idempotent(t *testing.T) {
	in := []orders.Order{
		{Number: "1", Student: "Same", Grade: "2"},
		{Number: "2", Student: "Same", Grade: "2"},
		{Number: "3", Student: "Other", Grade: "2B"},
	}
	once := orders.SortOrders(in)
	assert.Equal(t, once, orders.SortOrders(once))
	assert.Equal(t, "1", once[0].Number, "equal keys keep grouping order")
	assert.Equal(t, "2", once[1].Number)
	assert.Equal(t, "3", once[2].Number)
}
