package report

import (
	"fmt"
	"strconv"

	"github.com/jfc974-droid/order-management-system/orders"
)

// DefaultMaxItems is the number of item rows in the order template.
const DefaultMaxItems = 13

// ItemsTableMarkers identify the items table inside the template.
var ItemsTableMarkers = []string{"Quantity", "Flavor"}

// SummaryStyle is applied to the inserted item summary.
var SummaryStyle = orders.TextStyle{Bold: true, FontSize: 12, FontFamily: "Lexend", Weight: 700}

// OrderDocTitle names the filled copy of the template.
func OrderDocTitle(o orders.Order) string {
	return fmt.Sprintf("Grade %s - %s - Order %s", o.Grade, o.Student, o.Number)
}

// OrderReplacements returns every placeholder substitution for o, each
// placeholder exactly once. Item slots beyond len(o.Items) are blanked;
// items beyond maxItems are left off the form.
func OrderReplacements(o orders.Order, maxItems int) []orders.Replacement {
	repl := []orders.Replacement{
		{Placeholder: "{{Order Number}}", Value: o.Number},
		{Placeholder: "{{Billing Name}}", Value: o.BillingName},
		{Placeholder: "{{Student name}}", Value: o.Student},
		{Placeholder: "{{student name}}", Value: o.Student},
		{Placeholder: "{{Grade}}", Value: o.Grade},
		{Placeholder: "{{School}}", Value: o.School},
	}
	for i := 1; i <= maxItems; i++ {
		var qty, flavor string
		if i <= len(o.Items) {
			qty = strconv.Itoa(o.Items[i-1].Quantity)
			flavor = o.Items[i-1].Flavor
		}
		repl = append(repl,
			orders.Replacement{Placeholder: "{{quantity" + strconv.Itoa(i) + "}}", Value: qty},
			orders.Replacement{Placeholder: "{{flavor name" + strconv.Itoa(i) + "}}", Value: flavor},
		)
	}
	return repl
}

// OrderSummary is the text inserted after the items table. Quantities of
// flavors mentioning coffee count as coffee; everything else is popcorn.
func OrderSummary(o orders.Order) string {
	popcorn, coffee := o.ItemCount(false), o.ItemCount(true)
	return fmt.Sprintf("\n\nPopcorn: %d %s     Coffee: %d %s\n",
		popcorn, bags(popcorn), coffee, bags(coffee))
}

func bags(n int) string {
	if n == 1 {
		return "bag"
	}
	return "bags"
}

// UnusedItemRows returns how many rows of the items table to delete and the
// row index to delete them at. The table has one header row; nothing is
// deleted once the order fills every slot.
func UnusedItemRows(tableRows, items, maxItems int) (rowIndex, count int) {
	if items >= maxItems {
		return items + 1, 0
	}
	count = tableRows - (items + 1)
	if count < 0 {
		count = 0
	}
	return items + 1, count
}
