package store

import (
	"strconv"

	"github.com/jfc974-droid/order-management-system/orders"
)

var boldHeading = orders.TextStyle{Bold: true, FontSize: 16}

// OrderTemplate builds the order-form template used by the memory drive: a
// heading, the order placeholders, and an items table with one header row
// and maxItems item rows.
func OrderTemplate(maxItems int) Document {
	cells := [][]string{{"Quantity", "Flavor"}}
	for i := 1; i <= maxItems; i++ {
		n := strconv.Itoa(i)
		cells = append(cells, []string{"{{quantity" + n + "}}", "{{flavor name" + n + "}}"})
	}
	return Document{Blocks: []Block{
		{Text: "{{School}} Popcorn Fundraiser", Style: boldHeading},
		{Text: "Order #{{Order Number}}"},
		{Text: "Student: {{Student name}}    Grade: {{Grade}}"},
		{Text: "Billing name: {{Billing Name}}"},
		{Cells: cells},
		{Text: "Thank you for supporting {{student name}}!"},
	}}
}
