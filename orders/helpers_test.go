package orders_test

import (
	"github.com/jfc974-droid/order-management-system/orders"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// line is one MASTER line item in test tables.
type line struct {
	order, delivery, qty, flavor, price, billing, school, student, teacher, grade string
}

func masterRow(l line) orders.Row {
	return orders.MasterSchema.Row(map[orders.Field]string{
		orders.FieldOrderNumber: l.order,
		orders.FieldDelivery:    l.delivery,
		orders.FieldQuantity:    l.qty,
		orders.FieldFlavor:      l.flavor,
		orders.FieldPrice:       l.price,
		orders.FieldBillingName: l.billing,
		orders.FieldSchool:      l.school,
		orders.FieldStudent:     l.student,
		orders.FieldTeacher:     l.teacher,
		orders.FieldGrade:       l.grade,
	})
}

func masterTable(lines ...line) []orders.Row {
	table := []orders.Row{orders.MasterSchema.Header(nil)}
	for _, l := range lines {
		table = append(table, masterRow(l))
	}
	return table
}

// lincoln is the reference sales scenario: Emma buys twice, Noah once.
func lincoln() []orders.Row {
	return masterTable(
		line{order: "1", delivery: "Pick-up at school", qty: "2", flavor: "Butter", price: "10", school: "Lincoln", student: "Emma Smith", teacher: "Brown", grade: "3"},
		line{order: "2", delivery: "Ship to home", qty: "1", flavor: "Caramel", price: "12.50", school: "Lincoln", student: "Noah Lee", teacher: "Gray", grade: "K"},
		line{order: "3", delivery: "Pick-up at school", qty: "1", flavor: "Butter", price: "$10.00", school: "Lincoln", student: "Emma Smith", teacher: "Brown", grade: "4"},
	)
}

func money(s string) orders.Money {
	return orders.ParseMoney(s).Value
}
