package report

import (
	"github.com/dustin/go-humanize"

	"github.com/jfc974-droid/order-management-system/orders"
)

// Currency formats m as dollars with thousands separators: $1,234.56.
func Currency(m orders.Money) string {
	v := m.Float64()
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}
