package orders

import (
	"sort"
	"strconv"
	"strings"
)

// UnrankedGrade is the rank of a grade that is neither kindergarten nor
// starts with a digit.
const UnrankedGrade = 999

// GroupOrders groups line-item rows of a school sheet by order number. Only
// rows whose delivery cell is exactly delivery are kept. Orders appear in the
// order their number is first seen; items keep row order. Header fields come
// from the first row of each order. rows must not include the header.
func GroupOrders(rows []Row, schema Schema, delivery string) []Order {
	var out []*Order
	byNumber := make(map[string]*Order)

	for _, row := range rows {
		if schema.Cell(row, FieldDelivery) != delivery {
			continue
		}
		number := schema.Cell(row, FieldOrderNumber)
		o, exists := byNumber[number]
		if !exists {
			o = &Order{
				Number:      number,
				BillingName: schema.Cell(row, FieldBillingName),
				School:      schema.Cell(row, FieldSchool),
				Student:     schema.Cell(row, FieldStudent),
				Grade:       schema.Cell(row, FieldGrade),
			}
			byNumber[number] = o
			out = append(out, o)
		}
		o.Items = append(o.Items, LineItem{
			Flavor:   schema.Cell(row, FieldFlavor),
			Quantity: ParseQuantity(schema.Cell(row, FieldQuantity)).Value,
		})
	}

	result := make([]Order, len(out))
	for i, o := range out {
		result[i] = *o
	}
	return result
}

// GradeKey is the sort key of a grade cell:
//
//	"K", "Kinder…"  → (0, "")
//	"3"             → (3, "")
//	"2B"            → (2, "2B")   leading digit only, so "10" style mixes collapse
//	anything else   → (999, GRADE)
//
// The comparison is case-insensitive; the sub-key is upper-cased.
func GradeKey(grade string) (int, string) {
	g := strings.ToUpper(strings.TrimSpace(grade))
	if g == "K" || strings.HasPrefix(g, "KINDER") {
		return 0, ""
	}
	if isDigits(g) {
		if n, err := strconv.Atoi(g); err == nil {
			return n, ""
		}
	}
	if g != "" && g[0] >= '0' && g[0] <= '9' {
		return int(g[0] - '0'), g
	}
	return UnrankedGrade, g
}

// SortOrders sorts by grade key, then student name. The sort is stable, so
// equal keys keep grouping order and repeated runs give identical output.
func SortOrders(orders []Order) []Order {
	sorted := append([]Order(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, si := GradeKey(sorted[i].Grade)
		rj, sj := GradeKey(sorted[j].Grade)
		if ri != rj {
			return ri < rj
		}
		if si != sj {
			return si < sj
		}
		return sorted[i].Student < sorted[j].Student
	})
	return sorted
}

// ItemCount sums the quantities of an order whose flavor does (coffee=true)
// or does not mention coffee.
func (o Order) ItemCount(coffee bool) int {
	n := 0
	for _, it := range o.Items {
		if containsFold(it.Flavor, "coffee") == coffee {
			n += it.Quantity
		}
	}
	return n
}
