package orders

import "strings"

// Read converts one raw row into a Record without filtering anything.
// String fields are trimmed; unparseable numbers become Parsed defaults.
func Read(row Row, schema Schema) Record {
	cell := func(f Field) string { return strings.TrimSpace(schema.Cell(row, f)) }

	return Record{
		OrderNumber: cell(FieldOrderNumber),
		School:      cell(FieldSchool),
		Student:     cell(FieldStudent),
		Grade:       cell(FieldGrade),
		Teacher:     cell(FieldTeacher),
		Flavor:      cell(FieldFlavor),
		Delivery:    cell(FieldDelivery),
		BillingName: cell(FieldBillingName),
		Quantity:    ParseQuantity(schema.Cell(row, FieldQuantity)),
		Price:       ParseMoney(schema.Cell(row, FieldPrice)),
	}
}

// Normalize is Read plus the student filter: it returns false when the row
// has no school or no student. Such rows are dropped without being counted
// or logged. Normalize never fails.
func Normalize(row Row, schema Schema) (Record, bool) {
	rec := Read(row, schema)
	if rec.School == "" || rec.Student == "" {
		return rec, false
	}
	return rec, true
}

// NormalizeAll normalizes every data row (the header is skipped) and keeps
// the ones Normalize accepts, in row order.
func NormalizeAll(table []Row, schema Schema) []Record {
	if len(table) < 2 {
		return nil
	}
	recs := make([]Record, 0, len(table)-1)
	for _, row := range table[1:] {
		if rec, keep := Normalize(row, schema); keep {
			recs = append(recs, rec)
		}
	}
	return recs
}

// ReadAll is NormalizeAll without the student filter.
func ReadAll(table []Row, schema Schema) []Record {
	if len(table) < 2 {
		return nil
	}
	recs := make([]Record, 0, len(table)-1)
	for _, row := range table[1:] {
		recs = append(recs, Read(row, schema))
	}
	return recs
}
