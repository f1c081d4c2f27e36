package orders

import (
	"fmt"
	"strings"
)

// Field names one logical column of a sheet.
type Field string

const (
	FieldOrderNumber Field = "order_number"
	FieldDelivery    Field = "delivery"
	FieldQuantity    Field = "quantity"
	FieldFlavor      Field = "flavor"
	FieldPrice       Field = "price"
	FieldBillingName Field = "billing_name"
	FieldSchool      Field = "school"
	FieldStudent     Field = "student"
	FieldTeacher     Field = "teacher"
	FieldGrade       Field = "grade"
)

// Schema maps field names to column offsets. It is validated once against the
// header row; data rows are then read through Cell.
type Schema struct {
	Name    string
	Columns map[Field]int
}

// MasterSchema is the layout of the raw MASTER order export.
var MasterSchema = Schema{
	Name: "MASTER",
	Columns: map[Field]int{
		FieldOrderNumber: MustColumnIndex("A"),
		FieldDelivery:    MustColumnIndex("O"),
		FieldQuantity:    MustColumnIndex("Q"),
		FieldFlavor:      MustColumnIndex("R"),
		FieldPrice:       MustColumnIndex("S"),
		FieldBillingName: MustColumnIndex("Y"),
		FieldSchool:      MustColumnIndex("AV"),
		FieldStudent:     MustColumnIndex("AW"),
		FieldTeacher:     MustColumnIndex("AX"),
		FieldGrade:       MustColumnIndex("AY"),
	},
}

// SchoolViewFields is the column order of a "<school> MASTER" sheet.
var SchoolViewFields = []Field{
	FieldOrderNumber,
	FieldStudent,
	FieldGrade,
	FieldQuantity,
	FieldFlavor,
	FieldPrice,
	FieldDelivery,
	FieldBillingName,
	FieldSchool,
}

// SchoolSheetSchema is the layout of a "<school> MASTER" sheet.
var SchoolSheetSchema = func() Schema {
	s := Schema{Name: "school MASTER", Columns: make(map[Field]int, len(SchoolViewFields))}
	for i, f := range SchoolViewFields {
		s.Columns[f] = i
	}
	return s
}()

// Width is the minimum number of columns a header needs for this schema.
func (s Schema) Width() int {
	w := 0
	for _, idx := range s.Columns {
		if idx+1 > w {
			w = idx + 1
		}
	}
	return w
}

// Validate fails fast when the header is narrower than the schema.
func (s Schema) Validate(sheet string, header Row) error {
	if len(header) < s.Width() {
		return &ColumnCountError{Sheet: sheet, Want: s.Width(), Got: len(header)}
	}
	return nil
}

// Cell returns the raw cell for field. Trailing cells the backend trimmed off
// a short row read as blank, as do fields the schema does not declare.
func (s Schema) Cell(row Row, f Field) string {
	idx, ok := s.Columns[f]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Project reorders row into the given field order.
func (s Schema) Project(row Row, fields []Field) Row {
	out := make(Row, len(fields))
	for i, f := range fields {
		out[i] = s.Cell(row, f)
	}
	return out
}

// Row builds a row of exactly Width cells with values placed at their
// schema columns. Unset cells are blank.
func (s Schema) Row(values map[Field]string) Row {
	row := make(Row, s.Width())
	for f, v := range values {
		if idx, ok := s.Columns[f]; ok {
			row[idx] = v
		}
	}
	return row
}

// Header is Row with every other column named by its letter.
func (s Schema) Header(names map[Field]string) Row {
	row := s.Row(names)
	for i := range row {
		if row[i] == "" {
			row[i] = ColumnName(i)
		}
	}
	return row
}

// ColumnIndex converts a column letter ("A", "AV") to a zero-based index.
func ColumnIndex(letters string) (int, error) {
	letters = strings.ToUpper(strings.TrimSpace(letters))
	if letters == "" {
		return 0, fmt.Errorf("empty column name")
	}
	n := 0
	for _, c := range letters {
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("invalid column name %q", letters)
		}
		n = n*26 + int(c-'A'+1)
	}
	return n - 1, nil
}

// MustColumnIndex is ColumnIndex for constant tables.
func MustColumnIndex(letters string) int {
	idx, err := ColumnIndex(letters)
	if err != nil {
		panic(err)
	}
	return idx
}

// ColumnName converts a zero-based index back to letters (0 → "A").
func ColumnName(idx int) string {
	name := ""
	for n := idx + 1; n > 0; n = (n - 1) / 26 {
		name = string(rune('A'+(n-1)%26)) + name
	}
	return name
}
