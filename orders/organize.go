package orders

import (
	"sort"
	"strings"
)

// SchoolSheetSuffix turns a school name into its view sheet name.
const SchoolSheetSuffix = " MASTER"

// SchoolPalette is cycled through, one color per school in first-seen order.
var SchoolPalette = []Color{
	{Red: 1.0, Green: 0.9, Blue: 0.9},
	{Red: 0.9, Green: 1.0, Blue: 0.9},
	{Red: 0.9, Green: 0.9, Blue: 1.0},
	{Red: 1.0, Green: 1.0, Blue: 0.9},
	{Red: 1.0, Green: 0.9, Blue: 1.0},
	{Red: 0.9, Green: 1.0, Blue: 1.0},
	{Red: 1.0, Green: 0.95, Blue: 0.9},
	{Red: 0.95, Green: 0.95, Blue: 1.0},
	{Red: 0.9, Green: 1.0, Blue: 0.95},
	{Red: 1.0, Green: 0.9, Blue: 0.95},
}

// SchoolView is one school's projection of the MASTER sheet.
type SchoolView struct {
	School string
	Color  Color
	// Rows are projected to SchoolViewFields, raw (untrimmed) cells.
	Rows []Row
	// SheetRows are the zero-based MASTER row indexes of Rows (header is 0).
	SheetRows []int
}

// SheetName is the name of the school's view sheet.
func (v SchoolView) SheetName() string {
	return v.School + SchoolSheetSuffix
}

// SchoolFromSheet reverses SheetName. ok is false for non-view sheets,
// including the MASTER sheet itself.
func SchoolFromSheet(sheet string) (string, bool) {
	if sheet == strings.TrimSpace(SchoolSheetSuffix) || !strings.HasSuffix(sheet, SchoolSheetSuffix) {
		return "", false
	}
	return strings.TrimSuffix(sheet, SchoolSheetSuffix), true
}

// SchoolViewHeader projects the MASTER header to the view columns.
func SchoolViewHeader(masterHeader Row) Row {
	return MasterSchema.Project(masterHeader, SchoolViewFields)
}

// BuildSchoolViews groups MASTER data rows by school, in first-seen order.
// Rows without a school are left out. table includes the header.
func BuildSchoolViews(table []Row) []SchoolView {
	var views []*SchoolView
	bySchool := make(map[string]*SchoolView)

	for i := 1; i < len(table); i++ {
		row := table[i]
		school := strings.TrimSpace(MasterSchema.Cell(row, FieldSchool))
		if school == "" {
			continue
		}
		v, exists := bySchool[school]
		if !exists {
			v = &SchoolView{
				School: school,
				Color:  SchoolPalette[len(views)%len(SchoolPalette)],
			}
			bySchool[school] = v
			views = append(views, v)
		}
		v.Rows = append(v.Rows, MasterSchema.Project(row, SchoolViewFields))
		v.SheetRows = append(v.SheetRows, i)
	}

	out := make([]SchoolView, len(views))
	for i, v := range views {
		out[i] = *v
	}
	return out
}

// MergeSchoolRows combines the rows already on a view sheet with incoming
// rows. existing excludes the header; existing rows with a blank order number
// are dropped. An incoming row is new when its order number is not on the
// sheet yet. The result is sorted by order number, highest first, with
// non-numeric order numbers as zero. Merging the same rows twice adds nothing.
func MergeSchoolRows(existing, incoming []Row) (all []Row, added int) {
	seen := make(map[string]bool, len(existing))
	for _, row := range existing {
		if len(row) > 0 && row[0] != "" {
			seen[row[0]] = true
			all = append(all, row)
		}
	}
	for _, row := range incoming {
		number := ""
		if len(row) > 0 {
			number = row[0]
		}
		if !seen[number] {
			all = append(all, row)
			added++
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return OrderNumberKey(all[i][0]) > OrderNumberKey(all[j][0])
	})
	return all, added
}
