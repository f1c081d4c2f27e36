/*
aggregate.go - Accumulators folding normalized records into aggregates

PURPOSE:
  Each accumulator owns its nested maps and is fed one Record at a time, in
  source row order. Snapshot() returns an immutable copy; the accumulator is
  never read directly by renderers.

ACCUMULATORS:
  SalesAccumulator:      school -> student -> {grade, running total}
  ProductionAccumulator: school -> flavor -> {pickup, shipping}, plus global flavor
  IdentityAccumulator:   school -> name -> row count, name -> {schools, grades, teachers}

INVARIANTS:
  - Totals and counters only grow while folding; nothing is recomputed mid-fold
  - First occurrence of a school or student creates its entry
  - A student's grade is the grade of the first folded row (first-wins)
  - Snapshot order is insertion order, except ProductionAccumulator, whose
    snapshot is alphabetical because every renderer of it sorts

SEE ALSO:
  - normalize.go: produces the records
  - rank.go: consumes SchoolSales
  - detect.go: consumes Identity and SchoolRoster
*/
package orders

import "sort"

// =============================================================================
// SALES
// =============================================================================

type SalesAccumulator struct {
	schools  []string
	bySchool map[string]*salesBucket
}

type salesBucket struct {
	names    []string
	students map[string]*StudentTotal
}

func NewSalesAccumulator() *SalesAccumulator {
	return &SalesAccumulator{bySchool: make(map[string]*salesBucket)}
}

// Fold adds one record's amount to its student's running total.
func (a *SalesAccumulator) Fold(rec Record) {
	if rec.School == "" || rec.Student == "" {
		return
	}
	bucket, exists := a.bySchool[rec.School]
	if !exists {
		bucket = &salesBucket{students: make(map[string]*StudentTotal)}
		a.bySchool[rec.School] = bucket
		a.schools = append(a.schools, rec.School)
	}
	st, exists := bucket.students[rec.Student]
	if !exists {
		st = &StudentTotal{Name: rec.Student, Grade: rec.Grade}
		bucket.students[rec.Student] = st
		bucket.names = append(bucket.names, rec.Student)
	}
	st.Total = st.Total.Add(rec.Amount())
}

// Snapshot returns schools and students in insertion order.
func (a *SalesAccumulator) Snapshot() []SchoolSales {
	out := make([]SchoolSales, 0, len(a.schools))
	for _, school := range a.schools {
		bucket := a.bySchool[school]
		students := make([]StudentTotal, 0, len(bucket.names))
		for _, name := range bucket.names {
			students = append(students, *bucket.students[name])
		}
		out = append(out, SchoolSales{School: school, Students: students})
	}
	return out
}

// BuildSales folds records into a sales snapshot.
func BuildSales(recs []Record) []SchoolSales {
	acc := NewSalesAccumulator()
	for _, rec := range recs {
		acc.Fold(rec)
	}
	return acc.Snapshot()
}

// =============================================================================
// PRODUCTION
// =============================================================================

type ProductionAccumulator struct {
	bySchool map[string]map[string]*FlavorCount
	global   map[string]*FlavorCount
}

func NewProductionAccumulator() *ProductionAccumulator {
	return &ProductionAccumulator{
		bySchool: make(map[string]map[string]*FlavorCount),
		global:   make(map[string]*FlavorCount),
	}
}

// Fold counts a record's quantity under its delivery channel. Records with
// no school, no flavor or a zero quantity are skipped.
func (a *ProductionAccumulator) Fold(rec Record) {
	if rec.School == "" || rec.Flavor == "" || rec.Quantity.Value == 0 {
		return
	}
	flavors, exists := a.bySchool[rec.School]
	if !exists {
		flavors = make(map[string]*FlavorCount)
		a.bySchool[rec.School] = flavors
	}
	channel := rec.Channel()
	bump(flavors, rec.Flavor, channel, rec.Quantity.Value)
	bump(a.global, rec.Flavor, channel, rec.Quantity.Value)
}

func bump(m map[string]*FlavorCount, flavor string, ch DeliveryChannel, qty int) {
	fc, exists := m[flavor]
	if !exists {
		fc = &FlavorCount{Flavor: flavor}
		m[flavor] = fc
	}
	if ch == ChannelPickup {
		fc.Pickup += qty
	} else {
		fc.Shipping += qty
	}
}

// Snapshot returns schools and flavors sorted alphabetically, with totals.
func (a *ProductionAccumulator) Snapshot() Production {
	var p Production
	for _, school := range sortedKeys(a.bySchool) {
		sp := SchoolProduction{School: school, Flavors: sortedCounts(a.bySchool[school])}
		for _, fc := range sp.Flavors {
			sp.Pickup += fc.Pickup
			sp.Ship += fc.Shipping
		}
		p.Schools = append(p.Schools, sp)
	}
	p.Flavors = sortedCounts(a.global)
	for _, fc := range p.Flavors {
		p.Pickup += fc.Pickup
		p.Ship += fc.Shipping
	}
	return p
}

// BuildProduction folds records into a production snapshot.
func BuildProduction(recs []Record) Production {
	acc := NewProductionAccumulator()
	for _, rec := range recs {
		acc.Fold(rec)
	}
	return acc.Snapshot()
}

func sortedCounts(m map[string]*FlavorCount) []FlavorCount {
	out := make([]FlavorCount, 0, len(m))
	for _, k := range sortedKeys(m) {
		out = append(out, *m[k])
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// =============================================================================
// IDENTITY
// =============================================================================

type IdentityAccumulator struct {
	schools    []string
	rosters    map[string]*SchoolRoster
	names      []string
	identities map[string]*Identity
}

func NewIdentityAccumulator() *IdentityAccumulator {
	return &IdentityAccumulator{
		rosters:    make(map[string]*SchoolRoster),
		identities: make(map[string]*Identity),
	}
}

// Fold records where a student name was seen. Blank grades and teachers are
// not added to the identity sets.
func (a *IdentityAccumulator) Fold(rec Record) {
	if rec.School == "" || rec.Student == "" {
		return
	}
	roster, exists := a.rosters[rec.School]
	if !exists {
		roster = &SchoolRoster{School: rec.School, Counts: make(map[string]int)}
		a.rosters[rec.School] = roster
		a.schools = append(a.schools, rec.School)
	}
	if _, seen := roster.Counts[rec.Student]; !seen {
		roster.Names = append(roster.Names, rec.Student)
	}
	roster.Counts[rec.Student]++

	id, exists := a.identities[rec.Student]
	if !exists {
		id = &Identity{Name: rec.Student}
		a.identities[rec.Student] = id
		a.names = append(a.names, rec.Student)
	}
	id.Schools = addUnique(id.Schools, rec.School)
	if rec.Grade != "" {
		id.Grades = addUnique(id.Grades, rec.Grade)
	}
	if rec.Teacher != "" {
		id.Teachers = addUnique(id.Teachers, rec.Teacher)
	}
}

// Identities returns one Identity per distinct name, in first-seen order.
func (a *IdentityAccumulator) Identities() []Identity {
	out := make([]Identity, 0, len(a.names))
	for _, name := range a.names {
		id := a.identities[name]
		out = append(out, Identity{
			Name:     id.Name,
			Schools:  append([]string(nil), id.Schools...),
			Grades:   append([]string(nil), id.Grades...),
			Teachers: append([]string(nil), id.Teachers...),
		})
	}
	return out
}

// Rosters returns one roster per school, in first-seen order.
func (a *IdentityAccumulator) Rosters() []SchoolRoster {
	out := make([]SchoolRoster, 0, len(a.schools))
	for _, school := range a.schools {
		r := a.rosters[school]
		counts := make(map[string]int, len(r.Counts))
		for k, v := range r.Counts {
			counts[k] = v
		}
		out = append(out, SchoolRoster{
			School: r.School,
			Names:  append([]string(nil), r.Names...),
			Counts: counts,
		})
	}
	return out
}

func addUnique(set []string, v string) []string {
	for _, s := range set {
		if s == v {
			return set
		}
	}
	return append(set, v)
}
