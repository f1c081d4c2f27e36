/*
Package orders provides the order-grouping and reconciliation pipeline.

PURPOSE:
  This package turns the flat, loosely-structured MASTER order table of a
  school fundraiser into canonical per-student and per-school aggregates.
  Every report (leaderboards, production counts, error log, order forms,
  school MASTER views) is a pure view over the types defined here.

KEY CONCEPTS IN THIS FILE (types.go):
  - Row: one raw row of string cells, accessed through a Schema
  - Money: a monetary value (decimal, never float)
  - Record: a normalized row
  - Order / LineItem: line-item rows grouped by order number
  - StudentTotal / SchoolSales: leaderboard aggregates
  - FlavorCount / Production: production counts by delivery channel
  - Identity / Finding: error-detection input and output

DESIGN PRINCIPLES:
  1. Rebuilt per run: every aggregate comes from one full scan, no state kept
  2. Precision: money uses decimal.Decimal
  3. Insertion order: snapshots keep source row order unless a renderer sorts
  4. Degrade, never abort: unparseable cells become explicit defaults

USAGE:
  acc := orders.NewSalesAccumulator()
  for _, row := range rows[1:] {
      if rec, ok := orders.Normalize(row, orders.MasterSchema); ok {
          acc.Fold(rec)
      }
  }
  for _, school := range acc.Snapshot() {
      top := orders.Rank(school.Students, 5)
      ...
  }

SEE ALSO:
  - schema.go: column offsets and header validation
  - aggregate.go: accumulators
  - detect.go: data-quality checks
  - group.go: order grouping and grade sort
*/
package orders

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Monetary value (always dollars for this system)
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

func NewMoneyFromInt(value int) Money {
	return Money{Value: decimal.NewFromInt(int64(value))}
}

func (m Money) Add(b Money) Money         { return Money{Value: m.Value.Add(b.Value)} }
func (m Money) Times(qty int) Money       { return Money{Value: m.Value.Mul(decimal.NewFromInt(int64(qty)))} }
func (m Money) IsZero() bool              { return m.Value.IsZero() }
func (m Money) Equal(b Money) bool        { return m.Value.Equal(b.Value) }
func (m Money) GreaterThan(b Money) bool  { return m.Value.GreaterThan(b.Value) }
func (m Money) LessThan(b Money) bool     { return m.Value.LessThan(b.Value) }
func (m Money) String() string            { return m.Value.StringFixed(2) }
func (m Money) Float64() float64          { return m.Value.InexactFloat64() }

// =============================================================================
// ROWS & RECORDS
// =============================================================================

// Row is one raw row of a sheet. Row 0 of any sheet is the header.
type Row []string

// DeliveryChannel splits production counts.
type DeliveryChannel string

const (
	ChannelPickup   DeliveryChannel = "pickup"
	ChannelShipping DeliveryChannel = "shipping"
)

// PickupAtSchool is the exact delivery text selecting order-form rows.
const PickupAtSchool = "Pick-up at school"

// Record is a normalized MASTER row. All string fields are trimmed.
type Record struct {
	OrderNumber string
	School      string
	Student     string
	Grade       string
	Teacher     string
	Flavor      string
	Delivery    string
	BillingName string
	Quantity    Parsed[int]
	Price       Parsed[Money]
}

// Amount is quantity × unit price. Any defaulted parse makes the whole
// amount zero.
func (r Record) Amount() Money {
	if r.Quantity.Defaulted || r.Price.Defaulted {
		return Money{}
	}
	return r.Price.Value.Times(r.Quantity.Value)
}

// Channel classifies the delivery text: anything mentioning "pick" is pickup.
func (r Record) Channel() DeliveryChannel {
	if containsFold(r.Delivery, "pick") {
		return ChannelPickup
	}
	return ChannelShipping
}

// =============================================================================
// ORDERS - Line items grouped by order number
// =============================================================================

type LineItem struct {
	Flavor   string
	Quantity int
}

type Order struct {
	Number      string
	BillingName string
	School      string
	Student     string
	Grade       string
	Items       []LineItem
}

// =============================================================================
// SALES - Leaderboard aggregates
// =============================================================================

type StudentTotal struct {
	Name  string
	Grade string
	Total Money
}

type SchoolSales struct {
	School   string
	Students []StudentTotal
}

// =============================================================================
// PRODUCTION - Items needed per flavor, split by channel
// =============================================================================

type FlavorCount struct {
	Flavor   string
	Pickup   int
	Shipping int
}

func (f FlavorCount) Total() int { return f.Pickup + f.Shipping }

type SchoolProduction struct {
	School  string
	Flavors []FlavorCount
	Pickup  int
	Ship    int
}

type Production struct {
	Schools []SchoolProduction
	Flavors []FlavorCount
	Pickup  int
	Ship    int
}

func (p Production) Total() int { return p.Pickup + p.Ship }

// =============================================================================
// IDENTITY - Error detection input
// =============================================================================

// Identity is everything seen for one student name across the whole table.
// Any field with more than one value is a data inconsistency worth reporting.
type Identity struct {
	Name     string
	Schools  []string
	Grades   []string
	Teachers []string
}

// SchoolRoster is the per-school view used by the similar-names check.
// Counts holds the number of rows seen for each name.
type SchoolRoster struct {
	School string
	Names  []string
	Counts map[string]int
}

// FindingKind names one data-quality check.
type FindingKind string

const (
	KindMissingLastName  FindingKind = "Missing Last Name"
	KindMultipleSchools  FindingKind = "Multiple Schools"
	KindMultipleGrades   FindingKind = "Multiple Grades"
	KindMultipleTeachers FindingKind = "Multiple Teachers"
	KindSimilarNames     FindingKind = "Similar Names"
)

// Finding is one advisory Error Log row. It is not a software error.
type Finding struct {
	Kind       FindingKind `csv:"Error Type"`
	Schools    string      `csv:"School"`
	Subject    string      `csv:"Student Name"`
	Detail     string      `csv:"Details"`
	Suggestion string      `csv:"Suggestion"`
	Similarity int         `csv:"-"`
}

// Cells returns the Error Log row for this finding.
func (f Finding) Cells() Row {
	return Row{string(f.Kind), f.Schools, f.Subject, f.Detail, f.Suggestion}
}
