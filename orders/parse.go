package orders

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Parsed is the result of reading a numeric cell. Defaulted is set when the
// cell could not be parsed and Value holds the zero substitute, so callers can
// tell "really zero" from "unparseable".
type Parsed[T any] struct {
	Value     T
	Defaulted bool
}

func parsedOK[T any](v T) Parsed[T] {
	return Parsed[T]{Value: v}
}

func defaulted[T any]() Parsed[T] {
	var zero T
	return Parsed[T]{Value: zero, Defaulted: true}
}

// ParseQuantity reads a non-negative integer quantity. Anything that is not
// all ASCII digits after trimming defaults to zero.
func ParseQuantity(s string) Parsed[int] {
	s = strings.TrimSpace(s)
	if !isDigits(s) {
		return defaulted[int]()
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return defaulted[int]()
	}
	return parsedOK(n)
}

// ParseMoney reads a price such as "$1,234.50". Currency symbols, thousands
// separators and spaces are stripped first; failures default to zero.
func ParseMoney(s string) Parsed[Money] {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(s)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return defaulted[Money]()
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return defaulted[Money]()
	}
	return parsedOK(Money{Value: d})
}

// OrderNumberKey is the numeric sort key of an order number; non-numeric
// order numbers sort as zero.
func OrderNumberKey(s string) int {
	if !isDigits(s) {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
