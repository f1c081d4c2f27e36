package orders

import (
	"math"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Similarity scores two names from 0 to 100, ignoring case. The score is the
// Ratcliff/Obershelp ratio 2·M/T over the names' characters, rounded half to
// even. Identical names score 100; an empty name scores 0.
func Similarity(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	m := difflib.NewMatcher(runes(strings.ToLower(a)), runes(strings.ToLower(b)))
	return int(math.RoundToEven(100 * m.Ratio()))
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
