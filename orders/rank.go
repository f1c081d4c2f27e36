package orders

import "sort"

// DefaultTopN is the leaderboard length.
const DefaultTopN = 5

// Rank returns students sorted by total, highest first, truncated to n.
// Equal totals keep their source order. The input is not modified.
func Rank(students []StudentTotal, n int) []StudentTotal {
	ranked := append([]StudentTotal(nil), students...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total.GreaterThan(ranked[j].Total)
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
