package utils

import "math"

// CreateRankList returns ranks 1..count for items that are already sorted.
// Ranks are stored as uint16, so count is capped at math.MaxUint16.
func CreateRankList(count int) []uint16 {
	count = min(max(count, 0), math.MaxUint16)
	ranks := make([]uint16, count)
	for i := range ranks {
		ranks[i] = uint16(i + 1)
	}
	return ranks
}
