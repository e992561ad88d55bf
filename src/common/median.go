package common

import (
	"sort"
	"time"
)

// MedianTime returns the middle element of the sorted input. For an even
// number of elements it returns the upper of the two middle elements, so the
// result is always one of the inputs. The zero time is returned for an empty
// slice.
func MedianTime(input []time.Time) time.Time {
	if len(input) == 0 {
		return time.Time{}
	}

	// Start by sorting a copy of the slice
	s := make([]time.Time, len(input))
	copy(s, input)
	sort.Slice(s, func(i, j int) bool { return s[i].Before(s[j]) })

	return s[len(s)/2]
}
