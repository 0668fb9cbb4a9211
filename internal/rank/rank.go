// Package rank orders the final result set.
package rank

import (
	"sort"

	"github.com/go-scripts/placescout/internal/types"
)

// Sort orders results by rating descending, then review count descending.
// The sort is stable: ties keep their completion order.
func Sort(results []types.MergedResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Rating != results[j].Rating {
			return results[i].Rating > results[j].Rating
		}
		return results[i].ReviewCount > results[j].ReviewCount
	})
}
