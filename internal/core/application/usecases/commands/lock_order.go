package commands

import (
	"slices"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
)

// sortLines orders ledger lines by assignment, then item, which is the order locks are taken in.
func sortLines[T any](lines []T, key func(T) (kernel.UUID, inventory.ItemRef)) []T {
	sorted := slices.Clone(lines)
	slices.SortFunc(sorted, func(a, b T) int {
		aAssignment, aItem := key(a)
		bAssignment, bItem := key(b)
		if c := aAssignment.Compare(bAssignment); c != 0 {
			return c
		}
		return aItem.Compare(bItem)
	})
	return sorted
}
