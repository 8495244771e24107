package repository

import (
	"github.com/gfamlabs/agencydesk/internal/types"
)

// paginate applies offset/limit to an already filtered result set. DynamoDB
// scans return full pages; slicing locally keeps the repositories simple at
// the table sizes this system works with.
func paginate[T any](items []T, qf types.QueryFilter) []T {
	if qf.IsUnlimited() {
		return items
	}
	start := qf.GetOffset()
	if start >= len(items) {
		return []T{}
	}
	end := start + qf.GetLimit()
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
