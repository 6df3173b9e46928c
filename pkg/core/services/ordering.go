package services

import (
	"fmt"

	"github.com/wadjakorntonsri/folio/pkg/core/domain"
)

// MoveItem returns a copy of items with the element at from removed and
// reinserted at to. Elements in between shift by one. items is not modified.
func MoveItem[T any](items []T, from, to int) ([]T, error) {
	n := len(items)
	if from < 0 || from >= n {
		return nil, domain.Invalid("old_index", fmt.Sprintf("must be between 0 and %d", n-1))
	}
	if to < 0 || to >= n {
		return nil, domain.Invalid("new_index", fmt.Sprintf("must be between 0 and %d", n-1))
	}

	out := make([]T, 0, n)
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)

	moved := items[from]
	out = append(out[:to], append([]T{moved}, out[to:]...)...)
	return out, nil
}

// AssignPositions renumbers links 0..n-1 in slice order
func AssignPositions(links []domain.Link) {
	for i := range links {
		links[i].Position = i
	}
}

func linkIDs(links []domain.Link) []string {
	ids := make([]string, len(links))
	for i, l := range links {
		ids[i] = l.ID
	}
	return ids
}

// checkOrder rejects blank and repeated ids
func checkOrder(ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return domain.Invalid("ids", "link id must not be empty")
		}
		if _, dup := seen[id]; dup {
			return domain.Invalid("ids", fmt.Sprintf("link %s listed more than once", id))
		}
		seen[id] = struct{}{}
	}
	return nil
}
