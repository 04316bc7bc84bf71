package orders

import (
	"context"
	"sort"
	"strings"
)

// Store is the order persistence contract. The default backing is the
// in-memory map in memory.go; dynamo.go provides a DynamoDB backing so
// the handler layer never depends on where orders actually live.
type Store interface {
	// Create assigns the id, the human-facing order code and the initial
	// status, stamps both timestamps, and persists the record.
	Create(ctx context.Context, in NewOrder) (*Order, error)
	// Get fetches an order by internal id. Returns (nil, nil) if not found.
	Get(ctx context.Context, id string) (*Order, error)
	// GetByOrderID fetches an order by its human-facing code.
	// Returns (nil, nil) if not found.
	GetByOrderID(ctx context.Context, orderID string) (*Order, error)
	// List returns all orders sorted by descending creation time.
	List(ctx context.Context) ([]Order, error)
	// Update merges status and/or admin notes into an existing record and
	// refreshes the update timestamp. Returns (nil, nil) if the id is unknown.
	Update(ctx context.Context, id string, upd OrderUpdate) (*Order, error)
	// Delete removes an order by id and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}

// Sort modes for the admin list.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortName   = "name"
)

// ListQuery narrows and orders the admin list view.
type ListQuery struct {
	Search string // case-insensitive substring over name/email/code/project
	Status string // exact status match
	Sort   string // newest (default) | oldest | name
}

// FilterOrders applies a ListQuery to an already-listed slice. Both store
// backings return the full newest-first list; the admin surface narrows it
// here so the filter semantics never diverge between backings.
func FilterOrders(all []Order, q ListQuery) []Order {
	out := make([]Order, 0, len(all))
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, o := range all {
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		if needle != "" && !matchesSearch(o, needle) {
			continue
		}
		out = append(out, o)
	}

	switch q.Sort {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].FullName) < strings.ToLower(out[j].FullName)
		})
	default:
		// input is already newest-first
	}
	return out
}

func matchesSearch(o Order, needle string) bool {
	for _, field := range []string{o.FullName, o.Email, o.OrderID, o.ProjectName} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
