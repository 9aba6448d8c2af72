// Package pagination drains page-numbered upstream collections.
package pagination

import "context"

// Page is one page of a server-paginated collection.
type Page[T any] struct {
	Nodes       []T  `json:"nodes"`
	CurrentPage int  `json:"currentPage"`
	TotalCount  int  `json:"totalCount"`
	TotalPages  int  `json:"totalPages"`
	IsLastPage  bool `json:"isLastPage"`
}

// FetchFunc returns the given 1-based page.
type FetchFunc[T any] func(ctx context.Context, page int) (*Page[T], error)

// Drain fetches pages sequentially starting at 1 and returns every node in
// page order. The next page number is derived from the server-reported
// currentPage, not a local counter. Draining stops after a page reporting
// isLastPage or once the next page would exceed totalPages. The first
// failed fetch aborts the drain and no partial result is returned.
func Drain[T any](ctx context.Context, fetch FetchFunc[T]) ([]T, error) {
	var all []T
	page := 1
	for {
		p, err := fetch(ctx, page)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return all, nil
		}
		all = append(all, p.Nodes...)
		if p.IsLastPage {
			return all, nil
		}

		current := p.CurrentPage
		if current < page {
			// A server that echoes 0 or an older page must not send us backwards.
			current = page
		}
		page = current + 1
		if page > p.TotalPages {
			return all, nil
		}
	}
}
