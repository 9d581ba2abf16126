// Package pagination lets an operator walk forward and backward through
// status-filtered order pages. The store's index scan is forward-only;
// backward navigation is synthesized by replaying previously seen
// continuation tokens instead of buffering result sets client-side.
package pagination

import (
	"context"

	"github.com/promodeagro/packer-workflow/internal/orders"
)

// Lister is the slice of the orders store the pager needs.
type Lister interface {
	QueryByStatus(ctx context.Context, status string, limit int32, token orders.PageToken) ([]orders.Order, orders.PageToken, error)
}

// Pager tracks the continuation tokens seen while walking one status
// partition. history[0] is always nil (the first page); idx points at the
// token that produces the current page.
type Pager struct {
	status   string
	pageSize int32
	history  []orders.PageToken
	idx      int
}

// New returns a pager positioned on the first page of the given status.
func New(status string, pageSize int32) *Pager {
	return &Pager{
		status:   status,
		pageSize: pageSize,
		history:  []orders.PageToken{nil},
	}
}

// CurrentPage re-issues the query for the current position and returns the
// page plus the token that would start the next one. Tokens pass through
// untouched; the pager never looks inside them.
func (p *Pager) CurrentPage(ctx context.Context, store Lister) ([]orders.Order, orders.PageToken, error) {
	return store.QueryByStatus(ctx, p.status, p.pageSize, p.history[p.idx])
}

// Advance moves to the next page. A nil token means the scan is exhausted;
// that is a terminal boundary, not an error, and the position does not move.
// Reports whether the pager advanced.
func (p *Pager) Advance(next orders.PageToken) bool {
	if next == nil {
		return false
	}
	if p.idx+1 < len(p.history) {
		// token already cached from an earlier walk past this point
		p.idx++
		return true
	}
	p.history = append(p.history, next)
	p.idx++
	return true
}

// Retreat moves back one page. History is kept so advancing again re-derives
// the same pages. Reports whether the pager moved; false means it was
// already on the first page.
func (p *Pager) Retreat() bool {
	if p.idx == 0 {
		return false
	}
	p.idx--
	return true
}

// PageNumber is the 1-based position of the current page.
func (p *Pager) PageNumber() int {
	return p.idx + 1
}
