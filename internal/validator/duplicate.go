package validator

import (
	"sync"

	"invoiceqc/internal/domain"
)

// DuplicateTracker remembers which (order_number, invoice_date) pairs have
// been seen within one batch. Input order decides which occurrence is
// flagged, so concurrent callers must still feed records in batch order.
type DuplicateTracker struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewDuplicateTracker creates an empty tracker for a single batch.
func NewDuplicateTracker() *DuplicateTracker {
	return &DuplicateTracker{seen: make(map[string]struct{})}
}

// Observe records the invoice's duplicate key and reports whether the same
// key was already observed earlier in the batch. Records lacking either key
// component are never duplicates.
func (t *DuplicateTracker) Observe(rec domain.Record) bool {
	order := rec["order_number"]
	date := rec["invoice_date"]
	if !truthy(order) || !truthy(date) {
		return false
	}
	key := stringify(order) + "|" + stringify(date)

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.seen[key]; ok {
		return true
	}
	t.seen[key] = struct{}{}
	return false
}
