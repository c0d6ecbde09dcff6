// Package reconcile decides the fate of every existing and desired order in
// a pulse: keep it, cancel it, place it, or ignore it. Every order that goes
// in comes out in exactly one bucket.
package reconcile

import (
	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/model"
)

// ReconciledOrders partitions one pulse's orders. ToKeep and ToCancel come
// from the existing orders, ToPlace and ToIgnore from the desired ones.
type ReconciledOrders struct {
	ToKeep   []domain.Order
	ToCancel []domain.Order
	ToPlace  []domain.Order
	ToIgnore []domain.Order
}

// CancellingAll reports whether this outcome clears the whole book side by
// side, which lets the executor use a single cancel-all instruction instead
// of cancelling order by order.
func (r ReconciledOrders) CancellingAll() bool {
	return len(r.ToCancel) > 0 && len(r.ToKeep) == 0
}

// Counts returns the partition sizes for logging.
func (r ReconciledOrders) Counts() (keep, cancel, place, ignore int) {
	return len(r.ToKeep), len(r.ToCancel), len(r.ToPlace), len(r.ToIgnore)
}

// Reconciler matches desired orders against whatever is believed to rest on
// the book.
type Reconciler interface {
	Reconcile(s *model.State, existing, desired []domain.Order) (ReconciledOrders, error)
}

// checkConservation verifies the partition did not lose or invent orders.
func checkConservation(existing, desired []domain.Order, out ReconciledOrders) error {
	in := len(existing) + len(desired)
	outCount := len(out.ToKeep) + len(out.ToCancel) + len(out.ToPlace) + len(out.ToIgnore)
	if in != outCount {
		return &domain.CountMismatchError{In: in, Out: outCount}
	}
	return nil
}
