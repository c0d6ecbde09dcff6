// Package exec sends order instructions to the venue. One pulse produces one
// batch: cancels, placements and the housekeeping instructions the venue
// needs, submitted together.
package exec

import (
	"context"
	"errors"

	"github.com/ochaloup/mango-explorer/internal/domain"
)

// Transient venue failures. A pulse that hits one of these logs it and moves
// on; the next pulse retries naturally.
var (
	ErrRateLimited    = errors.New("venue rate limited the request")
	ErrStaleBlockhash = errors.New("transaction used a stale blockhash")
	ErrNodeBehind     = errors.New("rpc node is behind the cluster")
)

// IsTransient reports whether the error is a known temporary venue failure.
func IsTransient(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrStaleBlockhash) ||
		errors.Is(err, ErrNodeBehind)
}

// Batch is everything one pulse wants done on the venue. When CancelAll is
// set the individual cancels are redundant and the venue-wide instruction is
// used instead.
type Batch struct {
	Place     []domain.Order
	Cancel    []domain.Order
	CancelAll bool

	// Crank processes the venue's event queue, Settle moves filled funds
	// back to the account. Both are no-ops on venues that do not need them.
	Crank  bool
	Settle bool

	// Redeem claims accrued liquidity incentives.
	Redeem bool
}

// Empty reports whether the batch would do nothing.
func (b Batch) Empty() bool {
	return len(b.Place) == 0 && len(b.Cancel) == 0 && !b.CancelAll &&
		!b.Crank && !b.Settle && !b.Redeem
}

// Executor submits instruction batches to a venue.
type Executor interface {
	// Execute submits the batch. Cancels run before placements.
	Execute(ctx context.Context, batch Batch) error

	// OpenOrders lists the maker's orders currently resting on the venue.
	OpenOrders(ctx context.Context) ([]domain.Order, error)
}
