package reconcile

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/model"
)

// ToleranceReconciler matches each desired order against the existing orders
// with a relative tolerance on price and quantity. A matched existing order
// is kept and its desired twin ignored; unmatched desired orders are placed
// and unmatched existing orders cancelled.
//
// A buy only matches a buy, a sell only a sell. Order ids play no part in
// matching. IOC orders never match; they are placed directly, rate limited
// per side so a persistent taker signal does not fire on every pulse.
type ToleranceReconciler struct {
	priceTolerance    decimal.Decimal
	quantityTolerance decimal.Decimal
	iocOrderWait      time.Duration

	// Seeded at construction so a taker order cannot fire before the
	// models have seen any real market data.
	latestTakerOrderAt map[domain.Side]time.Time

	now func() time.Time
}

func NewToleranceReconciler(priceTolerance, quantityTolerance decimal.Decimal, iocOrderWait time.Duration) *ToleranceReconciler {
	now := time.Now
	return &ToleranceReconciler{
		priceTolerance:    priceTolerance,
		quantityTolerance: quantityTolerance,
		iocOrderWait:      iocOrderWait,
		latestTakerOrderAt: map[domain.Side]time.Time{
			domain.Buy:  now(),
			domain.Sell: now(),
		},
		now: now,
	}
}

func (r *ToleranceReconciler) Reconcile(_ *model.State, existing, desired []domain.Order) (ReconciledOrders, error) {
	remaining := make([]domain.Order, len(existing))
	copy(remaining, existing)

	var out ReconciledOrders
	for _, want := range desired {
		if want.Type == domain.IOC {
			if r.allowTaker(want.Side) {
				out.ToPlace = append(out.ToPlace, want)
			} else {
				out.ToIgnore = append(out.ToIgnore, want)
			}
			continue
		}

		if i := r.findAcceptable(want, remaining); i >= 0 {
			out.ToKeep = append(out.ToKeep, remaining[i])
			out.ToIgnore = append(out.ToIgnore, want)
			remaining = append(remaining[:i], remaining[i+1:]...)
		} else {
			out.ToPlace = append(out.ToPlace, want)
		}
	}

	// Whatever found no desired twin gets cancelled.
	out.ToCancel = remaining

	if err := checkConservation(existing, desired, out); err != nil {
		return ReconciledOrders{}, err
	}
	return out, nil
}

// allowTaker enforces the per-side wait between IOC orders and stamps the
// side when it fires.
func (r *ToleranceReconciler) allowTaker(side domain.Side) bool {
	now := r.now()
	if now.Sub(r.latestTakerOrderAt[side]) <= r.iocOrderWait {
		return false
	}
	r.latestTakerOrderAt[side] = now
	return true
}

// findAcceptable returns the index of the first existing order within
// tolerance of the desired one, -1 when nothing matches.
func (r *ToleranceReconciler) findAcceptable(desired domain.Order, existing []domain.Order) int {
	for i, have := range existing {
		if r.withinTolerance(have, desired) {
			return i
		}
	}
	return -1
}

func (r *ToleranceReconciler) withinTolerance(existing, desired domain.Order) bool {
	if existing.Side != desired.Side {
		return false
	}

	priceBand := existing.Price.Mul(r.priceTolerance)
	if desired.Price.GreaterThan(existing.Price.Add(priceBand)) {
		return false
	}
	if desired.Price.LessThan(existing.Price.Sub(priceBand)) {
		return false
	}

	quantityBand := existing.Quantity.Mul(r.quantityTolerance)
	if desired.Quantity.GreaterThan(existing.Quantity.Add(quantityBand)) {
		return false
	}
	if desired.Quantity.LessThan(existing.Quantity.Sub(quantityBand)) {
		return false
	}

	return true
}
