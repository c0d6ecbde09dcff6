package reconcile

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/model"
)

// InFlightReconciler reconciles without knowing what actually rests on the
// book. The existing orders here are everything that might still be live,
// including orders whose placement or cancellation has not confirmed yet.
// Under that uncertainty a partial cancel is unsafe, so the outcome is all
// or nothing: either every desired order is already acceptably represented
// and nothing changes, or everything potentially live is cancelled and the
// desired orders placed fresh.
type InFlightReconciler struct {
	*ToleranceReconciler
}

func NewInFlightReconciler(priceTolerance, quantityTolerance decimal.Decimal, iocOrderWait time.Duration) *InFlightReconciler {
	return &InFlightReconciler{
		ToleranceReconciler: NewToleranceReconciler(priceTolerance, quantityTolerance, iocOrderWait),
	}
}

func (r *InFlightReconciler) Reconcile(_ *model.State, existing, desired []domain.Order) (ReconciledOrders, error) {
	var desiredIOC, desiredRest []domain.Order
	for _, o := range desired {
		if o.Type == domain.IOC {
			desiredIOC = append(desiredIOC, o)
		} else {
			desiredRest = append(desiredRest, o)
		}
	}

	var placedIOC, ignoredIOC []domain.Order
	for _, o := range desiredIOC {
		if r.allowTaker(o.Side) {
			placedIOC = append(placedIOC, o)
		} else {
			ignoredIOC = append(ignoredIOC, o)
		}
	}

	cancelAll := func() ReconciledOrders {
		return ReconciledOrders{
			ToCancel: existing,
			ToPlace:  append(append([]domain.Order{}, desiredRest...), placedIOC...),
			ToIgnore: ignoredIOC,
		}
	}

	// A side we no longer want to quote but that may still hold orders
	// can only be cleared wholesale.
	if sideAbandoned(existing, desiredRest) {
		out := cancelAll()
		if err := checkConservation(existing, desired, out); err != nil {
			return ReconciledOrders{}, err
		}
		return out, nil
	}

	var toPlace, toIgnore []domain.Order
	for _, want := range desiredRest {
		if !r.withinToleranceOfAll(existing, want) {
			// The desired order deviates from something that might
			// be live on its side. Start over.
			out := cancelAll()
			if err := checkConservation(existing, desired, out); err != nil {
				return ReconciledOrders{}, err
			}
			return out, nil
		}
		if sideEmpty(existing, want.Side) {
			toPlace = append(toPlace, want)
		} else {
			toIgnore = append(toIgnore, want)
		}
	}

	// Nothing deviates: keep whatever might be live, place only into empty
	// sides, ignore the rest of the desired orders.
	out := ReconciledOrders{
		ToKeep:   existing,
		ToPlace:  append(toPlace, placedIOC...),
		ToIgnore: append(toIgnore, ignoredIOC...),
	}

	if err := checkConservation(existing, desired, out); err != nil {
		return ReconciledOrders{}, err
	}
	return out, nil
}

// withinToleranceOfAll reports whether the desired order is acceptably close
// to every potentially live order on its side.
func (r *InFlightReconciler) withinToleranceOfAll(existing []domain.Order, desired domain.Order) bool {
	for _, have := range existing {
		if have.Side != desired.Side {
			continue
		}
		if !r.withinTolerance(have, desired) {
			return false
		}
	}
	return true
}

// sideAbandoned reports whether any side still holds potentially live orders
// while the desired set quotes nothing there.
func sideAbandoned(existing, desired []domain.Order) bool {
	for _, side := range []domain.Side{domain.Buy, domain.Sell} {
		if !sideEmpty(existing, side) && sideEmpty(desired, side) {
			return true
		}
	}
	return false
}

func sideEmpty(orders []domain.Order, side domain.Side) bool {
	for _, o := range orders {
		if o.Side == side {
			return false
		}
	}
	return true
}
