// Package track follows the maker's own orders through their venue
// lifecycle. An instruction that was sent is not an order that exists: it
// may confirm seconds later or never. The trackers bridge that gap by
// remembering what was sent and reconciling it against what the book and
// the account actually show.
package track

import (
	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/model"
)

// Tracker is the maker's view of which of its orders might be live.
type Tracker interface {
	// UpdateOnOrderbook folds a fresh book snapshot into the tracked state.
	UpdateOnOrderbook(s *model.State)
	// UpdateOnExistingOrders folds the venue's open-orders listing in.
	UpdateOnExistingOrders(orders []domain.Order)
	// UpdateOnReconcile records the instructions just sent out.
	UpdateOnReconcile(toPlace, toCancel []domain.Order)
	// ExistingOrders returns what the reconciler should treat as
	// potentially live on the book.
	ExistingOrders() []domain.Order
	// SideOrdersToBeInBook returns unconfirmed placements on one side.
	SideOrdersToBeInBook(side domain.Side) []domain.Order
}

// isInBook looks for the order in a book side by client id. Book sides are
// sorted best first, so once the walk has passed two price levels beyond
// where the order would sit it cannot appear any more. The single level of
// grace absorbs books whose snapshot raced our own placement.
func isInBook(order domain.Order, side []domain.Order) bool {
	var firstOutside *decimal.Decimal
	for _, resting := range side {
		if order.ClientID != "" && resting.ClientID == order.ClientID {
			return true
		}

		outside := resting.Price.LessThan(order.Price)
		if order.Side == domain.Sell {
			outside = resting.Price.GreaterThan(order.Price)
		}
		if !outside {
			continue
		}

		if firstOutside == nil {
			p := resting.Price
			firstOutside = &p
			continue
		}
		past := resting.Price.LessThan(*firstOutside)
		if order.Side == domain.Sell {
			past = resting.Price.GreaterThan(*firstOutside)
		}
		if past {
			return false
		}
	}
	return false
}

// removeByClientID drops the first order with the given client id, keeping
// the slice order stable.
func removeByClientID(orders []domain.Order, clientID string) []domain.Order {
	for i, o := range orders {
		if o.ClientID == clientID {
			return append(orders[:i], orders[i+1:]...)
		}
	}
	return orders
}

func containsClientID(orders []domain.Order, clientID string) bool {
	for _, o := range orders {
		if o.ClientID == clientID {
			return true
		}
	}
	return false
}
