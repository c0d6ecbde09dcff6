package track

import (
	"log/slog"
	"time"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/model"
)

// OrderTracker follows orders individually. It fits venues where the
// open-orders listing is reliable: the listing is authoritative for what is
// live, the book snapshot only accelerates confirmation.
//
// An order moves through three states: to-be-in-book after the placement is
// sent, in-book once observed, to-be-canceled after a cancel is sent. A
// cancelled order disappears when the book no longer shows it. Placements
// and cancels that never confirm are forgotten after thresholdLifeInFlight.
type OrderTracker struct {
	logger *slog.Logger

	toBeInBook   []domain.Order
	inBook       []domain.Order
	toBeCanceled []domain.Order

	fromTimeToBeInBook   map[string]time.Time
	fromTimeToBeCanceled map[string]time.Time

	thresholdLifeInFlight time.Duration

	now func() time.Time
}

func NewOrderTracker(thresholdLifeInFlight time.Duration, logger *slog.Logger) *OrderTracker {
	return &OrderTracker{
		logger:                logger,
		fromTimeToBeInBook:    make(map[string]time.Time),
		fromTimeToBeCanceled:  make(map[string]time.Time),
		thresholdLifeInFlight: thresholdLifeInFlight,
		now:                   time.Now,
	}
}

func (t *OrderTracker) UpdateOnReconcile(toPlace, toCancel []domain.Order) {
	now := t.now()

	for _, order := range toCancel {
		t.inBook = removeByClientID(t.inBook, order.ClientID)
		t.toBeInBook = removeByClientID(t.toBeInBook, order.ClientID)
		delete(t.fromTimeToBeInBook, order.ClientID)

		t.toBeCanceled = append(t.toBeCanceled, order)
		t.fromTimeToBeCanceled[order.ClientID] = now
	}

	for _, order := range toPlace {
		if order.Type == domain.IOC {
			continue
		}
		t.toBeInBook = append(t.toBeInBook, order)
		t.fromTimeToBeInBook[order.ClientID] = now
	}
}

func (t *OrderTracker) UpdateOnOrderbook(s *model.State) {
	book := s.Book()

	for _, order := range append([]domain.Order{}, t.toBeInBook...) {
		if isInBook(order, book.Side(order.Side)) {
			t.toBeInBook = removeByClientID(t.toBeInBook, order.ClientID)
			delete(t.fromTimeToBeInBook, order.ClientID)
			t.inBook = append(t.inBook, order)
		}
	}

	// A cancelled order gone from the book is done with.
	for _, order := range append([]domain.Order{}, t.toBeCanceled...) {
		if !isInBook(order, book.Side(order.Side)) {
			t.toBeCanceled = removeByClientID(t.toBeCanceled, order.ClientID)
			delete(t.fromTimeToBeCanceled, order.ClientID)
		}
	}

	t.forgetExpired()
}

// UpdateOnExistingOrders takes the venue's open-orders listing as the truth
// for what rests on the book.
func (t *OrderTracker) UpdateOnExistingOrders(orders []domain.Order) {
	// Confirm placements the listing shows.
	for _, order := range append([]domain.Order{}, t.toBeInBook...) {
		if containsClientID(orders, order.ClientID) {
			t.toBeInBook = removeByClientID(t.toBeInBook, order.ClientID)
			delete(t.fromTimeToBeInBook, order.ClientID)
			t.inBook = append(t.inBook, order)
		}
	}

	// An in-book order missing from the listing was filled.
	for _, order := range append([]domain.Order{}, t.inBook...) {
		if !containsClientID(orders, order.ClientID) {
			t.inBook = removeByClientID(t.inBook, order.ClientID)
		}
	}

	// A listed order we track nowhere means a cancel failed after we had
	// already forgotten it. Adopt it so the reconciler can cancel it again.
	for _, order := range orders {
		if !t.tracked(order.ClientID) {
			t.logger.Warn("adopting unknown live order", "order", order.String())
			t.inBook = append(t.inBook, order)
		}
	}
}

func (t *OrderTracker) ExistingOrders() []domain.Order {
	out := make([]domain.Order, 0, len(t.inBook)+len(t.toBeInBook))
	out = append(out, t.inBook...)
	out = append(out, t.toBeInBook...)
	return out
}

func (t *OrderTracker) SideOrdersToBeInBook(side domain.Side) []domain.Order {
	var out []domain.Order
	for _, order := range t.toBeInBook {
		if order.Side == side {
			out = append(out, order)
		}
	}
	return out
}

// OrdersInBook returns the orders confirmed on the book.
func (t *OrderTracker) OrdersInBook() []domain.Order {
	return append([]domain.Order{}, t.inBook...)
}

// OrdersToBeCanceled returns the cancels not yet confirmed.
func (t *OrderTracker) OrdersToBeCanceled() []domain.Order {
	return append([]domain.Order{}, t.toBeCanceled...)
}

func (t *OrderTracker) tracked(clientID string) bool {
	return containsClientID(t.inBook, clientID) ||
		containsClientID(t.toBeInBook, clientID) ||
		containsClientID(t.toBeCanceled, clientID)
}

// forgetExpired drops in-flight orders whose confirmation never arrived.
// Without this a placement lost by the venue would pin its side forever.
func (t *OrderTracker) forgetExpired() {
	if t.thresholdLifeInFlight <= 0 {
		return
	}
	deadline := t.now().Add(-t.thresholdLifeInFlight)

	for clientID, at := range t.fromTimeToBeInBook {
		if at.Before(deadline) {
			t.logger.Warn("placement never confirmed, forgetting", "client_id", clientID)
			t.toBeInBook = removeByClientID(t.toBeInBook, clientID)
			delete(t.fromTimeToBeInBook, clientID)
		}
	}
	for clientID, at := range t.fromTimeToBeCanceled {
		if at.Before(deadline) {
			t.logger.Warn("cancel never confirmed, forgetting", "client_id", clientID)
			t.toBeCanceled = removeByClientID(t.toBeCanceled, clientID)
			delete(t.fromTimeToBeCanceled, clientID)
		}
	}
}
