package track

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/model"
)

// delayMetricHalflife smooths the placement-to-confirmation delay estimate.
const delayMetricHalflife = 60

// CancelAllTracker follows orders for venues where cancels are always
// cancel-all and the open-orders listing lags too much to trust. Everything
// ever sent is assumed potentially live until the book proves otherwise.
//
// States: to-be-in-book after placing, in-book once seen, to-be-canceled
// when a cancel-all went out before the order was ever seen, and
// to-be-canceled-from-book when it had been seen. An order seen in the book
// also serves as a progress watermark: every order sent before the latest
// cancel-all that the seen order confirms must itself be gone, so it is
// forgotten.
type CancelAllTracker struct {
	logger *slog.Logger

	toBeInBook           []domain.Order
	inBook               []domain.Order
	toBeCanceled         []domain.Order
	toBeCanceledFromBook []domain.Order

	// Times at which a cancel-all went out alongside new placements.
	cancelAllTimestamps []time.Time

	fromTime map[string]time.Time
	// fromTimeLongterm survives state transitions; it feeds the
	// confirmation delay metric when the open-orders listing finally
	// shows an order.
	fromTimeLongterm map[string]time.Time

	delayMetric *model.EWMA

	now func() time.Time
}

func NewCancelAllTracker(logger *slog.Logger) *CancelAllTracker {
	delayMetric, err := model.NewEWMA(decimal.NewFromInt(delayMetricHalflife))
	if err != nil {
		panic(err)
	}
	return &CancelAllTracker{
		logger:           logger,
		fromTime:         make(map[string]time.Time),
		fromTimeLongterm: make(map[string]time.Time),
		delayMetric:      delayMetric,
		now:              time.Now,
	}
}

func (t *CancelAllTracker) UpdateOnReconcile(toPlace, toCancel []domain.Order) {
	now := t.now()

	if len(toCancel) > 0 {
		// Cancels are cancel-all: every order potentially live moves
		// into a cancelling state, whether or not it was named.
		t.cancelAllTimestamps = append(t.cancelAllTimestamps, now)

		t.toBeCanceled = append(t.toBeCanceled, t.toBeInBook...)
		t.toBeInBook = nil
		t.toBeCanceledFromBook = append(t.toBeCanceledFromBook, t.inBook...)
		t.inBook = nil
	}

	for _, order := range toPlace {
		if order.Type == domain.IOC {
			continue
		}
		t.toBeInBook = append(t.toBeInBook, order)
		t.fromTime[order.ClientID] = now
		t.fromTimeLongterm[order.ClientID] = now
	}
}

func (t *CancelAllTracker) UpdateOnOrderbook(s *model.State) {
	book := s.Book()
	var moved []domain.Order

	for _, order := range append([]domain.Order{}, t.toBeInBook...) {
		if isInBook(order, book.Side(order.Side)) {
			t.toBeInBook = removeByClientID(t.toBeInBook, order.ClientID)
			t.inBook = append(t.inBook, order)
			moved = append(moved, order)
		}
	}

	for _, order := range append([]domain.Order{}, t.toBeCanceled...) {
		if isInBook(order, book.Side(order.Side)) {
			t.toBeCanceled = removeByClientID(t.toBeCanceled, order.ClientID)
			t.toBeCanceledFromBook = append(t.toBeCanceledFromBook, order)
			moved = append(moved, order)
		}
	}

	// A cancelled order that was once seen and is now gone is finished.
	// This also swallows fills of cancelled orders: once it left the book
	// we cannot tell a cancel from a trade.
	for _, order := range append([]domain.Order{}, t.toBeCanceledFromBook...) {
		if !isInBook(order, book.Side(order.Side)) {
			t.toBeCanceledFromBook = removeByClientID(t.toBeCanceledFromBook, order.ClientID)
			t.inBook = removeByClientID(t.inBook, order.ClientID)
			delete(t.fromTime, order.ClientID)
		}
	}

	t.advanceWatermark(moved)
}

// UpdateOnExistingOrders only feeds the confirmation delay metric; the
// open-orders listing carries no state information this tracker trusts.
func (t *CancelAllTracker) UpdateOnExistingOrders(orders []domain.Order) {
	now := t.now()
	for _, order := range orders {
		sentAt, ok := t.fromTimeLongterm[order.ClientID]
		if !ok {
			continue
		}
		delay := decimal.NewFromFloat(now.Sub(sentAt).Seconds())
		t.delayMetric.Update(delay)
		delete(t.fromTimeLongterm, order.ClientID)
	}
}

func (t *CancelAllTracker) ExistingOrders() []domain.Order {
	out := make([]domain.Order, 0,
		len(t.inBook)+len(t.toBeInBook)+len(t.toBeCanceled)+len(t.toBeCanceledFromBook))
	out = append(out, t.inBook...)
	out = append(out, t.toBeInBook...)
	out = append(out, t.toBeCanceled...)
	out = append(out, t.toBeCanceledFromBook...)
	return out
}

func (t *CancelAllTracker) SideOrdersToBeInBook(side domain.Side) []domain.Order {
	var out []domain.Order
	for _, order := range t.toBeInBook {
		if order.Side == side {
			out = append(out, order)
		}
	}
	return out
}

// ConfirmDelay returns the smoothed placement-to-confirmation delay in
// seconds, false before the first confirmation.
func (t *CancelAllTracker) ConfirmDelay() (decimal.Decimal, bool) {
	return t.delayMetric.Latest()
}

// advanceWatermark forgets orders proven dead. An order observed in the
// book confirms that the venue processed its batch; the latest cancel-all
// sent in the same batch must therefore have executed, and anything sent
// before that cancel-all cannot be live any more.
func (t *CancelAllTracker) advanceWatermark(moved []domain.Order) {
	if len(moved) == 0 {
		return
	}

	movedTimes := make(map[time.Time]bool)
	for _, order := range moved {
		if at, ok := t.fromTime[order.ClientID]; ok {
			movedTimes[at] = true
		}
	}

	var latestCancelAll time.Time
	for _, at := range t.cancelAllTimestamps {
		if movedTimes[at] && at.After(latestCancelAll) {
			latestCancelAll = at
		}
	}
	if latestCancelAll.IsZero() {
		return
	}

	for clientID, at := range t.fromTime {
		if !at.Before(latestCancelAll) {
			continue
		}
		t.logger.Info("forgetting order behind cancel-all watermark", "client_id", clientID)
		t.toBeInBook = removeByClientID(t.toBeInBook, clientID)
		t.inBook = removeByClientID(t.inBook, clientID)
		t.toBeCanceled = removeByClientID(t.toBeCanceled, clientID)
		t.toBeCanceledFromBook = removeByClientID(t.toBeCanceledFromBook, clientID)
		delete(t.fromTime, clientID)
	}
}
