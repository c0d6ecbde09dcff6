package chain

import (
	"testing"

	"github.com/ochaloup/mango-explorer/internal/domain"
)

func postonlyBook() domain.OrderBook {
	return domain.OrderBook{
		Symbol: "FAKE/FAKE",
		Bids:   []domain.Order{bookOrder(domain.Buy, "100", "10", "other")},
		Asks:   []domain.Order{bookOrder(domain.Sell, "102", "10", "other")},
	}
}

func TestPreventPostOnlyCrossingBook(t *testing.T) {
	tests := []struct {
		name string
		in   domain.Order
		want domain.Order
	}{
		{
			"crossing buy joins the bid",
			order(domain.Buy, "103", "10", domain.PostOnly),
			order(domain.Buy, "100", "10", domain.PostOnly),
		},
		{
			"crossing sell joins the ask",
			order(domain.Sell, "99", "10", domain.PostOnly),
			order(domain.Sell, "102", "10", domain.PostOnly),
		},
		{
			"inside quote untouched",
			order(domain.Buy, "101", "10", domain.PostOnly),
			order(domain.Buy, "101", "10", domain.PostOnly),
		},
		{
			"ioc passes through",
			order(domain.Buy, "103", "10", domain.IOC),
			order(domain.Buy, "103", "10", domain.IOC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stateWithBook(postonlyBook())
			got := NewPreventPostOnlyCrossingBook(discardLogger()).Process(s, []domain.Order{tt.in})
			sameOrders(t, got, []domain.Order{tt.want})
		})
	}
}
