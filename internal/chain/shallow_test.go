package chain

import (
	"testing"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/infra"
)

func TestShallowOrdersOnly(t *testing.T) {
	cfg := &infra.MakerConfig{
		MaxOrderDepth:   infra.Dec("15"),
		BookQuoteCutoff: infra.Dec("100"),
	}
	book := domain.OrderBook{
		Symbol: "FAKE/FAKE",
		Bids: []domain.Order{
			bookOrder(domain.Buy, "100", "10", "other"),
			bookOrder(domain.Buy, "99", "10", "other"),
			bookOrder(domain.Buy, "98", "10", "other"),
		},
		Asks: []domain.Order{
			bookOrder(domain.Sell, "101", "10", "other"),
			bookOrder(domain.Sell, "102", "10", "other"),
		},
	}

	orders := []domain.Order{
		// In front of the 99 level: shallow, 10 < 15 ahead of it.
		order(domain.Buy, "99.5", "10", domain.PostOnly),
		// Behind 100 and 99: 20 >= 15 in front, too deep.
		order(domain.Buy, "98.5", "10", domain.PostOnly),
		// Better than the whole ask side.
		order(domain.Sell, "100.5", "10", domain.PostOnly),
	}

	got := NewShallowOrdersOnly(cfg, discardLogger()).Process(stateWithBook(book), orders)

	sameOrders(t, got, []domain.Order{orders[0], orders[2]})
}
