package chain

import (
	"testing"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/model"
)

func TestPreventCrossingDropsBothSidesOfMatch(t *testing.T) {
	orders := []domain.Order{
		order(domain.Buy, "1000", "100", domain.IOC),
		order(domain.Sell, "998", "100", domain.PostOnly),
		order(domain.Sell, "1000", "100", domain.PostOnly),
		order(domain.Sell, "1001", "100", domain.PostOnly),
	}

	got := NewPreventCrossing(discardLogger()).Process(&model.State{}, orders)

	sameOrders(t, got, []domain.Order{orders[3]})
}

func TestPreventCrossingKeepsDisjointSides(t *testing.T) {
	orders := []domain.Order{
		order(domain.Buy, "1000", "100", domain.IOC),
		order(domain.Sell, "1001", "100", domain.PostOnly),
	}

	got := NewPreventCrossing(discardLogger()).Process(&model.State{}, orders)

	sameOrders(t, got, orders)
}

func TestPreventCrossingSingleSide(t *testing.T) {
	orders := []domain.Order{
		order(domain.Sell, "1000", "100", domain.PostOnly),
		order(domain.Sell, "998", "100", domain.PostOnly),
	}

	got := NewPreventCrossing(discardLogger()).Process(&model.State{}, orders)

	sameOrders(t, got, orders)
}
