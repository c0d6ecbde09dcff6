package chain

import (
	"testing"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/infra"
	"github.com/ochaloup/mango-explorer/internal/model"
)

func takerConfig() *infra.MakerConfig {
	return &infra.MakerConfig{
		TakerMinProfitability:   infra.Dec("0.01"),
		TakerQuantityProportion: infra.Dec("0.5"),
		MinQuoteSize:            infra.Dec("1"),
	}
}

func takerState(fairPrice string) *model.State {
	s := stateWithBook(domain.OrderBook{
		Symbol: "FAKE/FAKE",
		Bids:   []domain.Order{bookOrder(domain.Buy, "100", "10", "other")},
		Asks:   []domain.Order{bookOrder(domain.Sell, "101", "10", "other")},
	})
	s.Values = model.Values{
		FairPrice:        pd(fairPrice),
		BestQuantityBuy:  pd("20"),
		BestQuantitySell: pd("3"),
	}
	return s
}

func TestSimpleTakerBuysThroughTheAsk(t *testing.T) {
	// Fair price 103 clears 101*1.01; half the ask quantity is within the
	// buy capacity.
	got := NewSimpleTaker(takerConfig(), false, discardLogger()).Process(takerState("103"), nil)

	sameOrders(t, got, []domain.Order{
		order(domain.Buy, "101", "5", domain.IOC),
	})
}

func TestSimpleTakerSellCappedByCapacity(t *testing.T) {
	// Fair price 98 is below 100*0.99; half the bid is 5 but only 3 of
	// sell capacity remains.
	got := NewSimpleTaker(takerConfig(), false, discardLogger()).Process(takerState("98"), nil)

	sameOrders(t, got, []domain.Order{
		order(domain.Sell, "100", "3", domain.IOC),
	})
}

func TestSimpleTakerNoEdgeNoOrder(t *testing.T) {
	got := NewSimpleTaker(takerConfig(), false, discardLogger()).Process(takerState("100.5"), nil)
	if len(got) != 0 {
		t.Fatalf("expected no taker orders, got %v", got)
	}
}

func TestSimpleTakerKeepsMakerQuotes(t *testing.T) {
	maker := []domain.Order{order(domain.Buy, "99", "10", domain.PostOnly)}
	got := NewSimpleTaker(takerConfig(), false, discardLogger()).Process(takerState("103"), maker)

	sameOrders(t, got, []domain.Order{
		maker[0],
		order(domain.Buy, "101", "5", domain.IOC),
	})
}
