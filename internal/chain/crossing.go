package chain

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/model"
)

// PreventCrossing drops every desired order that would match another desired
// order. Self-matching burns fees on both legs for nothing; dropping both
// sides of the match is the safe resolution because it leaves no half of a
// bad trade behind.
type PreventCrossing struct {
	logger *slog.Logger
}

func NewPreventCrossing(logger *slog.Logger) *PreventCrossing {
	return &PreventCrossing{logger: logger}
}

func (e *PreventCrossing) Process(s *model.State, orders []domain.Order) []domain.Order {
	var minSell, maxBuy decimal.Decimal
	var haveSell, haveBuy bool
	for _, order := range orders {
		switch order.Side {
		case domain.Sell:
			if !haveSell || order.Price.LessThan(minSell) {
				minSell = order.Price
				haveSell = true
			}
		case domain.Buy:
			if !haveBuy || order.Price.GreaterThan(maxBuy) {
				maxBuy = order.Price
				haveBuy = true
			}
		}
	}
	if !haveSell || !haveBuy {
		return orders
	}

	out := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		matched := false
		if order.Side == domain.Sell {
			matched = maxBuy.GreaterThanOrEqual(order.Price)
		} else {
			matched = minSell.LessThanOrEqual(order.Price)
		}
		if matched {
			e.logger.Info("dropping self-matched order", "order", order.String())
			continue
		}
		out = append(out, order)
	}
	return out
}
