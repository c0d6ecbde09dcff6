package chain

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/infra"
	"github.com/ochaloup/mango-explorer/internal/model"
)

// LimitSpreadNarrowing slows down quoting inside the spread. A quote priced
// at or through the opposing touch is pulled back to the touch plus a
// fraction of the distance it wanted to go:
//
//	bid' = top_bid + max(coef*(bid - top_bid), min_ratio*top_bid)
//
// and never past the fair price. Stepping in gradually keeps the maker from
// chasing its own quotes across the spread. The touch is measured from other
// participants' orders only.
type LimitSpreadNarrowing struct {
	cfg    *infra.MakerConfig
	logger *slog.Logger
}

func NewLimitSpreadNarrowing(cfg *infra.MakerConfig, logger *slog.Logger) *LimitSpreadNarrowing {
	return &LimitSpreadNarrowing{cfg: cfg, logger: logger}
}

func (e *LimitSpreadNarrowing) Process(s *model.State, orders []domain.Order) []domain.Order {
	coef := e.cfg.SpreadNarrowingCoef.Decimal
	minRatio := e.cfg.MinPriceIncrementRatio.Decimal
	fairPrice := s.Values.FairPrice

	book := s.Book()
	topBid, hasBid := theirTouch(book.Bids, s.OrderOwner)
	topAsk, hasAsk := theirTouch(book.Asks, s.OrderOwner)
	if !hasBid || !hasAsk || fairPrice == nil {
		return orders
	}

	out := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		switch {
		case order.Side == domain.Buy && order.Price.GreaterThanOrEqual(topBid.Price):
			increment := decimal.Max(
				coef.Mul(order.Price.Sub(topBid.Price)),
				minRatio.Mul(topBid.Price),
			)
			price := decimal.Min(topBid.Price.Add(increment), *fairPrice)
			e.logger.Info("narrowing buy quote towards the touch",
				"old_price", order.Price, "new_price", price, "top_bid", topBid.Price)
			out = append(out, order.WithPrice(price))

		case order.Side == domain.Sell && order.Price.LessThanOrEqual(topAsk.Price):
			increment := decimal.Max(
				coef.Mul(topAsk.Price.Sub(order.Price)),
				minRatio.Mul(topAsk.Price),
			)
			price := decimal.Max(topAsk.Price.Sub(increment), *fairPrice)
			e.logger.Info("narrowing sell quote towards the touch",
				"old_price", order.Price, "new_price", price, "top_ask", topAsk.Price)
			out = append(out, order.WithPrice(price))

		default:
			out = append(out, order)
		}
	}
	return out
}

// theirTouch returns the best order on a side that does not belong to us.
func theirTouch(orders []domain.Order, owner string) (domain.Order, bool) {
	for _, o := range orders {
		if o.Owner != owner {
			return o, true
		}
	}
	return domain.Order{}, false
}
