package chain

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/infra"
	"github.com/ochaloup/mango-explorer/internal/model"
)

// SimpleTaker adds aggressive IOC orders when the fair price clears the
// opposing touch by at least taker_min_profitability. It takes a proportion
// of whatever quantity rests at the touch, capped by what position and
// leverage allow. Maker quotes flowing through the chain are passed along
// untouched.
type SimpleTaker struct {
	cfg    *infra.MakerConfig
	isPerp bool
	logger *slog.Logger
}

func NewSimpleTaker(cfg *infra.MakerConfig, isPerp bool, logger *slog.Logger) *SimpleTaker {
	return &SimpleTaker{cfg: cfg, isPerp: isPerp, logger: logger}
}

func (e *SimpleTaker) Process(s *model.State, orders []domain.Order) []domain.Order {
	fairPrice := s.Values.FairPrice
	if fairPrice == nil {
		return orders
	}

	book := s.Book()
	topBid, hasBid := book.TopBid()
	topAsk, hasAsk := book.TopAsk()

	one := decimal.NewFromInt(1)
	profitability := e.cfg.TakerMinProfitability.Decimal
	proportion := e.cfg.TakerQuantityProportion.Decimal
	minQuote := e.cfg.MinQuoteSize.Decimal

	out := orders
	if hasAsk && fairPrice.GreaterThan(topAsk.Price.Mul(one.Add(profitability))) {
		quantity := decimal.Min(topAsk.Quantity.Mul(proportion), *s.Values.BestQuantityBuy)
		if quantity.GreaterThanOrEqual(minQuote) {
			order := domain.NewOrder(domain.Buy, topAsk.Price, quantity, domain.IOC)
			e.logger.Info("taking the ask", "order", order.String(), "fair_price", fairPrice)
			out = append(out, order)
		}
	}

	if hasBid && fairPrice.LessThan(topBid.Price.Mul(one.Sub(profitability))) {
		quantity := decimal.Min(topBid.Quantity.Mul(proportion), *s.Values.BestQuantitySell)
		if quantity.GreaterThanOrEqual(minQuote) {
			order := domain.NewOrder(domain.Sell, topBid.Price, quantity, domain.IOC)
			e.logger.Info("taking the bid", "order", order.String(), "fair_price", fairPrice)
			out = append(out, order)
		}
	}

	return out
}
