package chain

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/infra"
	"github.com/ochaloup/mango-explorer/internal/model"
)

// ShallowOrdersOnly drops orders that would rest behind more than
// max_order_depth of quantity. An order buried deep in the book never
// trades and only ties up capital. Oversized levels count at most
// book_quote_cutoff each, matching how the price center weighs them.
type ShallowOrdersOnly struct {
	cfg    *infra.MakerConfig
	logger *slog.Logger
}

func NewShallowOrdersOnly(cfg *infra.MakerConfig, logger *slog.Logger) *ShallowOrdersOnly {
	return &ShallowOrdersOnly{cfg: cfg, logger: logger}
}

func (e *ShallowOrdersOnly) Process(s *model.State, orders []domain.Order) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if e.isShallow(s, order) {
			out = append(out, order)
		} else {
			e.logger.Info("dropping order quoted too deep", "order", order.String())
		}
	}
	return out
}

// isShallow reports whether less than max_order_depth of quantity would sit
// in front of the order. Quantity behind the order does not matter.
func (e *ShallowOrdersOnly) isShallow(s *model.State, order domain.Order) bool {
	maxDepth := e.cfg.MaxOrderDepth.Decimal
	cutoff := e.cfg.BookQuoteCutoff.Decimal

	var accumulated decimal.Decimal
	for _, level := range s.Book().Side(order.Side) {
		behind := level.Price.LessThan(order.Price)
		if order.Side == domain.Sell {
			behind = level.Price.GreaterThan(order.Price)
		}
		if behind {
			return true
		}
		accumulated = accumulated.Add(decimal.Min(level.Quantity, cutoff))
		if accumulated.GreaterThanOrEqual(maxDepth) {
			return false
		}
	}
	return false
}
