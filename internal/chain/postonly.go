package chain

import (
	"log/slog"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/model"
)

// PreventPostOnlyCrossingBook keeps post-only orders out of the opposing
// side of the book. The venue would reject a crossing post-only order
// outright, so instead of losing the quote the order is repriced to join its
// own touch.
type PreventPostOnlyCrossingBook struct {
	logger *slog.Logger
}

func NewPreventPostOnlyCrossingBook(logger *slog.Logger) *PreventPostOnlyCrossingBook {
	return &PreventPostOnlyCrossingBook{logger: logger}
}

func (e *PreventPostOnlyCrossingBook) Process(s *model.State, orders []domain.Order) []domain.Order {
	book := s.Book()
	topBid, hasBid := book.TopBid()
	topAsk, hasAsk := book.TopAsk()

	out := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if order.Type != domain.PostOnly {
			out = append(out, order)
			continue
		}

		switch {
		case order.Side == domain.Buy && hasAsk && order.Price.GreaterThanOrEqual(topAsk.Price):
			e.logger.Info("post-only buy would cross, joining the bid",
				"old_price", order.Price, "new_price", topBid.Price)
			if hasBid {
				out = append(out, order.WithPrice(topBid.Price))
			}

		case order.Side == domain.Sell && hasBid && order.Price.LessThanOrEqual(topBid.Price):
			e.logger.Info("post-only sell would cross, joining the ask",
				"old_price", order.Price, "new_price", topAsk.Price)
			if hasAsk {
				out = append(out, order.WithPrice(topAsk.Price))
			}

		default:
			out = append(out, order)
		}
	}
	return out
}
