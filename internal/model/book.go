package model

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/infra"
)

// BookModel derives a volume-weighted price center and relative spread from
// the order book. Both sides are walked from the touch, accumulating up to
// price_center_volume of quantity; a single level contributes at most
// book_quote_cutoff so one oversized resting order cannot dominate the
// center. The maker's own resting orders are excluded from the walk.
type BookModel struct {
	cfg *infra.MakerConfig
}

func NewBookModel(cfg *infra.MakerConfig) *BookModel {
	return &BookModel{cfg: cfg}
}

func (m *BookModel) Eval(s *State) (Values, error) {
	book := s.Book()

	bidValue, bidQty := m.walk(book.Bids, s.OrderOwner)
	askValue, askQty := m.walk(book.Asks, s.OrderOwner)

	sumQty := bidQty.Add(askQty)
	if sumQty.IsZero() {
		return Values{}, fmt.Errorf("order book for %s is empty, cannot derive a price center", s.Symbol)
	}

	center := askValue.Add(bidValue).Div(sumQty)
	sideDifference := askValue.Sub(bidValue).Div(sumQty)

	return Values{
		PriceCenter: dec(center),
		BookSpread:  dec(sideDifference.Div(center)),
	}, nil
}

func (m *BookModel) walk(orders []domain.Order, owner string) (value, quantity decimal.Decimal) {
	remaining := m.cfg.PriceCenterVolume.Decimal
	for _, o := range orders {
		if remaining.IsZero() || remaining.IsNegative() {
			break
		}
		if owner != "" && o.Owner == owner {
			continue
		}
		q := decimal.Min(o.Quantity, m.cfg.BookQuoteCutoff.Decimal, remaining)
		value = value.Add(o.Price.Mul(q))
		quantity = quantity.Add(q)
		remaining = remaining.Sub(q)
	}
	return value, quantity
}
