// Package chain builds the desired orders for one pulse. Elements run in
// sequence: the first proposes quotes from the pulse values, later elements
// reprice or drop them. Only orders returned by an element reach the next one.
package chain

import (
	"log/slog"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/infra"
	"github.com/ochaloup/mango-explorer/internal/model"
)

// Element transforms the desired-order sequence. Elements never touch the
// venue; they only decide what the maker would like to rest on the book.
type Element interface {
	Process(s *model.State, orders []domain.Order) []domain.Order
}

// Chain runs its elements in order, threading the order sequence through.
type Chain struct {
	elements []Element
}

func NewChain(elements ...Element) *Chain {
	return &Chain{elements: elements}
}

// Process produces the desired orders for the current state.
func (c *Chain) Process(s *model.State) []domain.Order {
	var orders []domain.Order
	for _, e := range c.elements {
		orders = e.Process(s, orders)
	}
	return orders
}

// Build assembles the standard quoting chain. The taker stage joins in when
// taker_min_profitability is zero or above; it contributes aggressive IOC
// orders alongside the maker quotes, and the self-cross guard then drops
// anything that would match against our own resting quotes.
func Build(cfg *infra.MakerConfig, isPerp bool, logger *slog.Logger) *Chain {
	elements := []Element{
		NewLeveragedFixedRatios(cfg, isPerp, logger),
		NewLimitSpreadNarrowing(cfg, logger),
		NewPreventPostOnlyCrossingBook(logger),
		NewShallowOrdersOnly(cfg, logger),
	}
	if !cfg.TakerMinProfitability.Decimal.IsNegative() {
		elements = append(elements,
			NewSimpleTaker(cfg, isPerp, logger),
			NewPreventCrossing(logger),
		)
	}
	return NewChain(elements...)
}
