package model

import (
	"fmt"
	"log/slog"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/infra"
)

// ValueModel computes one slice of the pulse values from the current state.
type ValueModel interface {
	Eval(s *State) (Values, error)
}

// Graph evaluates the value models in dependency order, merging each result
// into the state before the next model runs. The order is fixed: the book
// center feeds the fair price, the fair price feeds position valuation, and
// prices and quantities come last.
type Graph struct {
	models []ValueModel
}

func NewGraph(cfg *infra.MakerConfig, isPerp bool, logger *slog.Logger) (*Graph, error) {
	fairPrice, err := NewFairPriceModel(cfg)
	if err != nil {
		return nil, err
	}
	hedgeBias, err := NewHedgePriceBiasModel(cfg)
	if err != nil {
		return nil, err
	}

	return &Graph{models: []ValueModel{
		NewBookModel(cfg),
		fairPrice,
		NewPositionModel(cfg, isPerp, logger),
		NewFairSpreadModel(cfg),
		BestQuotePriceModel{},
		hedgeBias,
		NewBestQuoteQuantityModel(cfg),
	}}, nil
}

// UpdateValues runs every model against the state, starting from the orders
// currently believed to rest on the book.
func (g *Graph) UpdateValues(s *State, existingOrders []domain.Order) error {
	s.Values = Values{ExistingOrders: existingOrders}
	if s.Values.ExistingOrders == nil {
		s.Values.ExistingOrders = []domain.Order{}
	}

	for _, m := range g.models {
		values, err := m.Eval(s)
		if err != nil {
			return fmt.Errorf("evaluating %T: %w", m, err)
		}
		s.Values.Merge(values)
	}
	return nil
}
