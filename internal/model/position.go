package model

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/infra"
)

// PositionModel measures inventory in base-token units. On a spot market the
// maker's resting orders count towards the side they would settle into, so
// capital already committed to the book is not quoted twice. On a perp market
// only free quote collateral is available.
type PositionModel struct {
	cfg    *infra.MakerConfig
	isPerp bool
	logger *slog.Logger
}

func NewPositionModel(cfg *infra.MakerConfig, isPerp bool, logger *slog.Logger) *PositionModel {
	return &PositionModel{cfg: cfg, isPerp: isPerp, logger: logger}
}

func (m *PositionModel) Eval(s *State) (Values, error) {
	if s.Values.FairPrice == nil {
		return Values{}, fmt.Errorf("fair price not available for position sizing")
	}
	fairPrice := *s.Values.FairPrice

	inventory := s.Inventory()
	one := decimal.NewFromInt(1)

	var positionBase, positionQuote, totalAvailable decimal.Decimal
	if m.isPerp {
		positionBase = inventory.Base
		positionQuote = inventory.Base.Neg()
		totalAvailable = inventory.Quote.Div(fairPrice)
	} else {
		positionBase = inventory.Base
		positionQuote = inventory.Quote.Div(fairPrice)
		for _, order := range s.Values.ExistingOrders {
			switch order.Side {
			case domain.Sell:
				positionBase = positionBase.Add(order.Quantity)
			case domain.Buy:
				positionQuote = positionQuote.Add(order.Quantity)
			}
		}
		totalAvailable = positionBase.Add(positionQuote)
	}

	leveragedAvailable := m.cfg.Leverage.Decimal.Sub(one).Mul(totalAvailable)

	m.logger.Info("inventory position",
		"position_base", positionBase,
		"position_quote", positionQuote,
		"leveraged_available", leveragedAvailable)

	return Values{
		PositionBase:       dec(positionBase),
		PositionQuote:      dec(positionQuote),
		TotalAvailable:     dec(totalAvailable),
		LeveragedAvailable: dec(leveragedAvailable),
	}, nil
}
