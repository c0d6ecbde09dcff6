package model

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/infra"
)

// FairSpreadModel picks the quoted half-spread: the configured floor, widened
// to track the book's own spread when the market trades wide.
type FairSpreadModel struct {
	cfg *infra.MakerConfig
}

func NewFairSpreadModel(cfg *infra.MakerConfig) *FairSpreadModel {
	return &FairSpreadModel{cfg: cfg}
}

func (m *FairSpreadModel) Eval(s *State) (Values, error) {
	if s.Values.BookSpread == nil {
		return Values{}, fmt.Errorf("book spread not available for fair spread")
	}

	fairSpread := decimal.Max(
		m.cfg.SpreadRatio.Decimal,
		m.cfg.BookSpreadCoef.Decimal.Mul(*s.Values.BookSpread),
	)
	return Values{FairSpread: dec(fairSpread)}, nil
}
