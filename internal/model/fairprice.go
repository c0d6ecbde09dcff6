package model

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/infra"
)

// FairPriceModel blends the oracle prices with the book's own price center.
// Each oracle contributes its mid price corrected by the smoothed drift
// between that oracle and the book center:
//
//	fair = sum_i w_i * (mid_i - k*(ewma(mid_i) - ewma(center)))
//	       + (1 - sum_i w_i) * center
//
// where k is ewma_weight. The correction term discounts a persistent basis
// between an oracle and this venue while still following the oracle's moves.
type FairPriceModel struct {
	cfg *infra.MakerConfig

	weights    map[string]decimal.Decimal
	centerCoef decimal.Decimal

	centerEWMA *EWMA
	oracleEWMA map[string]*EWMA
}

func NewFairPriceModel(cfg *infra.MakerConfig) (*FairPriceModel, error) {
	if len(cfg.PriceWeights) != len(cfg.OracleProviders) {
		return nil, domain.NewConfigurationError("price_weights",
			"got %d weights for %d oracle providers", len(cfg.PriceWeights), len(cfg.OracleProviders))
	}

	one := decimal.NewFromInt(1)
	weights := make(map[string]decimal.Decimal, len(cfg.OracleProviders))
	var sum decimal.Decimal
	for i, provider := range cfg.OracleProviders {
		weights[provider] = cfg.PriceWeights[i].Decimal
		sum = sum.Add(cfg.PriceWeights[i].Decimal)
	}
	if sum.IsNegative() || sum.GreaterThan(one) {
		return nil, domain.NewConfigurationError("price_weights",
			"should sum to [0, 1], but sum to %s", sum)
	}

	centerEWMA, err := NewEWMA(cfg.EWMAHalflife.Decimal)
	if err != nil {
		return nil, err
	}
	oracleEWMA := make(map[string]*EWMA, len(cfg.OracleProviders))
	for _, provider := range cfg.OracleProviders {
		e, err := NewEWMA(cfg.EWMAHalflife.Decimal)
		if err != nil {
			return nil, err
		}
		oracleEWMA[provider] = e
	}

	return &FairPriceModel{
		cfg:        cfg,
		weights:    weights,
		centerCoef: one.Sub(sum),
		centerEWMA: centerEWMA,
		oracleEWMA: oracleEWMA,
	}, nil
}

func (m *FairPriceModel) Eval(s *State) (Values, error) {
	if s.Values.PriceCenter == nil {
		return Values{}, fmt.Errorf("price center not available for fair price")
	}
	center := *s.Values.PriceCenter

	m.centerEWMA.Update(center)
	centerAvg, _ := m.centerEWMA.Latest()

	fair := m.centerCoef.Mul(center)
	for provider, weight := range m.weights {
		price, ok := s.Price(provider)
		if !ok {
			return Values{}, fmt.Errorf("no oracle price from %s yet", provider)
		}
		mid := price.Mid()

		ewma := m.oracleEWMA[provider]
		ewma.Update(mid)
		oracleAvg, _ := ewma.Latest()

		drift := m.cfg.EWMAWeight.Decimal.Mul(oracleAvg.Sub(centerAvg))
		fair = fair.Add(weight.Mul(mid.Sub(drift)))
	}

	return Values{FairPrice: dec(fair)}, nil
}
