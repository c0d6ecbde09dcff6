package model

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/infra"
)

// BestQuotePriceModel places the raw quotes symmetrically around the fair
// price at the fair spread.
type BestQuotePriceModel struct{}

func (BestQuotePriceModel) Eval(s *State) (Values, error) {
	if s.Values.FairPrice == nil || s.Values.FairSpread == nil {
		return Values{}, fmt.Errorf("fair price or spread not available for quote prices")
	}
	fairPrice, fairSpread := *s.Values.FairPrice, *s.Values.FairSpread

	one := decimal.NewFromInt(1)
	return Values{
		BestQuotePriceBid: dec(fairPrice.Mul(one.Sub(fairSpread))),
		BestQuotePriceAsk: dec(fairPrice.Mul(one.Add(fairSpread))),
	}, nil
}

// HedgePriceBiasModel skews quotes towards offloading inventory: a long base
// position pulls the ask in, spare quote capital pushes the bid up. The bias
// only ever tightens the quoted spread, never widens it.
type HedgePriceBiasModel struct {
	cfg *infra.MakerConfig
}

func NewHedgePriceBiasModel(cfg *infra.MakerConfig) (*HedgePriceBiasModel, error) {
	one := decimal.NewFromInt(1)
	if cfg.HedgePriceBiasFactor.Decimal.IsPositive() && !cfg.Leverage.Decimal.GreaterThan(one) {
		return nil, domain.NewConfigurationError("hedge_price_bias_factor",
			"requires leverage > 1, but leverage is %s", cfg.Leverage)
	}
	return &HedgePriceBiasModel{cfg: cfg}, nil
}

func (m *HedgePriceBiasModel) Eval(s *State) (Values, error) {
	if s.Values.PositionBase == nil || s.Values.PositionQuote == nil || s.Values.LeveragedAvailable == nil {
		return Values{}, fmt.Errorf("position not available for hedge price bias")
	}

	one := decimal.NewFromInt(1)
	zero := decimal.Zero
	biasFactor := m.cfg.HedgePriceBiasFactor.Decimal
	leveraged := *s.Values.LeveragedAvailable

	if biasFactor.IsZero() || leveraged.IsZero() {
		return Values{
			HedgePriceBiasBid: dec(one),
			HedgePriceBiasAsk: dec(one),
		}, nil
	}

	bidBias := one.Add(decimal.Max(zero, biasFactor.Mul(s.Values.PositionQuote.Div(leveraged))))
	askBias := one.Sub(decimal.Max(zero, biasFactor.Mul(s.Values.PositionBase.Div(leveraged))))

	return Values{
		HedgePriceBiasBid: dec(bidBias),
		HedgePriceBiasAsk: dec(askBias),
	}, nil
}

// BestQuoteQuantityModel sizes the quotes from the capital free on each side.
type BestQuoteQuantityModel struct {
	cfg *infra.MakerConfig
}

func NewBestQuoteQuantityModel(cfg *infra.MakerConfig) *BestQuoteQuantityModel {
	return &BestQuoteQuantityModel{cfg: cfg}
}

func (m *BestQuoteQuantityModel) Eval(s *State) (Values, error) {
	if s.Values.PositionBase == nil || s.Values.PositionQuote == nil || s.Values.LeveragedAvailable == nil {
		return Values{}, fmt.Errorf("position not available for quote quantities")
	}

	leveraged := *s.Values.LeveragedAvailable
	buy := floorQuote(
		m.cfg.PositionSizeRatios[0].Decimal,
		leveraged.Add(*s.Values.PositionQuote),
		m.cfg.MinQuoteSize.Decimal,
	)
	sell := floorQuote(
		m.cfg.PositionSizeRatios[1].Decimal,
		leveraged.Add(*s.Values.PositionBase),
		m.cfg.MinQuoteSize.Decimal,
	)

	return Values{
		BestQuantityBuy:  dec(buy),
		BestQuantitySell: dec(sell),
	}, nil
}

// floorQuote bumps an undersized quote up to the tolerance so there is always
// something resting, unless the available capital itself is below tolerance.
func floorQuote(ratio, x, tol decimal.Decimal) decimal.Decimal {
	size := ratio.Mul(x)
	if size.LessThan(tol) {
		if x.LessThan(tol) || ratio.LessThan(decimal.New(1, -18)) {
			return decimal.Zero
		}
		return tol
	}
	return size
}
