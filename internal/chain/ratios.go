package chain

import (
	"log/slog"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/infra"
	"github.com/ochaloup/mango-explorer/internal/model"
)

// LeveragedFixedRatios proposes the base quotes: post-only orders on both
// sides at the best quote prices, sized by the quantity models. When the
// hedge bias is active and a position has built up past min_quote_size, the
// side that would grow the position is replaced with a single hedging quote
// that unwinds the whole position at a biased price.
type LeveragedFixedRatios struct {
	cfg       *infra.MakerConfig
	isPerp    bool
	orderType domain.OrderType
	logger    *slog.Logger
}

func NewLeveragedFixedRatios(cfg *infra.MakerConfig, isPerp bool, logger *slog.Logger) *LeveragedFixedRatios {
	return &LeveragedFixedRatios{cfg: cfg, isPerp: isPerp, orderType: domain.PostOnly, logger: logger}
}

func (e *LeveragedFixedRatios) Process(s *model.State, orders []domain.Order) []domain.Order {
	v := s.Values
	minQuote := e.cfg.MinQuoteSize.Decimal
	biasFactor := e.cfg.HedgePriceBiasFactor.Decimal

	hedging := biasFactor.IsPositive()

	var out []domain.Order
	if hedging && v.PositionQuote.GreaterThanOrEqual(minQuote) {
		out = append(out, domain.NewOrder(domain.Buy,
			v.HedgePriceBiasBid.Mul(*v.BestQuotePriceBid),
			*v.PositionQuote,
			e.orderType))
	} else if v.BestQuantityBuy.GreaterThanOrEqual(minQuote) {
		out = append(out, domain.NewOrder(domain.Buy,
			*v.BestQuotePriceBid,
			*v.BestQuantityBuy,
			e.orderType))
	}

	if hedging && v.PositionBase.GreaterThanOrEqual(minQuote) {
		out = append(out, domain.NewOrder(domain.Sell,
			v.HedgePriceBiasAsk.Mul(*v.BestQuotePriceAsk),
			*v.PositionBase,
			e.orderType))
	} else if v.BestQuantitySell.GreaterThanOrEqual(minQuote) {
		out = append(out, domain.NewOrder(domain.Sell,
			*v.BestQuotePriceAsk,
			*v.BestQuantitySell,
			e.orderType))
	}

	return out
}
