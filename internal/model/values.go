package model

import (
	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/domain"
)

// Values is the bag of quantities produced by the value models during one
// pulse. Fields are pointers so "not computed" is distinguishable from
// "computed as zero"; a model that does not compute a field leaves it nil.
type Values struct {
	ExistingOrders []domain.Order

	PositionBase       *decimal.Decimal
	PositionQuote      *decimal.Decimal
	TotalAvailable     *decimal.Decimal
	LeveragedAvailable *decimal.Decimal

	PriceCenter *decimal.Decimal
	BookSpread  *decimal.Decimal

	FairPrice  *decimal.Decimal
	FairSpread *decimal.Decimal

	BestQuotePriceBid *decimal.Decimal
	BestQuotePriceAsk *decimal.Decimal

	HedgePriceBiasBid *decimal.Decimal
	HedgePriceBiasAsk *decimal.Decimal

	BestQuantityBuy  *decimal.Decimal
	BestQuantitySell *decimal.Decimal
}

// Merge copies every field other has computed into v. Fields other left nil
// are kept as they are, so a later model can never erase an earlier result.
func (v *Values) Merge(other Values) {
	if other.ExistingOrders != nil {
		v.ExistingOrders = other.ExistingOrders
	}
	if other.PositionBase != nil {
		v.PositionBase = other.PositionBase
	}
	if other.PositionQuote != nil {
		v.PositionQuote = other.PositionQuote
	}
	if other.TotalAvailable != nil {
		v.TotalAvailable = other.TotalAvailable
	}
	if other.LeveragedAvailable != nil {
		v.LeveragedAvailable = other.LeveragedAvailable
	}
	if other.PriceCenter != nil {
		v.PriceCenter = other.PriceCenter
	}
	if other.BookSpread != nil {
		v.BookSpread = other.BookSpread
	}
	if other.FairPrice != nil {
		v.FairPrice = other.FairPrice
	}
	if other.FairSpread != nil {
		v.FairSpread = other.FairSpread
	}
	if other.BestQuotePriceBid != nil {
		v.BestQuotePriceBid = other.BestQuotePriceBid
	}
	if other.BestQuotePriceAsk != nil {
		v.BestQuotePriceAsk = other.BestQuotePriceAsk
	}
	if other.HedgePriceBiasBid != nil {
		v.HedgePriceBiasBid = other.HedgePriceBiasBid
	}
	if other.HedgePriceBiasAsk != nil {
		v.HedgePriceBiasAsk = other.HedgePriceBiasAsk
	}
	if other.BestQuantityBuy != nil {
		v.BestQuantityBuy = other.BestQuantityBuy
	}
	if other.BestQuantitySell != nil {
		v.BestQuantitySell = other.BestQuantitySell
	}
}

func dec(d decimal.Decimal) *decimal.Decimal { return &d }
