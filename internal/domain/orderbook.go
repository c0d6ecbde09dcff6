package domain

import "github.com/shopspring/decimal"

// OrderBook is a point-in-time snapshot of one market's book.
// Bids are ordered by descending price, asks by ascending price.
type OrderBook struct {
	Symbol string
	Bids   []Order
	Asks   []Order
}

// TopBid returns the best bid, or false if the bid side is empty.
func (b OrderBook) TopBid() (Order, bool) {
	if len(b.Bids) == 0 {
		return Order{}, false
	}
	return b.Bids[0], true
}

// TopAsk returns the best ask, or false if the ask side is empty.
func (b OrderBook) TopAsk() (Order, bool) {
	if len(b.Asks) == 0 {
		return Order{}, false
	}
	return b.Asks[0], true
}

// Spread is top ask minus top bid, zero when either side is empty.
func (b OrderBook) Spread() decimal.Decimal {
	bid, okBid := b.TopBid()
	ask, okAsk := b.TopAsk()
	if !okBid || !okAsk {
		return decimal.Zero
	}
	return ask.Price.Sub(bid.Price)
}

// Mid is the midpoint of top of book, zero when either side is empty.
func (b OrderBook) Mid() decimal.Decimal {
	bid, okBid := b.TopBid()
	ask, okAsk := b.TopAsk()
	if !okBid || !okAsk {
		return decimal.Zero
	}
	return bid.Price.Add(ask.Price).Div(decimal.NewFromInt(2))
}

// Side returns the requested side of the book, best price first.
func (b OrderBook) Side(side Side) []Order {
	if side == Buy {
		return b.Bids
	}
	return b.Asks
}

// Price is an oracle quote for one provider.
type Price struct {
	Bid decimal.Decimal
	Ask decimal.Decimal
}

// Mid returns the quote midpoint.
func (p Price) Mid() decimal.Decimal {
	return p.Bid.Add(p.Ask).Div(decimal.NewFromInt(2))
}

// Inventory is the account's holdings in the market's two instruments.
// Incentives is the accrued liquidity reward balance, redeemable once it
// grows past the configured threshold.
type Inventory struct {
	Base       decimal.Decimal
	Quote      decimal.Decimal
	Incentives decimal.Decimal
}
