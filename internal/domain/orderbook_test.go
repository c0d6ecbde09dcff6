package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func book(bidPrices, askPrices []int64) OrderBook {
	b := OrderBook{Symbol: "FAKE/USDC"}
	for _, p := range bidPrices {
		b.Bids = append(b.Bids, NewOrder(Buy, decimal.NewFromInt(p), decimal.NewFromInt(1), Limit))
	}
	for _, p := range askPrices {
		b.Asks = append(b.Asks, NewOrder(Sell, decimal.NewFromInt(p), decimal.NewFromInt(1), Limit))
	}
	return b
}

func TestOrderBook_TopAndSpread(t *testing.T) {
	b := book([]int64{100, 99}, []int64{102, 103})

	bid, ok := b.TopBid()
	if !ok || !bid.Price.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("TopBid = %v %v, want 100", bid.Price, ok)
	}
	ask, ok := b.TopAsk()
	if !ok || !ask.Price.Equal(decimal.NewFromInt(102)) {
		t.Fatalf("TopAsk = %v %v, want 102", ask.Price, ok)
	}
	if !b.Spread().Equal(decimal.NewFromInt(2)) {
		t.Errorf("Spread = %s, want 2", b.Spread())
	}
	if !b.Mid().Equal(decimal.NewFromInt(101)) {
		t.Errorf("Mid = %s, want 101", b.Mid())
	}
}

func TestOrderBook_EmptySides(t *testing.T) {
	b := book(nil, []int64{102})

	if _, ok := b.TopBid(); ok {
		t.Error("TopBid on empty bid side should report not ok")
	}
	if !b.Spread().IsZero() || !b.Mid().IsZero() {
		t.Errorf("Spread/Mid with one empty side = %s/%s, want 0/0", b.Spread(), b.Mid())
	}
}

func TestPrice_Mid(t *testing.T) {
	p := Price{Bid: decimal.NewFromInt(99), Ask: decimal.NewFromInt(101)}
	if !p.Mid().Equal(decimal.NewFromInt(100)) {
		t.Errorf("Mid = %s, want 100", p.Mid())
	}
}
