package model

import (
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/infra"
	"github.com/ochaloup/mango-explorer/internal/watch"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPositionModelSpot(t *testing.T) {
	cfg := &infra.MakerConfig{Leverage: infra.Dec("3")}
	model := NewPositionModel(cfg, false, discardLogger())

	s := &State{
		InventoryWatcher: watch.NewWatcherWith(domain.Inventory{
			Base:  decimal.NewFromInt(10),
			Quote: decimal.NewFromInt(2000),
		}),
		Values: Values{
			FairPrice: dec(decimal.NewFromInt(100)),
			ExistingOrders: []domain.Order{
				domain.NewOrder(domain.Sell, decimal.NewFromInt(101), decimal.NewFromInt(5), domain.PostOnly),
				domain.NewOrder(domain.Buy, decimal.NewFromInt(99), decimal.NewFromInt(3), domain.PostOnly),
			},
		},
	}

	values, err := model.Eval(s)
	if err != nil {
		t.Fatal(err)
	}

	// Resting orders count towards the side they settle into:
	// base 10 + 5 resting to sell, quote 2000/100 + 3 resting to buy.
	assertNear(t, "position base", values.PositionBase, "15")
	assertNear(t, "position quote", values.PositionQuote, "23")
	assertNear(t, "total available", values.TotalAvailable, "38")
	assertNear(t, "leveraged available", values.LeveragedAvailable, "76")
}

func TestPositionModelPerp(t *testing.T) {
	cfg := &infra.MakerConfig{Leverage: infra.Dec("2")}
	model := NewPositionModel(cfg, true, discardLogger())

	s := &State{
		InventoryWatcher: watch.NewWatcherWith(domain.Inventory{
			Base:  decimal.NewFromInt(4),
			Quote: decimal.NewFromInt(1000),
		}),
		Values: Values{FairPrice: dec(decimal.NewFromInt(100))},
	}

	values, err := model.Eval(s)
	if err != nil {
		t.Fatal(err)
	}

	assertNear(t, "position base", values.PositionBase, "4")
	assertNear(t, "position quote", values.PositionQuote, "-4")
	assertNear(t, "total available", values.TotalAvailable, "10")
	assertNear(t, "leveraged available", values.LeveragedAvailable, "10")
}

func TestPositionModelNeedsFairPrice(t *testing.T) {
	model := NewPositionModel(&infra.MakerConfig{Leverage: infra.Dec("2")}, false, discardLogger())
	s := &State{InventoryWatcher: watch.NewWatcherWith(domain.Inventory{})}
	if _, err := model.Eval(s); err == nil {
		t.Fatal("expected error without a fair price")
	}
}
