package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/infra"
	"github.com/ochaloup/mango-explorer/internal/watch"
)

func fairPriceConfig() *infra.MakerConfig {
	return &infra.MakerConfig{
		OracleProviders: []string{"oracle"},
		PriceWeights:    []infra.Decimal{infra.Dec("0.5")},
		EWMAHalflife:    infra.Dec("100"),
		EWMAWeight:      infra.Dec("1"),
	}
}

func TestFairPriceConvergesToCenter(t *testing.T) {
	// A single oracle weighted 0.5 against a book center pinned at 100.
	// The oracle jumps to 102 and stays there; the drift correction decays
	// the jump away and the fair price converges back to the center. With
	// updates one halflife apart each step halves the distance.
	model, err := NewFairPriceModel(fairPriceConfig())
	if err != nil {
		t.Fatal(err)
	}
	model.centerEWMA.now = steppingClock(100 * time.Second)
	model.oracleEWMA["oracle"].now = steppingClock(100 * time.Second)

	oraclePrices := []string{"100", "102", "102", "102", "102", "102"}
	expected := []string{"100", "100.5", "100.25", "100.125", "100.0625", "100.03125"}

	center := decimal.NewFromInt(100)
	for i, p := range oraclePrices {
		price := decimal.RequireFromString(p)
		s := &State{
			PriceWatchers: map[string]*watch.Watcher[domain.Price]{
				"oracle": watch.NewWatcherWith(domain.Price{Bid: price, Ask: price}),
			},
			Values: Values{PriceCenter: dec(center)},
		}

		values, err := model.Eval(s)
		if err != nil {
			t.Fatal(err)
		}
		assertNear(t, "fair price", values.FairPrice, expected[i])
	}
}

func TestFairPriceWeightValidation(t *testing.T) {
	tests := []struct {
		name    string
		weights []infra.Decimal
	}{
		{"sum above one", []infra.Decimal{infra.Dec("0.7"), infra.Dec("0.7")}},
		{"count mismatch", []infra.Decimal{infra.Dec("0.5"), infra.Dec("0.5")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fairPriceConfig()
			cfg.PriceWeights = tt.weights
			if len(tt.weights) > 1 && tt.name == "sum above one" {
				cfg.OracleProviders = []string{"a", "b"}
			}
			if _, err := NewFairPriceModel(cfg); err == nil {
				t.Fatal("expected construction to fail")
			}
		})
	}
}

func TestFairPriceMissingOracle(t *testing.T) {
	model, err := NewFairPriceModel(fairPriceConfig())
	if err != nil {
		t.Fatal(err)
	}
	s := &State{
		PriceWatchers: map[string]*watch.Watcher[domain.Price]{},
		Values:        Values{PriceCenter: dec(decimal.NewFromInt(100))},
	}
	if _, err := model.Eval(s); err == nil {
		t.Fatal("expected error when the oracle has not spoken yet")
	}
}
