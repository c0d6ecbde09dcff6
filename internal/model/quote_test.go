package model

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/infra"
)

func TestFloorQuote(t *testing.T) {
	tests := []struct {
		name  string
		ratio string
		x     string
		tol   string
		want  string
	}{
		{"regular size", "0.5", "1000", "100", "500"},
		{"bumped to tolerance", "0.01", "1000", "100", "100"},
		{"capital below tolerance", "0.0001", "1", "100", "0"},
		{"vanishing ratio", "0", "1000", "100", "0"},
		{"exactly tolerance", "0.1", "1000", "100", "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := floorQuote(
				decimal.RequireFromString(tt.ratio),
				decimal.RequireFromString(tt.x),
				decimal.RequireFromString(tt.tol),
			)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("floorQuote(%s, %s, %s) = %s, want %s",
					tt.ratio, tt.x, tt.tol, got, tt.want)
			}
		})
	}
}

func TestBestQuotePrice(t *testing.T) {
	s := &State{Values: Values{
		FairPrice:  dec(decimal.NewFromInt(100)),
		FairSpread: dec(decimal.RequireFromString("0.01")),
	}}
	values, err := BestQuotePriceModel{}.Eval(s)
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "bid", values.BestQuotePriceBid, "99")
	assertNear(t, "ask", values.BestQuotePriceAsk, "101")
}

func TestHedgePriceBias(t *testing.T) {
	cfg := &infra.MakerConfig{
		HedgePriceBiasFactor: infra.Dec("0.1"),
		Leverage:             infra.Dec("2"),
	}
	model, err := NewHedgePriceBiasModel(cfg)
	if err != nil {
		t.Fatal(err)
	}

	s := &State{Values: Values{
		PositionBase:       dec(decimal.NewFromInt(50)),
		PositionQuote:      dec(decimal.NewFromInt(-50)),
		LeveragedAvailable: dec(decimal.NewFromInt(100)),
	}}
	values, err := model.Eval(s)
	if err != nil {
		t.Fatal(err)
	}

	// Long base: the ask comes in, the bid never widens.
	assertNear(t, "bid bias", values.HedgePriceBiasBid, "1")
	assertNear(t, "ask bias", values.HedgePriceBiasAsk, "0.95")
}

func TestHedgePriceBiasRequiresLeverage(t *testing.T) {
	cfg := &infra.MakerConfig{
		HedgePriceBiasFactor: infra.Dec("0.1"),
		Leverage:             infra.Dec("1"),
	}
	if _, err := NewHedgePriceBiasModel(cfg); err == nil {
		t.Fatal("expected construction to fail with leverage 1")
	}
}

func TestHedgePriceBiasDisabled(t *testing.T) {
	cfg := &infra.MakerConfig{
		HedgePriceBiasFactor: infra.Dec("0"),
		Leverage:             infra.Dec("1"),
	}
	model, err := NewHedgePriceBiasModel(cfg)
	if err != nil {
		t.Fatal(err)
	}
	s := &State{Values: Values{
		PositionBase:       dec(decimal.NewFromInt(50)),
		PositionQuote:      dec(decimal.NewFromInt(50)),
		LeveragedAvailable: dec(decimal.Zero),
	}}
	values, err := model.Eval(s)
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "bid bias", values.HedgePriceBiasBid, "1")
	assertNear(t, "ask bias", values.HedgePriceBiasAsk, "1")
}

func TestBestQuoteQuantity(t *testing.T) {
	cfg := &infra.MakerConfig{
		PositionSizeRatios: []infra.Decimal{infra.Dec("0.4"), infra.Dec("0.4")},
		MinQuoteSize:       infra.Dec("1"),
	}
	s := &State{Values: Values{
		PositionBase:       dec(decimal.NewFromInt(100)),
		PositionQuote:      dec(decimal.NewFromInt(300)),
		LeveragedAvailable: dec(decimal.NewFromInt(400)),
	}}
	values, err := NewBestQuoteQuantityModel(cfg).Eval(s)
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "buy quantity", values.BestQuantityBuy, "280")
	assertNear(t, "sell quantity", values.BestQuantitySell, "200")
}
