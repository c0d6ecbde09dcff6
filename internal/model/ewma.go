// Package model computes the scalar inputs the order chain consumes: book
// center, fair price, position sizing, spread, hedge bias and quote sizes.
package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/domain"
)

// EWMA is an exponential moving average with continuous time decay:
//
//	latest(t) = alpha*value + (1-alpha)*latest(t-1)
//	alpha     = 1 - exp(-ln2/halflife * dt)
//
// where dt is wall-clock seconds since the previous update. Weighting by
// elapsed time keeps the average honest on markets that do not tick at a
// fixed rate. A halflife of zero disables smoothing entirely.
type EWMA struct {
	halflife decimal.Decimal
	latest   decimal.Decimal
	seeded   bool
	lastAt   time.Time

	now func() time.Time
}

// NewEWMA creates an average with the given halflife in seconds.
func NewEWMA(halflife decimal.Decimal) (*EWMA, error) {
	if halflife.IsNegative() {
		return nil, domain.NewConfigurationError("ewma_halflife",
			"should be >= 0, but is %s", halflife)
	}
	return &EWMA{halflife: halflife, now: time.Now}, nil
}

// Update folds a new observation into the average. The first call seeds the
// average with the value itself, with no decay applied.
func (e *EWMA) Update(value decimal.Decimal) {
	now := e.now()
	if !e.seeded {
		e.latest = value
		e.seeded = true
		e.lastAt = now
		return
	}

	if e.halflife.IsZero() {
		e.latest = value
		e.lastAt = now
		return
	}

	dt := now.Sub(e.lastAt).Seconds()
	halflife, _ := e.halflife.Float64()
	alpha := decimal.NewFromFloat(1 - math.Exp(-math.Ln2/halflife*dt))

	one := decimal.NewFromInt(1)
	e.latest = alpha.Mul(value).Add(one.Sub(alpha).Mul(e.latest))
	e.lastAt = now
}

// Latest returns the current average, false before the first update.
func (e *EWMA) Latest() (decimal.Decimal, bool) {
	return e.latest, e.seeded
}
