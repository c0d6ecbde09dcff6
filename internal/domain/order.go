package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Side is the side of the book an order rests on.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// OrderType determines how the venue treats an order on arrival.
type OrderType string

const (
	// Limit rests in the book, matching first if it crosses.
	Limit OrderType = "LIMIT"
	// PostOnly is rejected by the venue if it would immediately match.
	PostOnly OrderType = "POST_ONLY"
	// IOC executes against resting liquidity immediately or is discarded.
	IOC OrderType = "IOC"
)

// Order is an immutable order value.
//
// Two orders equal by side/price/quantity are not necessarily the same order:
// ClientID is the only stable identity across an order's lifecycle. It is
// assigned by us at placement and echoed back by the venue.
type Order struct {
	Side     Side
	Price    decimal.Decimal
	Quantity decimal.Decimal
	Type     OrderType
	Owner    string

	// ID is the exchange-assigned identifier, empty until confirmed.
	ID string
	// ClientID correlates the order across submit and confirmation.
	ClientID string
}

// NewOrder builds an order with no identity assigned yet.
func NewOrder(side Side, price, quantity decimal.Decimal, typ OrderType) Order {
	return Order{Side: side, Price: price, Quantity: quantity, Type: typ}
}

// WithPrice returns a copy of the order at a different price.
func (o Order) WithPrice(price decimal.Decimal) Order {
	o.Price = price
	return o
}

// WithClientID returns a copy of the order carrying the given client id.
func (o Order) WithClientID(clientID string) Order {
	o.ClientID = clientID
	return o
}

// WithID returns a copy of the order carrying the exchange-assigned id.
func (o Order) WithID(id string) Order {
	o.ID = id
	return o
}

func (o Order) String() string {
	return fmt.Sprintf("%s %s %s @ %s (id=%s client=%s)",
		o.Type, o.Side, o.Quantity, o.Price, o.ID, o.ClientID)
}
