package orderbook

import "github.com/uhyunpark/hyperswap/pkg/app/core/asset"

type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Opposite returns the side an order of this side trades against.
func (s Side) Opposite() Side { return -s }

// Order is a resting limit order. Orders are values; a partial fill replaces
// the queued order with a copy carrying the reduced quantity.
type Order struct {
	ID        uint64
	Side      Side
	Price     float64
	Quantity  uint32
	Timestamp uint64
	Owner     asset.WalletID // empty when the order has no owner
}

// Before reports whether o has priority over other: better price first,
// then earlier timestamp, then lower id. Both orders must be on the same side.
func (o Order) Before(other Order) bool {
	if o.Price != other.Price {
		if o.Side == Sell {
			return o.Price < other.Price
		}
		return o.Price > other.Price
	}
	if o.Timestamp != other.Timestamp {
		return o.Timestamp < other.Timestamp
	}
	return o.ID < other.ID
}

func (o Order) withQuantity(q uint32) Order {
	o.Quantity = q
	return o
}
