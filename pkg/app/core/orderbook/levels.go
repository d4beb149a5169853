package orderbook

// Levels returns up to depth aggregated price levels for one side, best
// price first (bids high to low, asks low to high). depth <= 0 means all.
func (ob *OrderBook) Levels(s Side, depth int) []PriceLevel {
	var levels []PriceLevel
	visit := func(price float64, lv *level) bool {
		var totalQty uint64
		for _, o := range lv.orders {
			totalQty += uint64(o.Quantity)
		}
		levels = append(levels, PriceLevel{Price: price, Quantity: totalQty, Orders: len(lv.orders)})
		return depth <= 0 || len(levels) < depth
	}

	if s == Buy {
		ob.bids.Reverse(visit)
	} else {
		ob.asks.Scan(visit)
	}
	return levels
}

// Orders returns a copy of one side's resting orders in matching order.
func (ob *OrderBook) Orders(s Side) []Order {
	var out []Order
	visit := func(_ float64, lv *level) bool {
		out = append(out, lv.orders...)
		return true
	}

	if s == Buy {
		ob.bids.Reverse(visit)
	} else {
		ob.asks.Scan(visit)
	}
	return out
}
