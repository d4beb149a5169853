package orderbook

import (
	"github.com/tidwall/btree"

	"github.com/uhyunpark/hyperswap/pkg/app/core/asset"
)

// Fill is one execution between the oldest orders at the best bid and ask.
type Fill struct {
	BuyOrderID  uint64
	SellOrderID uint64
	Price       float64 // resting sell price
	Quantity    uint32
	BuyOwner    asset.WalletID
	SellOwner   asset.WalletID
}

// PriceLevel is an aggregated view of one price.
type PriceLevel struct {
	Price    float64
	Quantity uint64 // total qty at this price level
	Orders   int
}

// level holds the FIFO queue for one price, oldest first.
type level struct {
	price  float64
	orders []Order
}

type orderRef struct {
	side  Side
	price float64
}

// OrderBook keeps resting orders for a single asset. It is not safe for
// concurrent use; the owning engine serializes access.
type OrderBook struct {
	bids *btree.Map[float64, *level]
	asks *btree.Map[float64, *level]

	// order ID -> location, for lookups
	index map[uint64]orderRef

	nextID uint64
}

func NewOrderBook() *OrderBook {
	return &OrderBook{
		bids:   btree.NewMap[float64, *level](32),
		asks:   btree.NewMap[float64, *level](32),
		index:  make(map[uint64]orderRef),
		nextID: 1,
	}
}

func (ob *OrderBook) side(s Side) *btree.Map[float64, *level] {
	if s == Buy {
		return ob.bids
	}
	return ob.asks
}

// AddOrder queues an order at the back of its price level and returns the
// assigned id. Price and quantity are not validated here.
func (ob *OrderBook) AddOrder(side Side, price float64, quantity uint32, timestamp uint64) uint64 {
	return ob.AddOwnedOrder("", side, price, quantity, timestamp)
}

// AddOwnedOrder is AddOrder with an owner reference attached.
func (ob *OrderBook) AddOwnedOrder(owner asset.WalletID, side Side, price float64, quantity uint32, timestamp uint64) uint64 {
	id := ob.nextID
	ob.nextID++

	o := Order{
		ID:        id,
		Side:      side,
		Price:     price,
		Quantity:  quantity,
		Timestamp: timestamp,
		Owner:     owner,
	}

	levels := ob.side(side)
	lv, ok := levels.Get(price)
	if !ok {
		lv = &level{price: price}
		levels.Set(price, lv)
	}
	lv.orders = append(lv.orders, o)
	ob.index[id] = orderRef{side: side, price: price}
	return id
}

// BestPrice returns the highest bid or the lowest ask.
func (ob *OrderBook) BestPrice(s Side) (float64, bool) {
	var (
		p  float64
		ok bool
	)
	if s == Buy {
		p, _, ok = ob.bids.Max()
	} else {
		p, _, ok = ob.asks.Min()
	}
	return p, ok
}

func (ob *OrderBook) BestBuyPrice() (float64, bool)  { return ob.BestPrice(Buy) }
func (ob *OrderBook) BestSellPrice() (float64, bool) { return ob.BestPrice(Sell) }

// Volume sums the resting quantity of one side across all price levels.
func (ob *OrderBook) Volume(s Side) uint64 {
	var total uint64
	ob.side(s).Scan(func(_ float64, lv *level) bool {
		for _, o := range lv.orders {
			total += uint64(o.Quantity)
		}
		return true
	})
	return total
}

func (ob *OrderBook) BuyVolume() uint64  { return ob.Volume(Buy) }
func (ob *OrderBook) SellVolume() uint64 { return ob.Volume(Sell) }

// Len returns the number of resting orders on one side.
func (ob *OrderBook) Len(s Side) int {
	n := 0
	ob.side(s).Scan(func(_ float64, lv *level) bool {
		n += len(lv.orders)
		return true
	})
	return n
}

// Order looks up a resting order by id.
func (ob *OrderBook) Order(id uint64) (Order, bool) {
	ref, ok := ob.index[id]
	if !ok {
		return Order{}, false
	}
	lv, ok := ob.side(ref.side).Get(ref.price)
	if !ok {
		return Order{}, false
	}
	for _, o := range lv.orders {
		if o.ID == id {
			return o, true
		}
	}
	return Order{}, false
}

// MatchCrossing executes the oldest order at the best bid against the oldest
// order at the best ask until the book no longer crosses. Trades print at
// the resting sell price. A partially filled order keeps its place at the
// front of its level.
func (ob *OrderBook) MatchCrossing() []Fill {
	var fills []Fill
	for {
		bidP, bidLv, ok := ob.bids.Max()
		if !ok {
			break
		}
		askP, askLv, ok := ob.asks.Min()
		if !ok || bidP < askP {
			break
		}

		buy := bidLv.orders[0]
		sell := askLv.orders[0]
		qty := min(buy.Quantity, sell.Quantity)

		fills = append(fills, Fill{
			BuyOrderID:  buy.ID,
			SellOrderID: sell.ID,
			Price:       sell.Price,
			Quantity:    qty,
			BuyOwner:    buy.Owner,
			SellOwner:   sell.Owner,
		})

		ob.consumeHead(ob.bids, bidLv, qty)
		ob.consumeHead(ob.asks, askLv, qty)
	}
	return fills
}

// consumeHead takes qty from the first order of lv, dropping the order and
// then the level once they are empty.
func (ob *OrderBook) consumeHead(levels *btree.Map[float64, *level], lv *level, qty uint32) {
	head := lv.orders[0]
	if head.Quantity > qty {
		lv.orders[0] = head.withQuantity(head.Quantity - qty)
		return
	}

	lv.orders[0] = Order{}
	lv.orders = lv.orders[1:]
	delete(ob.index, head.ID)
	if len(lv.orders) == 0 {
		levels.Delete(lv.price)
	}
}
