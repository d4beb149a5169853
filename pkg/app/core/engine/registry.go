package engine

import (
	"github.com/uhyunpark/hyperswap/pkg/app/core/amm"
	"github.com/uhyunpark/hyperswap/pkg/app/core/asset"
	"github.com/uhyunpark/hyperswap/pkg/app/core/orderbook"
)

// registry owns the asset → book and pair → pool maps. Registration is
// idempotent: listing a key twice keeps the existing entry and its state.
type registry struct {
	books map[asset.AssetID]*orderbook.OrderBook
	pools map[asset.Pair]*amm.Pool
}

func newRegistry() *registry {
	return &registry{
		books: make(map[asset.AssetID]*orderbook.OrderBook),
		pools: make(map[asset.Pair]*amm.Pool),
	}
}

// registerBook returns true when a new book was created.
func (r *registry) registerBook(id asset.AssetID) bool {
	if _, exists := r.books[id]; exists {
		return false
	}
	r.books[id] = orderbook.NewOrderBook()
	return true
}

func (r *registry) book(id asset.AssetID) (*orderbook.OrderBook, bool) {
	ob, ok := r.books[id]
	return ob, ok
}

// registerPool returns true when a new pool was created by mk.
func (r *registry) registerPool(pair asset.Pair, mk func(asset.Pair) *amm.Pool) bool {
	pair = asset.NewPair(pair.A, pair.B)
	if _, exists := r.pools[pair]; exists {
		return false
	}
	r.pools[pair] = mk(pair)
	return true
}

func (r *registry) pool(pair asset.Pair) (*amm.Pool, bool) {
	p, ok := r.pools[asset.NewPair(pair.A, pair.B)]
	return p, ok
}

// assets returns listed assets in ascending order.
func (r *registry) assets() []asset.AssetID {
	ids := make([]asset.AssetID, 0, len(r.books))
	for id := range r.books {
		ids = append(ids, id)
	}
	return asset.SortIDs(ids)
}

// pairs returns listed pool keys in ascending order.
func (r *registry) pairs() []asset.Pair {
	out := make([]asset.Pair, 0, len(r.pools))
	for p := range r.pools {
		out = append(out, p)
	}
	return asset.SortPairs(out)
}
