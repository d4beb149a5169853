package storage

import (
	"fmt"
	"strings"

	"github.com/uhyunpark/hyperswap/pkg/app/core/asset"
)

// Journal key schema:
//
//	trade:<asset>:<seq>     -> TradeRecord
//	swap:<a>:<b>:<seq>      -> SwapRecord
//	lp:<a>:<b>:<seq>        -> ProvisionRecord
//	meta:seq                -> last sequence number (8 bytes, big endian)
//
// Asset components are written as <len>:<id> so an id containing ':' can
// never share a scan prefix with another id. Pools use the normalized pair.
// seq is zero-padded so lexicographic order is insertion order.
const (
	prefixTrade     = "trade:"
	prefixSwap      = "swap:"
	prefixProvision = "lp:"
)

func kSeq() []byte { return []byte("meta:seq") }

// scope builds "<prefix><len>:<id>:" for each id.
func scope(prefix string, ids ...asset.AssetID) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, id := range ids {
		fmt.Fprintf(&b, "%d:%s:", len(id), id)
	}
	return b.String()
}

func withSeq(scope string, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", scope, seq))
}

func tradePrefix(id asset.AssetID) []byte {
	return []byte(scope(prefixTrade, id))
}

func tradeKey(id asset.AssetID, seq uint64) []byte {
	return withSeq(scope(prefixTrade, id), seq)
}

func poolScope(prefix string, pool asset.Pair) string {
	p := asset.NewPair(pool.A, pool.B)
	return scope(prefix, p.A, p.B)
}

func swapPrefix(pool asset.Pair) []byte {
	return []byte(poolScope(prefixSwap, pool))
}

func swapKey(pool asset.Pair, seq uint64) []byte {
	return withSeq(poolScope(prefixSwap, pool), seq)
}

func provisionPrefix(pool asset.Pair) []byte {
	return []byte(poolScope(prefixProvision, pool))
}

func provisionKey(pool asset.Pair, seq uint64) []byte {
	return withSeq(poolScope(prefixProvision, pool), seq)
}

// keyUpperBound returns the exclusive upper bound for a prefix scan
func keyUpperBound(prefix []byte) []byte {
	bound := make([]byte, len(prefix))
	copy(bound, prefix)
	bound[len(bound)-1]++
	return bound
}
