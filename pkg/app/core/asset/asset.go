// Package asset holds the identifiers shared by order books and liquidity pools.
package asset

import "sort"

// AssetID identifies a tradable asset. Any non-empty string is valid; the
// tickers below are just the ones listed by default.
type AssetID string

const (
	BTC  AssetID = "BTC"
	ETH  AssetID = "ETH"
	USDT AssetID = "USDT"
	XUSD AssetID = "XUSD"
	SOL  AssetID = "SOL"
	BNB  AssetID = "BNB"
	XRP  AssetID = "XRP"
	USDC AssetID = "USDC"
	DOGE AssetID = "DOGE"
	ADA  AssetID = "ADA"
	AVA  AssetID = "AVA"
	DOT  AssetID = "DOT"
	BCH  AssetID = "BCH"
	LINK AssetID = "LINK"
	TRON AssetID = "TRON"
	ICP  AssetID = "ICP"
	LTC  AssetID = "LTC"
	UNI  AssetID = "UNI"
	FIL  AssetID = "FIL"
	ROOT AssetID = "ROOT"
)

func (a AssetID) String() string { return string(a) }

// WalletID is an opaque owner reference. The core attaches no balance or
// signature semantics to it.
type WalletID string

func (w WalletID) String() string { return string(w) }

// Pair identifies a liquidity pool. A and B are stored in ascending order so
// NewPair(x, y) == NewPair(y, x) and map lookups are symmetric.
type Pair struct {
	A AssetID
	B AssetID
}

func NewPair(x, y AssetID) Pair {
	if y < x {
		x, y = y, x
	}
	return Pair{A: x, B: y}
}

// Contains reports whether id is one of the pair's assets.
func (p Pair) Contains(id AssetID) bool { return p.A == id || p.B == id }

// Other returns the asset on the opposite side of id.
// Returns false if id is not part of the pair.
func (p Pair) Other(id AssetID) (AssetID, bool) {
	switch id {
	case p.A:
		return p.B, true
	case p.B:
		return p.A, true
	}
	return "", false
}

func (p Pair) String() string { return string(p.A) + "-" + string(p.B) }

// SortIDs sorts asset ids ascending in place and returns the slice.
func SortIDs(ids []AssetID) []AssetID {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SortPairs orders pairs by A then B.
func SortPairs(pairs []Pair) []Pair {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs
}
