// Package core re-exports the engine surface so callers need a single import
package core

import (
	"github.com/uhyunpark/hyperswap/pkg/app/core/amm"
	"github.com/uhyunpark/hyperswap/pkg/app/core/asset"
	"github.com/uhyunpark/hyperswap/pkg/app/core/engine"
	"github.com/uhyunpark/hyperswap/pkg/app/core/orderbook"
)

// From asset package
type (
	AssetID  = asset.AssetID
	WalletID = asset.WalletID
	Pair     = asset.Pair
	Token    = asset.Token
)

func NewPair(x, y AssetID) Pair { return asset.NewPair(x, y) }

// From orderbook package
type (
	Side       = orderbook.Side
	Order      = orderbook.Order
	Fill       = orderbook.Fill
	PriceLevel = orderbook.PriceLevel
	OrderBook  = orderbook.OrderBook
)

const (
	Buy  = orderbook.Buy
	Sell = orderbook.Sell
)

func NewOrderBook() *OrderBook {
	return orderbook.NewOrderBook()
}

// From amm package
type (
	Pool            = amm.Pool
	Route           = amm.Route
	RatioConvention = amm.RatioConvention
)

const (
	RatioAOverB = amm.RatioAOverB
	RatioBOverA = amm.RatioBOverA
)

// From engine package
type (
	MatchingEngine   = engine.MatchingEngine
	Trade            = engine.Trade
	SwapReceipt      = engine.SwapReceipt
	ProvisionReceipt = engine.ProvisionReceipt
	Option           = engine.Option
)

func NewMatchingEngine(opts ...Option) *MatchingEngine {
	return engine.New(opts...)
}

// Errors callers usually branch on.
var (
	ErrUnknownAsset          = engine.ErrUnknownAsset
	ErrUnknownPair           = engine.ErrUnknownPair
	ErrInvalidPrice          = engine.ErrInvalidPrice
	ErrInvalidQuantity       = engine.ErrInvalidQuantity
	ErrRatioOutOfTolerance   = amm.ErrRatioOutOfTolerance
	ErrInsufficientLiquidity = amm.ErrInsufficientLiquidity
	ErrZeroOutput            = amm.ErrZeroOutput
	ErrNoRoute               = amm.ErrNoRoute
)
