// Package engine is the single entry point over all order books and
// liquidity pools. A MatchingEngine is driven by one owner; it holds no
// locks and performs no I/O.
package engine

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/uhyunpark/hyperswap/pkg/app/core/amm"
	"github.com/uhyunpark/hyperswap/pkg/app/core/asset"
	"github.com/uhyunpark/hyperswap/pkg/app/core/orderbook"
	"github.com/uhyunpark/hyperswap/pkg/metrics"
)

// Trade is one execution produced by MatchOrders.
type Trade struct {
	Asset       asset.AssetID
	BuyOrderID  uint64
	SellOrderID uint64
	Price       float64
	Quantity    uint32
	BuyOwner    asset.WalletID
	SellOwner   asset.WalletID
}

// SwapReceipt describes a completed swap.
type SwapReceipt struct {
	Pool      asset.Pair
	TokenIn   asset.AssetID
	TokenOut  asset.AssetID
	AmountIn  uint64
	AmountOut uint64
	Path      []asset.AssetID
}

// ProvisionReceipt describes an accepted two-sided deposit.
type ProvisionReceipt struct {
	Pool    asset.Pair
	Wallet  asset.WalletID
	TokenA  asset.AssetID
	AmountA uint64
	TokenB  asset.AssetID
	AmountB uint64
	Minted  uint64
}

type MatchingEngine struct {
	reg        *registry
	logger     *zap.Logger
	metrics    *metrics.Collector
	convention amm.RatioConvention
	direct     bool

	// Observers run after the state change they report. They must not call
	// back into the engine.
	OnTrade     func(Trade)
	OnSwap      func(SwapReceipt)
	OnProvision func(ProvisionReceipt)
}

type Option func(*MatchingEngine)

func WithLogger(l *zap.Logger) Option {
	return func(e *MatchingEngine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithMetrics(c *metrics.Collector) Option {
	return func(e *MatchingEngine) { e.metrics = c }
}

// WithRatioConvention sets the convention for pools listed afterwards.
func WithRatioConvention(c amm.RatioConvention) Option {
	return func(e *MatchingEngine) { e.convention = c }
}

// WithDirectRoute sets whether pools listed afterwards may settle a swap on
// the direct leg when no intermediate asset prices positively.
func WithDirectRoute(enabled bool) Option {
	return func(e *MatchingEngine) { e.direct = enabled }
}

func New(opts ...Option) *MatchingEngine {
	e := &MatchingEngine{
		reg:        newRegistry(),
		logger:     zap.NewNop(),
		convention: amm.DefaultRatioConvention,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *MatchingEngine) RatioConvention() amm.RatioConvention { return e.convention }

// ---- order books ----

// ListNewToken creates an empty order book for id. Listing an already
// listed asset keeps its existing book.
func (e *MatchingEngine) ListNewToken(id asset.AssetID) {
	if e.reg.registerBook(id) {
		e.logger.Debug("token listed", zap.Stringer("asset", id))
	}
}

// ListToken lists the ticker of a catalog token.
func (e *MatchingEngine) ListToken(t asset.Token) {
	e.ListNewToken(t.Ticker)
}

func (e *MatchingEngine) GetOrderBook(id asset.AssetID) (*orderbook.OrderBook, bool) {
	return e.reg.book(id)
}

// Assets lists every asset with an order book, ascending.
func (e *MatchingEngine) Assets() []asset.AssetID {
	return e.reg.assets()
}

// PlaceOrder validates an order and rests it in the asset's book. Matching
// happens only in MatchOrders.
func (e *MatchingEngine) PlaceOrder(
	id asset.AssetID,
	owner asset.WalletID,
	side orderbook.Side,
	price float64,
	quantity uint32,
	timestamp uint64,
) (uint64, error) {
	orderID, err := e.placeOrder(id, owner, side, price, quantity, timestamp)
	if err != nil {
		e.metrics.ObserveOrder(string(id), metrics.OutcomeRejected)
		return 0, err
	}
	e.metrics.ObserveOrder(string(id), metrics.OutcomeOK)
	return orderID, nil
}

func (e *MatchingEngine) placeOrder(
	id asset.AssetID,
	owner asset.WalletID,
	side orderbook.Side,
	price float64,
	quantity uint32,
	timestamp uint64,
) (uint64, error) {
	ob, ok := e.reg.book(id)
	if !ok {
		return 0, fmt.Errorf("place order on %s: %w", id, ErrUnknownAsset)
	}
	if side != orderbook.Buy && side != orderbook.Sell {
		return 0, fmt.Errorf("place order on %s: invalid side %d", id, side)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("place order on %s at %v: %w", id, price, ErrInvalidPrice)
	}
	if quantity == 0 {
		return 0, fmt.Errorf("place order on %s: %w", id, ErrInvalidQuantity)
	}
	return ob.AddOwnedOrder(owner, side, price, quantity, timestamp), nil
}

// MatchOrders runs one matching pass over every listed book, in ascending
// asset order, and returns the trades in execution order. Each book is
// matched until its best bid is below its best ask.
func (e *MatchingEngine) MatchOrders() []Trade {
	var trades []Trade
	for _, id := range e.reg.assets() {
		ob, _ := e.reg.book(id)
		fills := ob.MatchCrossing()
		for _, f := range fills {
			t := Trade{
				Asset:       id,
				BuyOrderID:  f.BuyOrderID,
				SellOrderID: f.SellOrderID,
				Price:       f.Price,
				Quantity:    f.Quantity,
				BuyOwner:    f.BuyOwner,
				SellOwner:   f.SellOwner,
			}
			trades = append(trades, t)
			e.metrics.ObserveTrade(string(id), f.Quantity)
			e.logger.Debug("trade",
				zap.Stringer("asset", id),
				zap.Uint64("buy_id", f.BuyOrderID),
				zap.Uint64("sell_id", f.SellOrderID),
				zap.Float64("price", f.Price),
				zap.Uint32("qty", f.Quantity),
			)
			if e.OnTrade != nil {
				e.OnTrade(t)
			}
		}
		e.metrics.SetRestingOrders(string(id), ob.Len(orderbook.Buy), ob.Len(orderbook.Sell))
	}
	return trades
}

// ---- liquidity pools ----

// ListPool creates an empty pool keyed by pair. Listing an existing pair, in
// either asset order, keeps the existing pool.
func (e *MatchingEngine) ListPool(pair asset.Pair) {
	created := e.reg.registerPool(pair, func(p asset.Pair) *amm.Pool {
		return amm.NewPool(p,
			amm.WithLogger(e.logger),
			amm.WithRatioConvention(e.convention),
			amm.WithDirectRoute(e.direct),
		)
	})
	if created {
		e.logger.Debug("pool listed", zap.Stringer("pair", asset.NewPair(pair.A, pair.B)))
	}
}

func (e *MatchingEngine) GetPool(pair asset.Pair) (*amm.Pool, bool) {
	return e.reg.pool(pair)
}

// Pairs lists every pool key, ascending.
func (e *MatchingEngine) Pairs() []asset.Pair {
	return e.reg.pairs()
}

// AddLiquidity credits a single-sided deposit to the pool keyed by pair.
func (e *MatchingEngine) AddLiquidity(pair asset.Pair, token asset.AssetID, amount uint64) error {
	p, ok := e.reg.pool(pair)
	if !ok {
		return fmt.Errorf("add liquidity to %s: %w", pair, ErrUnknownPair)
	}
	return p.AddLiquidity(token, amount)
}

// AddLiquidityPair deposits into the pool keyed by NewPair(tokenA, tokenB)
// and returns the LP shares minted for wallet.
func (e *MatchingEngine) AddLiquidityPair(
	wallet asset.WalletID,
	tokenA asset.AssetID, amountA uint64,
	tokenB asset.AssetID, amountB uint64,
	targetRatio, tolerance float64,
) (uint64, error) {
	pair := asset.NewPair(tokenA, tokenB)
	p, ok := e.reg.pool(pair)
	if !ok {
		e.metrics.ObserveProvision(pair.String(), metrics.OutcomeFailed, 0)
		return 0, fmt.Errorf("add liquidity to %s: %w", pair, ErrUnknownPair)
	}
	minted, err := p.AddLiquidityPair(wallet, tokenA, amountA, tokenB, amountB, targetRatio, tolerance)
	if err != nil {
		outcome := metrics.OutcomeFailed
		if errors.Is(err, amm.ErrRatioOutOfTolerance) {
			outcome = metrics.OutcomeRejected
		}
		e.metrics.ObserveProvision(pair.String(), outcome, 0)
		return 0, err
	}
	e.metrics.ObserveProvision(pair.String(), metrics.OutcomeOK, minted)

	if e.OnProvision != nil {
		e.OnProvision(ProvisionReceipt{
			Pool:    pair,
			Wallet:  wallet,
			TokenA:  tokenA,
			AmountA: amountA,
			TokenB:  tokenB,
			AmountB: amountB,
			Minted:  minted,
		})
	}
	return minted, nil
}

// Swap executes amountIn of tokenIn for tokenOut in the pool keyed by
// NewPair(tokenIn, tokenOut).
func (e *MatchingEngine) Swap(tokenIn, tokenOut asset.AssetID, amountIn uint64) (uint64, error) {
	pair := asset.NewPair(tokenIn, tokenOut)
	p, ok := e.reg.pool(pair)
	if !ok {
		e.metrics.ObserveSwap(pair.String(), metrics.OutcomeFailed, 0)
		return 0, fmt.Errorf("swap %s->%s: %w", tokenIn, tokenOut, ErrUnknownPair)
	}

	route, err := p.Execute(tokenIn, tokenOut, amountIn)
	if err != nil {
		e.metrics.ObserveSwap(pair.String(), metrics.OutcomeFailed, 0)
		return 0, err
	}
	e.metrics.ObserveSwap(pair.String(), metrics.OutcomeOK, route.Hops())

	if e.OnSwap != nil && route.Hops() > 0 {
		e.OnSwap(SwapReceipt{
			Pool:      pair,
			TokenIn:   tokenIn,
			TokenOut:  tokenOut,
			AmountIn:  route.AmountIn,
			AmountOut: route.AmountOut,
			Path:      route.Path,
		})
	}
	return route.AmountOut, nil
}
