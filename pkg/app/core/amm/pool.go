package amm

import (
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/uhyunpark/hyperswap/pkg/app/core/asset"
)

// Pool holds the reserves of every asset deposited under one pair key,
// together with the LP share ledger. It is not safe for concurrent use.
type Pool struct {
	pair       asset.Pair
	reserves   map[asset.AssetID]uint64
	positions  map[asset.WalletID]map[asset.Pair]uint64
	lpSupply   map[asset.Pair]uint64
	convention RatioConvention
	direct     bool
	logger     *zap.Logger
}

type Option func(*Pool)

func WithLogger(l *zap.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithRatioConvention(c RatioConvention) Option {
	return func(p *Pool) { p.convention = c }
}

// WithDirectRoute lets a swap settle on the direct tokenIn->tokenOut leg
// when no intermediate asset prices positively. Off by default: such swaps
// fail with ErrNoRoute.
func WithDirectRoute(enabled bool) Option {
	return func(p *Pool) { p.direct = enabled }
}

func NewPool(pair asset.Pair, opts ...Option) *Pool {
	p := &Pool{
		pair:       pair,
		reserves:   make(map[asset.AssetID]uint64),
		positions:  make(map[asset.WalletID]map[asset.Pair]uint64),
		lpSupply:   make(map[asset.Pair]uint64),
		convention: DefaultRatioConvention,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(zap.Stringer("pool", pair))
	return p
}

func (p *Pool) Pair() asset.Pair                 { return p.pair }
func (p *Pool) RatioConvention() RatioConvention { return p.convention }
func (p *Pool) DirectRoute() bool                { return p.direct }

// Reserve reports the reserve of token; false means the pool has never
// tracked it.
func (p *Pool) Reserve(token asset.AssetID) (uint64, bool) {
	r, ok := p.reserves[token]
	return r, ok
}

// Assets lists tracked assets in ascending order.
func (p *Pool) Assets() []asset.AssetID {
	ids := make([]asset.AssetID, 0, len(p.reserves))
	for id := range p.reserves {
		ids = append(ids, id)
	}
	asset.SortIDs(ids)
	return ids
}

// Reserves returns a copy of the reserve map.
func (p *Pool) Reserves() map[asset.AssetID]uint64 {
	return maps.Clone(p.reserves)
}

// AddLiquidity credits amount to the token's reserve without any ratio
// check or LP accounting.
func (p *Pool) AddLiquidity(token asset.AssetID, amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("deposit %s: %w", token, ErrInvalidAmount)
	}
	next, ok := checkedAdd(p.reserves[token], amount)
	if !ok {
		return fmt.Errorf("deposit %d %s: %w", amount, token, ErrReserveOverflow)
	}
	p.reserves[token] = next
	p.logger.Debug("liquidity added",
		zap.Stringer("token", token),
		zap.Uint64("amount", amount),
		zap.Uint64("reserve", next),
	)
	return nil
}
