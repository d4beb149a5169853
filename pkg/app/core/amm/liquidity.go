package amm

import (
	"fmt"
	"maps"
	"math"
	"math/big"
	"slices"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/uhyunpark/hyperswap/pkg/app/core/asset"
)

func decimalFromUint64(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// depositRatio measures amountA and amountB under the pool's convention.
func (p *Pool) depositRatio(amountA, amountB uint64) decimal.Decimal {
	a, b := decimalFromUint64(amountA), decimalFromUint64(amountB)
	if p.convention == RatioBOverA {
		return b.Div(a)
	}
	return a.Div(b)
}

// AddLiquidityPair deposits both sides of a pair on behalf of wallet and
// mints LP shares. The deposit is accepted only when its ratio lies within
// tolerance of targetRatio. A rejected deposit mints 0 and leaves the pool
// untouched.
func (p *Pool) AddLiquidityPair(
	wallet asset.WalletID,
	tokenA asset.AssetID, amountA uint64,
	tokenB asset.AssetID, amountB uint64,
	targetRatio, tolerance float64,
) (uint64, error) {
	minted, err := p.addLiquidityPair(wallet, tokenA, amountA, tokenB, amountB, targetRatio, tolerance)
	if err != nil {
		p.logger.Debug("liquidity rejected",
			zap.Stringer("wallet", wallet),
			zap.Stringer("token_a", tokenA),
			zap.Uint64("amount_a", amountA),
			zap.Stringer("token_b", tokenB),
			zap.Uint64("amount_b", amountB),
			zap.Float64("target_ratio", targetRatio),
			zap.Float64("tolerance", tolerance),
			zap.Error(err),
		)
		return 0, err
	}
	return minted, nil
}

func (p *Pool) addLiquidityPair(
	wallet asset.WalletID,
	tokenA asset.AssetID, amountA uint64,
	tokenB asset.AssetID, amountB uint64,
	targetRatio, tolerance float64,
) (uint64, error) {
	switch {
	case tokenA == tokenB:
		return 0, fmt.Errorf("provide %s/%s: %w", tokenA, tokenB, ErrSameAsset)
	case amountA == 0 || amountB == 0:
		return 0, fmt.Errorf("provide %d %s + %d %s: %w", amountA, tokenA, amountB, tokenB, ErrInvalidAmount)
	case !finite(targetRatio):
		return 0, fmt.Errorf("target %v: %w", targetRatio, ErrInvalidRatio)
	case !finite(tolerance) || tolerance < 0:
		return 0, fmt.Errorf("tolerance %v: %w", tolerance, ErrInvalidTolerance)
	}

	ratio := p.depositRatio(amountA, amountB)
	diff := ratio.Sub(decimal.NewFromFloat(targetRatio)).Abs()
	if diff.GreaterThan(decimal.NewFromFloat(tolerance)) {
		return 0, fmt.Errorf("ratio %s vs target %v±%v: %w",
			ratio.StringFixed(6), targetRatio, tolerance, ErrRatioOutOfTolerance)
	}

	// Everything below is computed before any state is written.
	nextA, ok := checkedAdd(p.reserves[tokenA], amountA)
	if !ok {
		return 0, fmt.Errorf("provide %d %s: %w", amountA, tokenA, ErrReserveOverflow)
	}
	nextB, ok := checkedAdd(p.reserves[tokenB], amountB)
	if !ok {
		return 0, fmt.Errorf("provide %d %s: %w", amountB, tokenB, ErrReserveOverflow)
	}

	var total uint64
	for id, r := range p.reserves {
		if id == tokenA || id == tokenB {
			continue
		}
		if total, ok = checkedAdd(total, r); !ok {
			return 0, fmt.Errorf("pool total: %w", ErrReserveOverflow)
		}
	}
	if total, ok = checkedAdd(total, nextA); ok {
		total, ok = checkedAdd(total, nextB)
	}
	if !ok {
		return 0, fmt.Errorf("pool total: %w", ErrReserveOverflow)
	}

	// floor(share·total) per side with share = amount/total
	mintA, okA := mulDiv(total, amountA, total)
	mintB, okB := mulDiv(total, amountB, total)
	if !okA || !okB {
		return 0, fmt.Errorf("mint %s: %w", asset.NewPair(tokenA, tokenB), ErrReserveOverflow)
	}
	minted, ok := checkedAdd(mintA, mintB)
	if !ok {
		return 0, fmt.Errorf("mint: %w", ErrReserveOverflow)
	}

	lp := asset.NewPair(tokenA, tokenB)
	supply, ok := checkedAdd(p.lpSupply[lp], minted)
	if !ok {
		return 0, fmt.Errorf("lp supply %s: %w", lp, ErrReserveOverflow)
	}
	balance, ok := checkedAdd(p.positions[wallet][lp], minted)
	if !ok {
		return 0, fmt.Errorf("lp balance %s: %w", lp, ErrReserveOverflow)
	}

	p.reserves[tokenA] = nextA
	p.reserves[tokenB] = nextB
	p.lpSupply[lp] = supply
	pos, exists := p.positions[wallet]
	if !exists {
		pos = make(map[asset.Pair]uint64)
		p.positions[wallet] = pos
	}
	pos[lp] = balance

	p.logger.Debug("liquidity provided",
		zap.Stringer("wallet", wallet),
		zap.Stringer("lp", lp),
		zap.Uint64("minted", minted),
		zap.Uint64("balance", balance),
		zap.Uint64("pool_total", total),
	)
	return minted, nil
}

// LPBalance returns wallet's LP shares for pair.
func (p *Pool) LPBalance(wallet asset.WalletID, pair asset.Pair) uint64 {
	return p.positions[wallet][asset.NewPair(pair.A, pair.B)]
}

// LPSupply returns the LP shares minted so far for pair across all wallets.
func (p *Pool) LPSupply(pair asset.Pair) uint64 {
	return p.lpSupply[asset.NewPair(pair.A, pair.B)]
}

// Positions returns a copy of wallet's LP balances keyed by pair.
func (p *Pool) Positions(wallet asset.WalletID) map[asset.Pair]uint64 {
	return maps.Clone(p.positions[wallet])
}

// Wallets lists every wallet holding LP shares in this pool.
func (p *Pool) Wallets() []asset.WalletID {
	out := make([]asset.WalletID, 0, len(p.positions))
	for w := range p.positions {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}
