package amm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uhyunpark/hyperswap/pkg/app/core/asset"
)

func seededPool(t *testing.T, reserves map[asset.AssetID]uint64, opts ...Option) *Pool {
	t.Helper()
	p := NewPool(asset.NewPair(asset.ETH, asset.USDT), opts...)
	for id, amt := range reserves {
		require.NoError(t, p.AddLiquidity(id, amt))
	}
	return p
}

func TestAddLiquidityCreditsReserve(t *testing.T) {
	p := NewPool(asset.NewPair(asset.ETH, asset.USDT))

	_, ok := p.Reserve(asset.ETH)
	assert.False(t, ok)

	require.NoError(t, p.AddLiquidity(asset.ETH, 1000))
	require.NoError(t, p.AddLiquidity(asset.ETH, 50))

	r, ok := p.Reserve(asset.ETH)
	require.True(t, ok)
	assert.Equal(t, uint64(1050), r)
	assert.Equal(t, []asset.AssetID{asset.ETH}, p.Assets())
}

func TestAddLiquidityRejects(t *testing.T) {
	p := NewPool(asset.NewPair(asset.ETH, asset.USDT))
	require.NoError(t, p.AddLiquidity(asset.ETH, math.MaxUint64))

	assert.ErrorIs(t, p.AddLiquidity(asset.ETH, 1), ErrReserveOverflow)
	assert.ErrorIs(t, p.AddLiquidity(asset.USDT, 0), ErrInvalidAmount)

	r, _ := p.Reserve(asset.ETH)
	assert.Equal(t, uint64(math.MaxUint64), r)
	_, ok := p.Reserve(asset.USDT)
	assert.False(t, ok, "rejected deposit must not start tracking an asset")
}

func TestAddLiquidityPairMints(t *testing.T) {
	p := NewPool(asset.NewPair(asset.ETH, asset.USDT))
	lp := asset.NewPair(asset.USDT, asset.ETH)

	minted, err := p.AddLiquidityPair("alice", asset.ETH, 1000, asset.USDT, 500, 2.0, 0.1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), minted)

	minted, err = p.AddLiquidityPair("alice", asset.ETH, 200, asset.USDT, 100, 2.0, 0.1)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), minted)

	assert.Equal(t, uint64(1800), p.LPBalance("alice", lp))
	assert.Equal(t, uint64(1800), p.LPSupply(lp))
	assert.Equal(t, map[asset.Pair]uint64{lp: 1800}, p.Positions("alice"))
	assert.Equal(t, []asset.WalletID{"alice"}, p.Wallets())

	eth, _ := p.Reserve(asset.ETH)
	usdt, _ := p.Reserve(asset.USDT)
	assert.Equal(t, uint64(1200), eth)
	assert.Equal(t, uint64(600), usdt)
}

func TestAddLiquidityPairBOverA(t *testing.T) {
	p := NewPool(asset.NewPair(asset.ETH, asset.USDT), WithRatioConvention(RatioBOverA))

	minted, err := p.AddLiquidityPair("bob", asset.ETH, 1000, asset.USDT, 2000, 2.0, 0.1)
	require.NoError(t, err)
	assert.Equal(t, uint64(3000), minted)

	_, err = p.AddLiquidityPair("bob", asset.ETH, 1000, asset.USDT, 500, 2.0, 0.1)
	assert.ErrorIs(t, err, ErrRatioOutOfTolerance)
}

func TestAddLiquidityPairToleranceBoundary(t *testing.T) {
	p := NewPool(asset.NewPair(asset.ETH, asset.USDT))

	// 1100/500 = 2.2 sits exactly on the edge of 2.0±0.2
	minted, err := p.AddLiquidityPair("alice", asset.ETH, 1100, asset.USDT, 500, 2.0, 0.2)
	require.NoError(t, err)
	assert.Equal(t, uint64(1600), minted)

	_, err = p.AddLiquidityPair("alice", asset.ETH, 1101, asset.USDT, 500, 2.0, 0.2)
	assert.ErrorIs(t, err, ErrRatioOutOfTolerance)
}

func TestAddLiquidityPairRejectionIsNoop(t *testing.T) {
	tests := []struct {
		name    string
		a, b    asset.AssetID
		amtA    uint64
		amtB    uint64
		ratio   float64
		tol     float64
		wantErr error
	}{
		{"ratio out of tolerance", asset.ETH, asset.USDT, 1000, 5000, 2.0, 0.1, ErrRatioOutOfTolerance},
		{"zero amount", asset.ETH, asset.USDT, 0, 500, 2.0, 0.1, ErrInvalidAmount},
		{"same asset", asset.ETH, asset.ETH, 1000, 500, 2.0, 0.1, ErrSameAsset},
		{"negative tolerance", asset.ETH, asset.USDT, 1000, 500, 2.0, -0.1, ErrInvalidTolerance},
		{"nan tolerance", asset.ETH, asset.USDT, 1000, 500, 2.0, math.NaN(), ErrInvalidTolerance},
		{"nan ratio", asset.ETH, asset.USDT, 1000, 500, math.NaN(), 0.1, ErrInvalidRatio},
		{"inf ratio", asset.ETH, asset.USDT, 1000, 500, math.Inf(1), 0.1, ErrInvalidRatio},
		{"reserve overflow", asset.ETH, asset.USDT, math.MaxUint64, math.MaxUint64 / 2, 2.0, 0.1, ErrReserveOverflow},
	}

	for _, conv := range []RatioConvention{RatioAOverB, RatioBOverA} {
		for _, tt := range tests {
			t.Run(conv.String()+"/"+tt.name, func(t *testing.T) {
				p := seededPool(t, map[asset.AssetID]uint64{asset.ETH: 10, asset.USDT: 5}, WithRatioConvention(conv))
				ratio := tt.ratio
				if conv == RatioBOverA && tt.wantErr == ErrReserveOverflow {
					ratio = 0.5
				}
				before := p.Reserves()

				minted, err := p.AddLiquidityPair("alice", tt.a, tt.amtA, tt.b, tt.amtB, ratio, tt.tol)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, minted)
				assert.Equal(t, before, p.Reserves())
				assert.Empty(t, p.Positions("alice"))
				assert.Zero(t, p.LPSupply(asset.NewPair(tt.a, tt.b)))
			})
		}
	}
}

func TestAddLiquidityPairMintsAtReserveCeiling(t *testing.T) {
	p := NewPool(asset.NewPair(asset.ETH, asset.USDT))
	third := uint64(math.MaxUint64 / 3)

	minted, err := p.AddLiquidityPair("alice", asset.ETH, 2*third, asset.USDT, third, 2.0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), minted)
	assert.Equal(t, uint64(math.MaxUint64), p.LPSupply(asset.NewPair(asset.ETH, asset.USDT)))
}

func TestCalculateOutputAmount(t *testing.T) {
	p := seededPool(t, map[asset.AssetID]uint64{asset.ETH: 2000, asset.USDT: 4000})

	// 4000·2000/3000
	out, err := p.CalculateOutputAmount(asset.ETH, asset.USDT, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(2666), out)

	// 2000·4000/4001 truncates
	out, err = p.CalculateOutputAmount(asset.USDT, asset.ETH, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1999), out)

	_, err = p.CalculateOutputAmount(asset.ETH, asset.USDT, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = p.CalculateOutputAmount(asset.ETH, asset.BTC, 10)
	assert.ErrorIs(t, err, ErrUnknownAsset)
	_, err = p.CalculateOutputAmount(asset.ETH, asset.ETH, 10)
	assert.ErrorIs(t, err, ErrSameAsset)

	reserves := p.Reserves()
	assert.Equal(t, uint64(2000), reserves[asset.ETH], "quoting never mutates")
}

func TestTokenSwapWithoutIntermediateFails(t *testing.T) {
	t.Run("two asset pool", func(t *testing.T) {
		p := seededPool(t, map[asset.AssetID]uint64{asset.ETH: 2000, asset.USDT: 4000})
		before := p.Reserves()

		out, err := p.TokenSwap(asset.ETH, asset.USDT, 1000)
		assert.ErrorIs(t, err, ErrNoRoute)
		assert.Zero(t, out)
		assert.Equal(t, before, p.Reserves())

		_, err = p.QuoteSwap(asset.ETH, asset.USDT, 1000)
		assert.ErrorIs(t, err, ErrNoRoute)
	})

	t.Run("intermediate prices to zero", func(t *testing.T) {
		p := seededPool(t, map[asset.AssetID]uint64{asset.ETH: 1000, asset.USDT: 4000, asset.BTC: 1})
		before := p.Reserves()

		// 1·1000/6000 truncates to 0
		_, err := p.TokenSwap(asset.ETH, asset.USDT, 5000)
		assert.ErrorIs(t, err, ErrNoRoute)
		assert.Equal(t, before, p.Reserves())
	})
}

func TestTokenSwapDirectRoute(t *testing.T) {
	p := seededPool(t, map[asset.AssetID]uint64{asset.ETH: 2000, asset.USDT: 4000}, WithDirectRoute(true))
	require.True(t, p.DirectRoute())

	route, err := p.Execute(asset.ETH, asset.USDT, 1000)
	require.NoError(t, err)
	assert.Equal(t, []asset.AssetID{asset.ETH, asset.USDT}, route.Path)
	assert.Equal(t, uint64(2666), route.AmountOut)

	eth, _ := p.Reserve(asset.ETH)
	usdt, _ := p.Reserve(asset.USDT)
	assert.Equal(t, uint64(3000), eth)
	assert.Equal(t, uint64(1334), usdt)
}

func TestTokenSwapRoutesThroughBestIntermediate(t *testing.T) {
	p := seededPool(t, map[asset.AssetID]uint64{
		asset.ETH:  1000,
		asset.USDT: 5000,
		asset.USDC: 4000,
		asset.BTC:  10,
	})

	// ETH->USDC pays 4000·1000/1100 = 3636, ETH->BTC only 9
	route, err := p.QuoteSwap(asset.ETH, asset.USDT, 100)
	require.NoError(t, err)
	assert.Equal(t, []asset.AssetID{asset.ETH, asset.USDC, asset.USDT}, route.Path)
	assert.Equal(t, []Leg{
		{In: asset.ETH, Out: asset.USDC, AmountIn: 100, AmountOut: 3636},
		{In: asset.USDC, Out: asset.USDT, AmountIn: 3636, AmountOut: 455},
	}, route.Legs)
	assert.Equal(t, 2, route.Hops())

	out, err := p.TokenSwap(asset.ETH, asset.USDT, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(455), out)

	assert.Equal(t, map[asset.AssetID]uint64{
		asset.ETH:  1100,
		asset.USDC: 4000,
		asset.USDT: 4545,
		asset.BTC:  10,
	}, p.Reserves())
}

func TestTokenSwapIsAtomic(t *testing.T) {
	p := seededPool(t, map[asset.AssetID]uint64{
		asset.ETH:  1000,
		asset.USDC: 1000,
		asset.USDT: 1,
	})
	before := p.Reserves()

	// first leg yields 990 USDC, the second pays 1·10/1000 = 0
	out, err := p.TokenSwap(asset.ETH, asset.USDT, 10)
	assert.ErrorIs(t, err, ErrZeroOutput)
	assert.Zero(t, out)
	assert.Equal(t, before, p.Reserves())
}

func TestTokenSwapEdgeCases(t *testing.T) {
	t.Run("zero amount", func(t *testing.T) {
		p := seededPool(t, map[asset.AssetID]uint64{asset.ETH: 100, asset.USDT: 100})
		before := p.Reserves()
		out, err := p.TokenSwap(asset.ETH, asset.USDT, 0)
		require.NoError(t, err)
		assert.Zero(t, out)
		assert.Equal(t, before, p.Reserves())
	})

	t.Run("unknown asset", func(t *testing.T) {
		p := seededPool(t, map[asset.AssetID]uint64{asset.ETH: 100})
		_, err := p.TokenSwap(asset.ETH, asset.USDT, 5)
		assert.ErrorIs(t, err, ErrUnknownAsset)
	})

	t.Run("output rounds to zero", func(t *testing.T) {
		p := seededPool(t, map[asset.AssetID]uint64{asset.ETH: 10, asset.USDT: 1}, WithDirectRoute(true))
		_, err := p.TokenSwap(asset.ETH, asset.USDT, 1000)
		assert.ErrorIs(t, err, ErrZeroOutput)
		usdt, _ := p.Reserve(asset.USDT)
		assert.Equal(t, uint64(1), usdt)
	})

	t.Run("input overflow", func(t *testing.T) {
		p := seededPool(t, map[asset.AssetID]uint64{asset.ETH: math.MaxUint64 - 5, asset.USDT: 100}, WithDirectRoute(true))
		_, err := p.TokenSwap(asset.ETH, asset.USDT, 10)
		assert.ErrorIs(t, err, ErrReserveOverflow)
	})
}

func TestSwapReservesStayNonNegative(t *testing.T) {
	p := seededPool(t, map[asset.AssetID]uint64{asset.ETH: 50_000, asset.USDT: 120_000, asset.USDC: 80_000})

	for i, amt := range []uint64{1, 17, 400, 2_500, 9_999, 1 << 40} {
		in, out := asset.ETH, asset.USDT
		if i%2 == 1 {
			in, out = out, in
		}
		before := p.Reserves()
		route, err := p.Execute(in, out, amt)
		if err != nil {
			assert.Equal(t, before, p.Reserves(), "failed swap %d mutated reserves", i)
			continue
		}
		after := p.Reserves()
		var sumBefore, sumAfter uint64
		for id, r := range before {
			sumBefore += r
			sumAfter += after[id]
		}
		assert.Equal(t, sumBefore+amt-route.AmountOut, sumAfter, "swap %d conserves units", i)
		for id, r := range after {
			assert.LessOrEqual(t, r, sumBefore+amt, "reserve %s wrapped", id)
		}
	}
}

func TestParseRatioConvention(t *testing.T) {
	c, err := ParseRatioConvention("B_OVER_A")
	require.NoError(t, err)
	assert.Equal(t, RatioBOverA, c)

	c, err = ParseRatioConvention("a/b")
	require.NoError(t, err)
	assert.Equal(t, RatioAOverB, c)

	_, err = ParseRatioConvention("sideways")
	assert.Error(t, err)
}

func TestMulDiv(t *testing.T) {
	q, ok := mulDiv(math.MaxUint64, math.MaxUint64, math.MaxUint64)
	require.True(t, ok)
	assert.Equal(t, uint64(math.MaxUint64), q)

	_, ok = mulDiv(math.MaxUint64, 2, 1)
	assert.False(t, ok)

	_, ok = mulDiv(1, 1, 0)
	assert.False(t, ok)

	q, ok = mulDiv(7, 3, 2)
	require.True(t, ok)
	assert.Equal(t, uint64(10), q)
}
