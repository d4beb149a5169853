package amm

import (
	"math/bits"

	"github.com/holiman/uint256"
)

func checkedAdd(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

// mulDiv returns floor(x*y/d). The product is formed in 256 bits so it
// cannot wrap; false means d is zero or the quotient does not fit in uint64.
func mulDiv(x, y, d uint64) (uint64, bool) {
	if d == 0 {
		return 0, false
	}
	q := new(uint256.Int).Mul(uint256.NewInt(x), uint256.NewInt(y))
	q.Div(q, uint256.NewInt(d))
	if !q.IsUint64() {
		return 0, false
	}
	return q.Uint64(), true
}

// quote prices one constant-product leg: with newIn = reserveIn+amountIn the
// payout is floor(reserveOut·reserveIn/newIn). Because reserveIn <= newIn the
// payout never exceeds reserveOut, so the destination reserve stays >= 0.
func quote(reserveIn, reserveOut, amountIn uint64) (uint64, error) {
	if reserveIn == 0 || reserveOut == 0 {
		return 0, ErrInsufficientLiquidity
	}
	if amountIn == 0 {
		return 0, ErrInvalidAmount
	}
	newIn, ok := checkedAdd(reserveIn, amountIn)
	if !ok {
		return 0, ErrReserveOverflow
	}
	out, ok := mulDiv(reserveOut, reserveIn, newIn)
	if !ok || out > reserveOut {
		return 0, ErrReserveUnderflow
	}
	return out, nil
}
