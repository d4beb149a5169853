package amm

import "errors"

var (
	ErrUnknownAsset          = errors.New("amm: unknown asset")
	ErrSameAsset             = errors.New("amm: both sides name the same asset")
	ErrInsufficientLiquidity = errors.New("amm: insufficient liquidity")
	ErrReserveOverflow       = errors.New("amm: reserve overflow")
	ErrReserveUnderflow      = errors.New("amm: reserve underflow")
	ErrZeroOutput            = errors.New("amm: swap output rounds to zero")
	ErrNoRoute               = errors.New("amm: no intermediate asset yields a positive output")

	// provisioning policy
	ErrRatioOutOfTolerance = errors.New("amm: ratio outside tolerance")
	ErrInvalidAmount       = errors.New("amm: amount must be positive")
	ErrInvalidRatio        = errors.New("amm: target ratio must be a finite number")
	ErrInvalidTolerance    = errors.New("amm: tolerance must be a finite non-negative number")
)
