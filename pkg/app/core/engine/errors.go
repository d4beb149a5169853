package engine

import "errors"

var (
	ErrUnknownAsset    = errors.New("engine: asset not listed")
	ErrUnknownPair     = errors.New("engine: pool not listed")
	ErrInvalidPrice    = errors.New("engine: price must be a positive finite number")
	ErrInvalidQuantity = errors.New("engine: quantity must be positive")
)
