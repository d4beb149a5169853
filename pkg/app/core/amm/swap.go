package amm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/uhyunpark/hyperswap/pkg/app/core/asset"
)

// Leg is one hop of a route.
type Leg struct {
	In        asset.AssetID
	Out       asset.AssetID
	AmountIn  uint64
	AmountOut uint64
}

// Route is a priced swap path. Path lists every asset visited, starting
// with the input and ending with the output.
type Route struct {
	Path      []asset.AssetID
	Legs      []Leg
	AmountIn  uint64
	AmountOut uint64
}

// Hops returns the number of legs.
func (r Route) Hops() int { return len(r.Legs) }

// CalculateOutputAmount prices a single direct leg against the current
// reserves without changing them.
func (p *Pool) CalculateOutputAmount(tokenIn, tokenOut asset.AssetID, amountIn uint64) (uint64, error) {
	if tokenIn == tokenOut {
		return 0, fmt.Errorf("quote %s->%s: %w", tokenIn, tokenOut, ErrSameAsset)
	}
	rIn, ok := p.reserves[tokenIn]
	if !ok {
		return 0, fmt.Errorf("quote %s: %w", tokenIn, ErrUnknownAsset)
	}
	rOut, ok := p.reserves[tokenOut]
	if !ok {
		return 0, fmt.Errorf("quote %s: %w", tokenOut, ErrUnknownAsset)
	}
	out, err := quote(rIn, rOut, amountIn)
	if err != nil {
		return 0, fmt.Errorf("quote %s->%s: %w", tokenIn, tokenOut, err)
	}
	return out, nil
}

// QuoteSwap plans the route TokenSwap would take without executing it.
func (p *Pool) QuoteSwap(tokenIn, tokenOut asset.AssetID, amountIn uint64) (Route, error) {
	route, _, err := p.plan(tokenIn, tokenOut, amountIn)
	return route, err
}

// TokenSwap executes a swap and returns the amount paid out.
func (p *Pool) TokenSwap(tokenIn, tokenOut asset.AssetID, amountIn uint64) (uint64, error) {
	route, err := p.Execute(tokenIn, tokenOut, amountIn)
	if err != nil {
		return 0, err
	}
	return route.AmountOut, nil
}

// Execute is TokenSwap returning the executed route. Every leg is settled
// against a scratch copy of the reserves; the pool is only updated once the
// whole route has been priced, so a failed swap changes nothing.
func (p *Pool) Execute(tokenIn, tokenOut asset.AssetID, amountIn uint64) (Route, error) {
	route, next, err := p.plan(tokenIn, tokenOut, amountIn)
	if err != nil {
		p.logger.Debug("swap failed",
			zap.Stringer("in", tokenIn),
			zap.Stringer("out", tokenOut),
			zap.Uint64("amount_in", amountIn),
			zap.Error(err),
		)
		return Route{}, err
	}
	for id, r := range next {
		p.reserves[id] = r
	}
	if len(route.Legs) > 0 {
		p.logger.Debug("swap executed",
			zap.Stringers("path", route.Path),
			zap.Uint64("amount_in", route.AmountIn),
			zap.Uint64("amount_out", route.AmountOut),
		)
	}
	return route, nil
}

// plan prices the route and returns the reserves it would leave behind for
// every asset it touches. A swap always goes through the best intermediate
// asset; the direct leg is only tried when the pool allows it.
func (p *Pool) plan(tokenIn, tokenOut asset.AssetID, amountIn uint64) (Route, map[asset.AssetID]uint64, error) {
	if tokenIn == tokenOut {
		return Route{}, nil, fmt.Errorf("swap %s->%s: %w", tokenIn, tokenOut, ErrSameAsset)
	}
	for _, id := range []asset.AssetID{tokenIn, tokenOut} {
		if _, ok := p.reserves[id]; !ok {
			return Route{}, nil, fmt.Errorf("swap %s->%s: %s: %w", tokenIn, tokenOut, id, ErrUnknownAsset)
		}
	}
	if amountIn == 0 {
		return Route{Path: []asset.AssetID{tokenIn, tokenOut}}, nil, nil
	}

	var path []asset.AssetID
	via, found := p.bestIntermediate(tokenIn, tokenOut, amountIn)
	switch {
	case found:
		path = []asset.AssetID{tokenIn, via, tokenOut}
	case p.direct:
		path = []asset.AssetID{tokenIn, tokenOut}
	default:
		return Route{}, nil, fmt.Errorf("swap %s->%s: %w", tokenIn, tokenOut, ErrNoRoute)
	}

	scratch := make(map[asset.AssetID]uint64, len(path))
	for _, id := range path {
		scratch[id] = p.reserves[id]
	}

	route := Route{Path: path, AmountIn: amountIn}
	amount := amountIn
	for i := 0; i+1 < len(path); i++ {
		in, out := path[i], path[i+1]
		got, err := quote(scratch[in], scratch[out], amount)
		if err != nil {
			return Route{}, nil, fmt.Errorf("swap leg %s->%s: %w", in, out, err)
		}
		if got == 0 {
			return Route{}, nil, fmt.Errorf("swap leg %s->%s: %w", in, out, ErrZeroOutput)
		}
		scratch[in] += amount // quote rejected overflow
		scratch[out] -= got
		route.Legs = append(route.Legs, Leg{In: in, Out: out, AmountIn: amount, AmountOut: got})
		amount = got
	}
	route.AmountOut = amount
	return route, scratch, nil
}

// bestIntermediate scores every other tracked asset by the output of the
// first leg and returns the one with the largest positive output. Ties go
// to the asset that sorts first.
func (p *Pool) bestIntermediate(tokenIn, tokenOut asset.AssetID, amountIn uint64) (asset.AssetID, bool) {
	var (
		best    asset.AssetID
		bestOut uint64
		found   bool
	)
	rIn := p.reserves[tokenIn]
	for _, id := range p.Assets() {
		if id == tokenIn || id == tokenOut {
			continue
		}
		out, err := quote(rIn, p.reserves[id], amountIn)
		if err != nil || out == 0 {
			continue
		}
		if !found || out > bestOut {
			best, bestOut, found = id, out, true
		}
	}
	return best, found
}
