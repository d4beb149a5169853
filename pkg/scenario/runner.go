package scenario

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/hyperswap/pkg/app/core/asset"
	"github.com/uhyunpark/hyperswap/pkg/app/core/engine"
	"github.com/uhyunpark/hyperswap/pkg/app/core/orderbook"
	"github.com/uhyunpark/hyperswap/pkg/util"
)

type Report struct {
	Name   string        `json:"name,omitempty"`
	Steps  []StepResult  `json:"steps"`
	Trades []TradeView   `json:"trades"`
	Books  []BookSummary `json:"books"`
	Pools  []PoolSummary `json:"pools"`
}

type StepResult struct {
	Index     int    `json:"index"`
	Op        string `json:"op"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
	OrderID   uint64 `json:"order_id,omitempty"`
	Trades    int    `json:"trades,omitempty"`
	Minted    uint64 `json:"minted,omitempty"`
	AmountOut uint64 `json:"amount_out,omitempty"`
}

type TradeView struct {
	Asset       asset.AssetID   `json:"asset"`
	BuyOrderID  uint64          `json:"buy_order_id"`
	SellOrderID uint64          `json:"sell_order_id"`
	Price       decimal.Decimal `json:"price"`
	Quantity    uint32          `json:"quantity"`
}

type LevelView struct {
	Price    decimal.Decimal `json:"price"`
	Quantity uint64          `json:"quantity"`
	Orders   int             `json:"orders"`
}

type BookSummary struct {
	Asset      asset.AssetID `json:"asset"`
	BuyVolume  uint64        `json:"buy_volume"`
	SellVolume uint64        `json:"sell_volume"`
	Bids       []LevelView   `json:"bids"`
	Asks       []LevelView   `json:"asks"`
}

type PoolSummary struct {
	Pair      string                    `json:"pair"`
	Reserves  map[asset.AssetID]uint64  `json:"reserves"`
	LPSupply  uint64                    `json:"lp_supply"`
	Positions map[asset.WalletID]uint64 `json:"positions,omitempty"`
}

// summaryDepth bounds the levels listed per side in a report.
const summaryDepth = 10

// Run replays sc against e. Steps without a timestamp are stamped from
// clock. Engine rejections are recorded in the step result and do not stop
// the run; only an invalid document returns an error.
func Run(e *engine.MatchingEngine, sc *Scenario, clock util.Clock) (*Report, error) {
	if sc == nil {
		return nil, fmt.Errorf("%w: nil scenario", ErrInvalidScenario)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	for _, id := range sc.Assets {
		e.ListNewToken(id)
	}
	for _, p := range sc.Pools {
		e.ListPool(asset.NewPair(p[0], p[1]))
	}

	rep := &Report{Name: sc.Name}
	for i, st := range sc.Steps {
		res := StepResult{Index: i, Op: st.Op}
		var err error

		switch st.Op {
		case OpOrder:
			side, _ := parseSide(st.Side)
			ts := util.Timestamp(clock)
			if st.TS != nil {
				ts = *st.TS
			}
			res.OrderID, err = e.PlaceOrder(st.Asset, st.Owner, side, st.Price, st.Qty, ts)

		case OpMatch:
			trades := e.MatchOrders()
			res.Trades = len(trades)
			for _, t := range trades {
				rep.Trades = append(rep.Trades, TradeView{
					Asset:       t.Asset,
					BuyOrderID:  t.BuyOrderID,
					SellOrderID: t.SellOrderID,
					Price:       decimal.NewFromFloat(t.Price),
					Quantity:    t.Quantity,
				})
			}

		case OpProvide:
			tol := sc.defaultTolerance()
			if st.Tolerance != nil {
				tol = *st.Tolerance
			}
			res.Minted, err = e.AddLiquidityPair(st.Wallet, st.TokenA, st.AmountA, st.TokenB, st.AmountB, st.TargetRatio, tol)

		case OpDeposit:
			err = e.AddLiquidity(asset.NewPair(st.TokenA, st.TokenB), st.Token, st.Amount)

		case OpSwap:
			res.AmountOut, err = e.Swap(st.TokenIn, st.TokenOut, st.Amount)
		}

		if err != nil {
			res.Error = err.Error()
		} else {
			res.OK = true
		}
		rep.Steps = append(rep.Steps, res)
	}

	rep.Books = summarizeBooks(e)
	rep.Pools = summarizePools(e)
	return rep, nil
}

func levelViews(levels []orderbook.PriceLevel) []LevelView {
	out := make([]LevelView, 0, len(levels))
	for _, l := range levels {
		out = append(out, LevelView{Price: decimal.NewFromFloat(l.Price), Quantity: l.Quantity, Orders: l.Orders})
	}
	return out
}

func summarizeBooks(e *engine.MatchingEngine) []BookSummary {
	var out []BookSummary
	for _, id := range e.Assets() {
		ob, _ := e.GetOrderBook(id)
		out = append(out, BookSummary{
			Asset:      id,
			BuyVolume:  ob.BuyVolume(),
			SellVolume: ob.SellVolume(),
			Bids:       levelViews(ob.Levels(orderbook.Buy, summaryDepth)),
			Asks:       levelViews(ob.Levels(orderbook.Sell, summaryDepth)),
		})
	}
	return out
}

func summarizePools(e *engine.MatchingEngine) []PoolSummary {
	var out []PoolSummary
	for _, pair := range e.Pairs() {
		p, _ := e.GetPool(pair)
		sum := PoolSummary{
			Pair:     pair.String(),
			Reserves: p.Reserves(),
			LPSupply: p.LPSupply(pair),
		}
		for _, w := range p.Wallets() {
			if bal := p.LPBalance(w, pair); bal > 0 {
				if sum.Positions == nil {
					sum.Positions = make(map[asset.WalletID]uint64)
				}
				sum.Positions[w] = bal
			}
		}
		out = append(out, sum)
	}
	return out
}
