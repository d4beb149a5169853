// Package scenario reads YAML scenario files and replays them against a
// MatchingEngine.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/uhyunpark/hyperswap/pkg/app/core/asset"
	"github.com/uhyunpark/hyperswap/pkg/app/core/orderbook"
)

// Step operations.
const (
	OpOrder   = "order"
	OpMatch   = "match"
	OpProvide = "provide"
	OpDeposit = "deposit"
	OpSwap    = "swap"
)

var ErrInvalidScenario = errors.New("scenario: invalid")

type Scenario struct {
	Name   string            `yaml:"name"`
	Assets []asset.AssetID   `yaml:"assets"`
	Pools  [][]asset.AssetID `yaml:"pools"`
	Steps  []Step            `yaml:"steps"`

	// DefaultTolerance applies to provide steps without a tolerance. Nil
	// means the document left it to the caller; zero is an exact match.
	DefaultTolerance *float64 `yaml:"default_tolerance"`
}

// FallbackTolerance sets the default tolerance unless the document set one,
// including an explicit zero.
func (sc *Scenario) FallbackTolerance(tol float64) {
	if sc.DefaultTolerance == nil {
		sc.DefaultTolerance = &tol
	}
}

func (sc *Scenario) defaultTolerance() float64 {
	if sc.DefaultTolerance == nil {
		return 0
	}
	return *sc.DefaultTolerance
}

// Step is one engine call. Which fields matter depends on Op.
type Step struct {
	Op string `yaml:"op"`

	// order
	Asset asset.AssetID  `yaml:"asset"`
	Side  string         `yaml:"side"`
	Price float64        `yaml:"price"`
	Qty   uint32         `yaml:"qty"`
	Owner asset.WalletID `yaml:"owner"`
	TS    *uint64        `yaml:"ts"`

	// provide, deposit
	Wallet      asset.WalletID `yaml:"wallet"`
	TokenA      asset.AssetID  `yaml:"token_a"`
	AmountA     uint64         `yaml:"amount_a"`
	TokenB      asset.AssetID  `yaml:"token_b"`
	AmountB     uint64         `yaml:"amount_b"`
	TargetRatio float64        `yaml:"target_ratio"`
	Tolerance   *float64       `yaml:"tolerance"`
	Token       asset.AssetID  `yaml:"token"`

	// deposit, swap
	Amount   uint64        `yaml:"amount"`
	TokenIn  asset.AssetID `yaml:"token_in"`
	TokenOut asset.AssetID `yaml:"token_out"`
}

func parseSide(s string) (orderbook.Side, error) {
	switch s {
	case "buy", "bid":
		return orderbook.Buy, nil
	case "sell", "ask":
		return orderbook.Sell, nil
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("error parsing scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading scenario file: %w", err)
	}
	return Parse(data)
}

// Validate checks the document shape. Whether the engine accepts each
// step is only known when the scenario runs.
func (sc *Scenario) Validate() error {
	for i, p := range sc.Pools {
		if len(p) != 2 {
			return fmt.Errorf("%w: pool %d must name two assets, got %d", ErrInvalidScenario, i, len(p))
		}
	}
	if sc.DefaultTolerance != nil && *sc.DefaultTolerance < 0 {
		return fmt.Errorf("%w: default_tolerance must not be negative", ErrInvalidScenario)
	}
	for i, st := range sc.Steps {
		switch st.Op {
		case OpOrder:
			if _, err := parseSide(st.Side); err != nil {
				return fmt.Errorf("%w: step %d: %v", ErrInvalidScenario, i, err)
			}
		case OpMatch, OpProvide, OpDeposit, OpSwap:
		default:
			return fmt.Errorf("%w: step %d: unknown op %q", ErrInvalidScenario, i, st.Op)
		}
	}
	return nil
}
