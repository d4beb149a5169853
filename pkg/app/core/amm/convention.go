package amm

import (
	"fmt"
	"strings"
)

// RatioConvention selects how a two-sided deposit's ratio is measured
// before it is compared with the caller's target.
type RatioConvention uint8

const (
	RatioAOverB RatioConvention = iota // amountA / amountB
	RatioBOverA                        // amountB / amountA
)

const DefaultRatioConvention = RatioAOverB

func (c RatioConvention) String() string {
	switch c {
	case RatioAOverB:
		return "a_over_b"
	case RatioBOverA:
		return "b_over_a"
	default:
		return fmt.Sprintf("RatioConvention(%d)", uint8(c))
	}
}

// ParseRatioConvention accepts the names produced by String.
func ParseRatioConvention(s string) (RatioConvention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a_over_b", "a/b":
		return RatioAOverB, nil
	case "b_over_a", "b/a":
		return RatioBOverA, nil
	}
	return DefaultRatioConvention, fmt.Errorf("unknown ratio convention %q", s)
}
