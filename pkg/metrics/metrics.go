// Package metrics exposes Prometheus collectors for matching and swap
// activity. A nil *Collector is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const DefaultNamespace = "hyperswap"

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

type Collector struct {
	Trades         *prometheus.CounterVec
	TradedQuantity *prometheus.CounterVec
	RestingOrders  *prometheus.GaugeVec
	OrdersPlaced   *prometheus.CounterVec
	Swaps          *prometheus.CounterVec
	SwapHops       prometheus.Histogram
	Provisions     *prometheus.CounterVec
	LPMinted       *prometheus.CounterVec
}

// NewCollector registers every collector with reg. Passing a fresh
// prometheus.NewRegistry() keeps tests isolated from the default registry.
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	f := promauto.With(reg)

	return &Collector{
		Trades: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "orderbook",
				Name:      "trades_total",
				Help:      "Trades executed by the matching pass",
			},
			[]string{"asset"},
		),
		TradedQuantity: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "orderbook",
				Name:      "traded_quantity_total",
				Help:      "Quantity executed by the matching pass",
			},
			[]string{"asset"},
		),
		RestingOrders: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "orderbook",
				Name:      "resting_orders",
				Help:      "Orders resting in the book after the last matching pass",
			},
			[]string{"asset", "side"},
		),
		OrdersPlaced: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "orderbook",
				Name:      "orders_placed_total",
				Help:      "Orders submitted, by outcome",
			},
			[]string{"asset", "outcome"},
		),
		Swaps: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "amm",
				Name:      "swaps_total",
				Help:      "Swaps attempted, by pool and outcome",
			},
			[]string{"pool", "outcome"},
		),
		SwapHops: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "amm",
				Name:      "swap_hops",
				Help:      "Legs per executed swap",
				Buckets:   []float64{1, 2, 3},
			},
		),
		Provisions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "amm",
				Name:      "liquidity_provisions_total",
				Help:      "Two-sided deposits, by pool and outcome",
			},
			[]string{"pool", "outcome"},
		),
		LPMinted: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "amm",
				Name:      "lp_minted_total",
				Help:      "LP shares minted",
			},
			[]string{"pool"},
		),
	}
}

func (c *Collector) ObserveOrder(asset, outcome string) {
	if c == nil {
		return
	}
	c.OrdersPlaced.WithLabelValues(asset, outcome).Inc()
}

func (c *Collector) ObserveTrade(asset string, qty uint32) {
	if c == nil {
		return
	}
	c.Trades.WithLabelValues(asset).Inc()
	c.TradedQuantity.WithLabelValues(asset).Add(float64(qty))
}

func (c *Collector) SetRestingOrders(asset string, buys, sells int) {
	if c == nil {
		return
	}
	c.RestingOrders.WithLabelValues(asset, "buy").Set(float64(buys))
	c.RestingOrders.WithLabelValues(asset, "sell").Set(float64(sells))
}

func (c *Collector) ObserveSwap(pool, outcome string, hops int) {
	if c == nil {
		return
	}
	c.Swaps.WithLabelValues(pool, outcome).Inc()
	if outcome == OutcomeOK && hops > 0 {
		c.SwapHops.Observe(float64(hops))
	}
}

func (c *Collector) ObserveProvision(pool, outcome string, minted uint64) {
	if c == nil {
		return
	}
	c.Provisions.WithLabelValues(pool, outcome).Inc()
	if minted > 0 {
		c.LPMinted.WithLabelValues(pool).Add(float64(minted))
	}
}
