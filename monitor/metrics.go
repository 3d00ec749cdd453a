// Package monitor exposes the Prometheus collectors of the market.
package monitor

import (
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nftmarket"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	ledgerOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Total number of ledger operations by outcome.",
		},
		[]string{"op", "result"},
	)

	ledgerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Duration of ledger operations, registry and payouts included.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"op"},
	)

	escrowHeld = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "escrow",
			Name:      "held_ether",
			Help:      "Value currently held for active auctions.",
		},
	)

	journalPending = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "pending_events",
			Help:      "Events emitted but not yet stored.",
		},
	)

	keeperRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "keeper",
			Name:      "runs_total",
			Help:      "Total number of settlement keeper runs.",
		},
		[]string{"success"},
	)

	keeperSettled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "keeper",
			Name:      "auctions_ended_total",
			Help:      "Expired auctions ended by the keeper.",
		},
	)

	depositsCredited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deposits",
			Name:      "credited_total",
			Help:      "On-chain deposits credited to custodial balances.",
		},
	)

	depositBlock = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "deposits",
			Name:      "scanned_block",
			Help:      "Last chain block scanned for deposits.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		ledgerOps,
		ledgerDuration,
		escrowHeld,
		journalPending,
		keeperRuns,
		keeperSettled,
		depositsCredited,
		depositBlock,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// BeginRequest marks a request in flight; the returned func records it.
func BeginRequest() func(method, path string, status int) {
	start := time.Now()
	httpInFlight.Inc()
	return func(method, path string, status int) {
		httpInFlight.Dec()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordOperation records one ledger operation.
func RecordOperation(op string, err error, duration time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ledgerOps.WithLabelValues(op, result).Inc()
	ledgerDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// SetLedgerGauges publishes the escrow total and the journal backlog.
func SetLedgerGauges(held *big.Int, pending int) {
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(held), big.NewFloat(1e18)).Float64()
	escrowHeld.Set(f)
	journalPending.Set(float64(pending))
}

// RecordKeeperRun records one keeper pass and how many auctions it ended.
func RecordKeeperRun(ended int, success bool) {
	keeperRuns.WithLabelValues(strconv.FormatBool(success)).Inc()
	keeperSettled.Add(float64(ended))
}

// RecordDepositScan records a deposit scan up to block.
func RecordDepositScan(block uint64, credited int) {
	depositBlock.Set(float64(block))
	depositsCredited.Add(float64(credited))
}
