// Package metrics defines the Prometheus collectors exported by the ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "groupledger"

// Metrics holds the ledger collectors. A nil *Metrics is valid and records
// nothing, so services can run without a registry.
type Metrics struct {
	BillsPosted    prometheus.Counter
	EntriesCreated prometheus.Counter
	EntriesSettled prometheus.Counter
	Discrepancies  prometheus.Counter
	RPCDuration    *prometheus.HistogramVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		BillsPosted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bills_posted_total",
			Help:      "Bills posted to a group ledger.",
		}),
		EntriesCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_created_total",
			Help:      "Ledger entries appended.",
		}),
		EntriesSettled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_settled_total",
			Help:      "Ledger entries flagged settled.",
		}),
		Discrepancies: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocation_discrepancies_total",
			Help:      "Allocations whose member totals missed the grand total by more than the tolerance.",
		}),
		RPCDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Connect RPC latency by procedure and result code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}
}

// BillPosted records one posted bill that produced n entries.
func (m *Metrics) BillPosted(n int) {
	if m == nil {
		return
	}
	m.BillsPosted.Inc()
	m.EntriesCreated.Add(float64(n))
}

// EntriesAppended records n imported entries.
func (m *Metrics) EntriesAppended(n int) {
	if m == nil {
		return
	}
	m.EntriesCreated.Add(float64(n))
}

// Settled records n entries flagged settled.
func (m *Metrics) Settled(n int) {
	if m == nil {
		return
	}
	m.EntriesSettled.Add(float64(n))
}

// Discrepancy records an allocation with a verification warning.
func (m *Metrics) Discrepancy() {
	if m == nil {
		return
	}
	m.Discrepancies.Inc()
}

// ObserveRPC records the duration of one RPC.
func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.RPCDuration.WithLabelValues(procedure, code).Observe(seconds)
}
