package services

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the custom Prometheus metrics for the reward subsystem.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	CodesGenerated *prometheus.CounterVec
	StoreErrors    *prometheus.CounterVec
	Reconciles     *prometheus.CounterVec
	AvailableCodes prometheus.Gauge
	ClaimedCodes   prometheus.Gauge
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CodesGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sock_codes_generated_total",
			Help: "Reward codes generated, by score tier",
		}, []string{"score"}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sock_code_store_errors_total",
			Help: "Code store failures by operation",
		}, []string{"op"}),
		Reconciles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sock_index_reconciles_total",
			Help: "Aggregate index rebuilds by load status",
		}, []string{"status"}),
		AvailableCodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sock_codes_available",
			Help: "Unclaimed codes in the aggregate index",
		}),
		ClaimedCodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sock_codes_claimed",
			Help: "Claimed codes in the aggregate index",
		}),
	}
	reg.MustRegister(m.CodesGenerated, m.StoreErrors, m.Reconciles, m.AvailableCodes, m.ClaimedCodes)
	return m
}

func (m *Metrics) generated(score int) {
	if m == nil {
		return
	}
	m.CodesGenerated.WithLabelValues(strconv.Itoa(score)).Inc()
}

func (m *Metrics) storeError(op string) {
	if m == nil {
		return
	}
	m.StoreErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) reconciled(status LoadStatus) {
	if m == nil {
		return
	}
	m.Reconciles.WithLabelValues(status.String()).Inc()
}

func (m *Metrics) observeIndex(available, claimed int) {
	if m == nil {
		return
	}
	m.AvailableCodes.Set(float64(available))
	m.ClaimedCodes.Set(float64(claimed))
}
