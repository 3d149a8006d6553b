package main

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the server counters. The atomics back INFO; the same values
// are exported to Prometheus through Func collectors.
type Metrics struct {
	TotalConnections atomic.Uint64 // Counts total connections ever made
	TotalCommands    atomic.Uint64 // Counts total commands ever processed

	// Commands breaks TotalCommands down by command name. Unknown commands
	// are counted under "unknown".
	Commands *prometheus.CounterVec

	collectors []prometheus.Collector
}

// NewMetrics creates the server metrics. active reports open connections and
// sets reports the number of named sets; both are sampled at scrape time.
func NewMetrics(active, sets func() int) *Metrics {
	m := &Metrics{}

	m.Commands = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "qset_commands_total",
		Help: "Commands processed, by command name",
	}, []string{"command"})

	m.collectors = []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "qset_connections_total",
			Help: "Total client connections accepted",
		}, func() float64 { return float64(m.TotalConnections.Load()) }),

		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "qset_connections_active",
			Help: "Client connections currently open",
		}, func() float64 { return float64(active()) }),

		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "qset_sets",
			Help: "Named sets currently held",
		}, func() float64 { return float64(sets()) }),

		m.Commands,
	}

	return m
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
