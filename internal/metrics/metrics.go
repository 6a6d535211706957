// Package metrics holds the process-wide Prometheus instruments,
// exposed on the web UI's /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PollCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitewatch_poll_cycles_total",
			Help: "Poll cycles run, by outcome",
		},
		[]string{"outcome"},
	)

	PollCommits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitewatch_poll_commits_total",
			Help: "Resource values committed to the dashboard snapshot",
		},
		[]string{"resource"},
	)

	ScansRun = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sitewatch_scans_total",
			Help: "Broken-link scans submitted",
		},
	)

	WSClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sitewatch_ws_clients",
			Help: "Connected dashboard websocket clients",
		},
	)
)
