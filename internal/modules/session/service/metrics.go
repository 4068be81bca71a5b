package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var runsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "wellness_session_runs_total",
		Help: "Session runs by how they ended (started, completed, cancelled, superseded)",
	},
	[]string{"outcome"},
)
