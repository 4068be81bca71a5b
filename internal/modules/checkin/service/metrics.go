package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var checkInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "wellness_checkins_total",
		Help: "Classified check-ins by risk state",
	},
	[]string{"state"},
)
