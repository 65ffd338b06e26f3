package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var opsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "councild",
	Subsystem: "store",
	Name:      "ops_total",
	Help:      "Key-value store operations by op and outcome.",
}, []string{"op", "outcome"})

func observeOp(op, outcome string) {
	opsTotal.WithLabelValues(op, outcome).Inc()
}
