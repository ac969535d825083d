package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// JobsProcessed counts enrichment jobs by kind and final status
var JobsProcessed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "enricher",
		Name:      "jobs_processed_total",
		Help:      "Total enrichment jobs processed by the worker",
	},
	[]string{"kind", "status"},
)
