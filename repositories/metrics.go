package repositories

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FetchTotal counts outbound fetches by endpoint and outcome ("success", "failure")
var FetchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "enricher",
		Name:      "fetch_total",
		Help:      "Total outbound fetches against the content, curation and engine APIs",
	},
	[]string{"endpoint", "outcome"},
)

func recordFetch(endpoint string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	FetchTotal.WithLabelValues(endpoint, outcome).Inc()
}
