// Package metrics holds the application counters exported on /metrics next to the
// fiberprometheus HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BagFetchQueries counts profile association queries by association name.
var BagFetchQueries = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "socialnetwork",
	Name:      "bag_fetch_queries_total",
	Help:      "Profile association queries issued by the bag relationship fetcher.",
}, []string{"association"})

// BagFetchErrors counts failed association queries by association name.
var BagFetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "socialnetwork",
	Name:      "bag_fetch_errors_total",
	Help:      "Profile association queries that returned an error.",
}, []string{"association"})
