package agnostic

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refrakt_instance_cache_hits_total",
		Help: "Total number of instance cache hits",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refrakt_instance_cache_misses_total",
		Help: "Total number of instance cache misses (factory invocations)",
	})

	cacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refrakt_instance_cache_evictions_total",
		Help: "Total number of instance cache entries evicted on overflow",
	})
)
