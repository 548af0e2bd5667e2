package jsonserver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var storeRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "epi_store_request_duration_seconds",
		Help:    "Duración de las peticiones al servidor de datos REST.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "collection", "outcome"},
)

func observeRequest(method, collection string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if IsTransport(err) {
			outcome = string(KindTransport)
		}
	}
	storeRequestDuration.WithLabelValues(method, collection, outcome).Observe(elapsed.Seconds())
}
