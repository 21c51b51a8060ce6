package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "wetransfer_api_requests_total",
	Help: "WeTransfer API requests by method and HTTP status (\"error\" for transport failures).",
}, []string{"method", "status"})
