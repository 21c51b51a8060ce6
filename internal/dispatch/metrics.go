package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wetransfer_callback_queue_depth",
		Help: "Completions waiting on the serial callback queue.",
	})

	callbackPanics = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wetransfer_callback_panics_total",
		Help: "Callbacks that panicked and were recovered.",
	})
)
