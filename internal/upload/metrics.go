package upload

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chunksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wetransfer_upload_chunks_total",
		Help: "Chunk upload attempts by result.",
	}, []string{"result"})

	bytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wetransfer_upload_bytes_total",
		Help: "Bytes stored through presigned chunk uploads.",
	})

	chunkDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wetransfer_upload_chunk_duration_seconds",
		Help:    "Time to obtain an upload URL and store one chunk.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})
)
