package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	datasetLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spca_maps_dataset_loads_total",
		Help: "Dataset loads by dataset and result (ok, cached, error)",
	}, []string{"dataset", "result"})
	datasetLoadSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spca_maps_dataset_load_seconds",
		Help:    "Time spent fetching and parsing a dataset",
		Buckets: prometheus.DefBuckets,
	}, []string{"dataset"})
	blobFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spca_maps_blob_fetches_total",
		Help: "Blob fetches by store and result",
	}, []string{"store", "result"})
	viewRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spca_maps_view_renders_total",
		Help: "Rendered map views by dashboard and map type",
	}, []string{"dashboard", "map_type"})
)

func DatasetLoaded(dataset, result string, elapsed time.Duration) {
	datasetLoads.WithLabelValues(dataset, result).Inc()
	if result != "cached" {
		datasetLoadSeconds.WithLabelValues(dataset).Observe(elapsed.Seconds())
	}
}

func BlobFetched(store, result string) {
	blobFetches.WithLabelValues(store, result).Inc()
}

func ViewRendered(dashboard, mapType string) {
	viewRenders.WithLabelValues(dashboard, mapType).Inc()
}
