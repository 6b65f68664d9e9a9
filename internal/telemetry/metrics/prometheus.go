package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// SetupPrometheus builds the registry served on the metrics port.
// extra carries collectors owned by other components, e.g. the db pool.
func SetupPrometheus(version string, extra ...prometheus.Collector) *prometheus.Registry {
	promRegistry := prometheus.NewRegistry()

	if version == "" {
		version = "unknown"
	}
	versionGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "tigo",
		Name:        "version_info",
		Help:        "Running service version, always 1.",
		ConstLabels: prometheus.Labels{"version": version},
	})
	versionGauge.Set(1)

	promRegistry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		versionGauge,
	)
	for _, c := range extra {
		promRegistry.MustRegister(c)
	}

	return promRegistry
}
