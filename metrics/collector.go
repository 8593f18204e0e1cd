// Package metrics exports registry counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tailored-agentic-units/bidon/registry"
)

var (
	descNamespaces = prometheus.NewDesc(
		"bidon_namespaces",
		"Number of namespaces currently owned by the registry.",
		nil, nil,
	)
	descForwarded = prometheus.NewDesc(
		"bidon_requests_forwarded_total",
		"Requests the registry routed to a namespace bucket.",
		nil, nil,
	)
	descRejected = prometheus.NewDesc(
		"bidon_requests_rejected_total",
		"Requests the registry answered itself because they could not be routed.",
		nil, nil,
	)
	descConflicts = prometheus.NewDesc(
		"bidon_namespace_conflicts_total",
		"Namespace creations refused because the name was taken.",
		nil, nil,
	)
)

// Source is anything that can report registry counters.
type Source interface {
	Metrics() registry.MetricsSnapshot
}

type registryCollector struct {
	source Source
}

var _ prometheus.Collector = &registryCollector{}

// NewCollector reads counters from source on every scrape.
func NewCollector(source Source) prometheus.Collector {
	return &registryCollector{source: source}
}

func (c *registryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- descNamespaces
	ch <- descForwarded
	ch <- descRejected
	ch <- descConflicts
}

func (c *registryCollector) Collect(ch chan<- prometheus.Metric) {
	m := c.source.Metrics()

	ch <- prometheus.MustNewConstMetric(descNamespaces, prometheus.GaugeValue, float64(m.Namespaces))
	ch <- prometheus.MustNewConstMetric(descForwarded, prometheus.CounterValue, float64(m.Forwarded))
	ch <- prometheus.MustNewConstMetric(descRejected, prometheus.CounterValue, float64(m.Rejected))
	ch <- prometheus.MustNewConstMetric(descConflicts, prometheus.CounterValue, float64(m.Conflicts))
}

// NewRegistry returns a dedicated Prometheus registry holding the collector
// for source plus the Go runtime and process collectors.
func NewRegistry(source Source) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{
		NewCollector(source),
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Handler serves the exposition format for reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
