package localmedia

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "localmedia"

// Collector exports a MediaFactory's ledger as Prometheus metrics. Values are
// read from the factory on every scrape.
type Collector struct {
	factory *MediaFactory

	liveResources    *prometheus.Desc
	resourcesCreated *prometheus.Desc
	engineRunning    *prometheus.Desc
	framesDispatched *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector for f. Register it with a
// prometheus.Registerer to expose it.
func NewCollector(f *MediaFactory) *Collector {
	return &Collector{
		factory: f,
		liveResources: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "", "live_resources"),
			"Media resources currently registered with the factory.",
			[]string{"kind"}, nil,
		),
		resourcesCreated: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "", "resources_created_total"),
			"Media resources registered since the factory was created.",
			[]string{"kind"}, nil,
		),
		engineRunning: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "", "engine_running"),
			"Whether the media engine is initialized.",
			nil, nil,
		),
		framesDispatched: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "", "frames_dispatched_total"),
			"Video frames delivered to at least one renderer.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.liveResources
	ch <- c.resourcesCreated
	ch <- c.engineRunning
	ch <- c.framesDispatched
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.factory.stats()

	for _, kind := range resourceKinds {
		ch <- prometheus.MustNewConstMetric(c.liveResources, prometheus.GaugeValue, float64(s.live[kind]), string(kind))
		ch <- prometheus.MustNewConstMetric(c.resourcesCreated, prometheus.CounterValue, float64(s.created[kind]), string(kind))
	}

	var engine float64
	if s.engineUp {
		engine = 1
	}
	ch <- prometheus.MustNewConstMetric(c.engineRunning, prometheus.GaugeValue, engine)
	ch <- prometheus.MustNewConstMetric(c.framesDispatched, prometheus.CounterValue, float64(s.framesDispatched))
}
