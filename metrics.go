package okapi

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports corpus aggregates of an Index as Prometheus gauges.
// Values are read at scrape time under the index read lock.
type Collector struct {
	index *Index

	documents   *prometheus.Desc
	terms       *prometheus.Desc
	totalLength *prometheus.Desc
	avgLength   *prometheus.Desc
}

// NewCollector returns a collector for idx. Register it with a
// prometheus.Registerer to expose it.
func NewCollector(idx *Index, namespace string) *Collector {
	return &Collector{
		index: idx,
		documents: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "index", "documents"),
			"Number of indexed documents.",
			nil, nil,
		),
		terms: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "index", "terms"),
			"Number of distinct terms with a non-empty posting set.",
			nil, nil,
		),
		totalLength: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "index", "doc_length_total"),
			"Sum of the lengths of all indexed documents, in terms.",
			nil, nil,
		),
		avgLength: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "index", "doc_length_avg"),
			"Average document length, in terms.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.documents
	ch <- c.terms
	ch <- c.totalLength
	ch <- c.avgLength
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.index.Stats()
	ch <- prometheus.MustNewConstMetric(c.documents, prometheus.GaugeValue, float64(st.Documents))
	ch <- prometheus.MustNewConstMetric(c.terms, prometheus.GaugeValue, float64(st.Terms))
	ch <- prometheus.MustNewConstMetric(c.totalLength, prometheus.GaugeValue, float64(st.TotalDocLengths))
	ch <- prometheus.MustNewConstMetric(c.avgLength, prometheus.GaugeValue, st.AvgDocLength)
}
