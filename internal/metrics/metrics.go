// Package metrics collects Prometheus metrics for store operations and sales.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Collector is the Prometheus implementation of the store observer.
type Collector struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	sales      prometheus.Counter
	unitsSold  prometheus.Counter
	revenue    prometheus.Counter
	corrupt    *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gymledger_operations_total",
			Help: "Store operations by operation and outcome.",
		}, []string{"operation", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gymledger_operation_duration_seconds",
			Help:    "Store operation latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		sales: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gymledger_sales_total",
			Help: "Sales recorded.",
		}),
		unitsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gymledger_units_sold_total",
			Help: "Product units sold.",
		}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gymledger_revenue_total",
			Help: "Sum of sale totals.",
		}),
		corrupt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gymledger_corrupt_collections_total",
			Help: "Stored collections that failed to decode and were read as empty.",
		}, []string{"key"}),
	}

	reg.MustRegister(
		c.operations,
		c.latency,
		c.sales,
		c.unitsSold,
		c.revenue,
		c.corrupt,
	)

	return c
}

// ObserveOperation records one store operation.
func (c *Collector) ObserveOperation(op, status string, d time.Duration) {
	c.operations.WithLabelValues(op, status).Inc()
	c.latency.WithLabelValues(op).Observe(d.Seconds())
}

// RecordSale records a completed sale.
func (c *Collector) RecordSale(quantity int, total float64) {
	c.sales.Inc()
	c.unitsSold.Add(float64(quantity))
	if total > 0 {
		c.revenue.Add(total)
	}
}

// RecordCorruptCollection counts a collection read as empty after a decode failure.
func (c *Collector) RecordCorruptCollection(key string) {
	c.corrupt.WithLabelValues(key).Inc()
}

// WriteText writes every metric family of gatherer to w in the text exposition format.
func WriteText(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
