// Package metrics exposes checkout counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Checkout outcomes used as label values.
const (
	OutcomeSuccess        = "success"
	OutcomeRejected       = "rejected"
	OutcomeInProgress     = "in_progress"
	OutcomeEmptyCart      = "empty_cart"
	OutcomePaymentFailed  = "payment_failed"
	OutcomePaymentTimeout = "payment_timeout"
	OutcomeUnreconciled   = "unreconciled"
)

// Recorder is what the checkout workflow reports to.
type Recorder interface {
	RecordCheckout(outcome string, duration time.Duration)
	RecordCharged(amount int64)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	checkouts      *prometheus.CounterVec
	checkoutTime   prometheus.Histogram
	chargedTotal   prometheus.Counter
	chargesCounted prometheus.Counter
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_checkouts_total",
			Help: "Checkout attempts by outcome.",
		}, []string{"outcome"}),
		checkoutTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefront_checkout_duration_seconds",
			Help:    "Wall time of checkout attempts.",
			Buckets: prometheus.DefBuckets,
		}),
		chargedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_charged_minor_units_total",
			Help: "Sum of confirmed charge amounts in minor currency units.",
		}),
		chargesCounted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_charges_total",
			Help: "Number of confirmed charges.",
		}),
	}

	reg.MustRegister(
		c.checkouts,
		c.checkoutTime,
		c.chargedTotal,
		c.chargesCounted,
	)

	return c
}

func (c *Collector) RecordCheckout(outcome string, duration time.Duration) {
	c.checkouts.WithLabelValues(outcome).Inc()
	c.checkoutTime.Observe(duration.Seconds())
}

func (c *Collector) RecordCharged(amount int64) {
	c.chargesCounted.Inc()
	c.chargedTotal.Add(float64(amount))
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards all measurements.
type Nop struct{}

func (Nop) RecordCheckout(string, time.Duration) {}
func (Nop) RecordCharged(int64)                  {}
