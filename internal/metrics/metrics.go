// Package metrics defines the Prometheus collectors for storefront activity.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

// Metrics records store, catalogue and checkout activity.
type Metrics struct {
	mutations       *prometheus.CounterVec
	persistFailures prometheus.Counter
	cartItems       prometheus.Gauge
	cartValue       prometheus.Gauge
	wishlistSize    prometheus.Gauge
	logins          *prometheus.CounterVec
	filterDuration  prometheus.Histogram
	filterResults   prometheus.Histogram
	checkouts       *prometheus.CounterVec
	revenue         prometheus.Counter
}

// New registers the storefront metrics on the provided registerer.
// A nil registerer yields a Metrics value that records nothing.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}

	m := &Metrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_mutations_total",
			Help:      "Store mutations by operation.",
		}, []string{"operation"}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_persist_failures_total",
			Help:      "Snapshot saves that failed and were skipped.",
		}),
		cartItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cart_items",
			Help:      "Total quantity of items currently in the cart.",
		}),
		cartValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cart_value",
			Help:      "Current cart total in currency units.",
		}),
		wishlistSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "wishlist_products",
			Help:      "Number of products on the wishlist.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Simulated login attempts by result.",
		}, []string{"result"}),
		filterDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_duration_seconds",
			Help:      "Time spent filtering and sorting the catalogue.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		filterResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_results",
			Help:      "Number of products returned by the filter pipeline.",
			Buckets:   prometheus.LinearBuckets(0, 10, 10),
		}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Simulated checkouts by result.",
		}, []string{"result"}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_revenue_total",
			Help:      "Sum of completed checkout totals.",
		}),
	}

	reg.MustRegister(
		m.mutations,
		m.persistFailures,
		m.cartItems,
		m.cartValue,
		m.wishlistSize,
		m.logins,
		m.filterDuration,
		m.filterResults,
		m.checkouts,
		m.revenue,
	)

	return m
}

// ObserveMutation counts a store mutation and refreshes the cart gauges.
func (m *Metrics) ObserveMutation(operation string, itemCount int, total float64, wishlist int) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(operation)).Inc()
	m.cartItems.Set(float64(itemCount))
	m.cartValue.Set(total)
	m.wishlistSize.Set(float64(wishlist))
}

// IncPersistFailure counts a snapshot save that failed.
func (m *Metrics) IncPersistFailure() {
	if m == nil || m.persistFailures == nil {
		return
	}
	m.persistFailures.Inc()
}

// IncLogin counts a login attempt with the given result ("success", "rejected", "cancelled").
func (m *Metrics) IncLogin(result string) {
	if m == nil || m.logins == nil {
		return
	}
	m.logins.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObserveFilter records one run of the filter pipeline.
func (m *Metrics) ObserveFilter(duration time.Duration, results int) {
	if m == nil || m.filterDuration == nil {
		return
	}
	m.filterDuration.Observe(duration.Seconds())
	m.filterResults.Observe(float64(results))
}

// IncCheckout counts a checkout with the given result; amount is added to revenue on success.
func (m *Metrics) IncCheckout(result string, amount float64) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(result)).Inc()
	if result == "success" {
		m.revenue.Add(amount)
	}
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
