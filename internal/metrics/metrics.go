package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "checkout"

// Outcome labels.
const (
	OutcomeOK            = "ok"
	OutcomeInvalidCharge = "invalid_charge"
	OutcomeInvalid       = "invalid"
	OutcomeError         = "error"
	OutcomeHit           = "hit"
	OutcomeMiss          = "miss"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry           *prometheus.Registry
	quotes             *prometheus.CounterVec
	discounts          *prometheus.CounterVec
	paymentSubmissions *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shipping_quotes_total",
			Help:      "Shipping quotes computed, by outcome.",
		}, []string{"outcome"}),
		discounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_applications_total",
			Help:      "Discount code applications, by outcome.",
		}, []string{"outcome"}),
		paymentSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_detail_submissions_total",
			Help:      "Payment detail submissions, by outcome.",
		}, []string{"outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shipping_method_cache_lookups_total",
			Help:      "Shipping method cache lookups, by outcome.",
		}, []string{"outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(m.quotes, m.discounts, m.paymentSubmissions, m.cacheLookups, m.requestDuration)
	return m
}

// ObserveQuote records a computed quote.
func (m *Metrics) ObserveQuote(valid bool) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if !valid {
		outcome = OutcomeInvalidCharge
	}
	m.quotes.WithLabelValues(outcome).Inc()
}

// ObserveDiscount records a discount code application.
func (m *Metrics) ObserveDiscount(success bool) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if !success {
		outcome = OutcomeInvalid
	}
	m.discounts.WithLabelValues(outcome).Inc()
}

// ObservePaymentSubmission records a payment details submission.
func (m *Metrics) ObservePaymentSubmission(outcome string) {
	if m == nil {
		return
	}
	m.paymentSubmissions.WithLabelValues(outcome).Inc()
}

// ObserveCache records a shipping method cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	outcome := OutcomeMiss
	if hit {
		outcome = OutcomeHit
	}
	m.cacheLookups.WithLabelValues(outcome).Inc()
}

// Middleware records request latency per route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
