// Package metrics holds the service's Prometheus collectors on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "parcelbridge"

type Collector struct {
	reg *prometheus.Registry

	HTTPRequests *prometheus.HistogramVec // method, route, status

	FeeEstimates       *prometheus.CounterVec // outcome: success|rejected|manual_quote
	RouteVerifications *prometheus.CounterVec // match_type, matched
	ParcelsAccepted    prometheus.Counter
	WebhookEvents      *prometheus.CounterVec // event, outcome

	EventsPublished    prometheus.Counter
	EventPublishErrors prometheus.Counter
	PublishDuration    prometheus.Histogram
	NATSConnected      prometheus.Gauge

	JobRuns             *prometheus.CounterVec // job, outcome
	SessionsExpired     prometheus.Counter
	JourneysDeactivated prometheus.Counter
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		HTTPRequests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		FeeEstimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fee_estimates_total",
			Help:      "Fee estimates by outcome.",
		}, []string{"outcome"}),
		RouteVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_verifications_total",
			Help:      "Route verifications by match type and acceptance.",
		}, []string{"match_type", "matched"}),
		ParcelsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parcels_accepted_total",
			Help:      "Parcels accepted by carriers.",
		}),
		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_webhook_events_total",
			Help:      "Payment webhook deliveries by event and outcome.",
		}, []string{"event", "outcome"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nats_published_total",
			Help:      "Domain events published to NATS.",
		}),
		EventPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nats_publish_errors_total",
			Help:      "Domain events that failed to publish.",
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "nats_publish_duration_seconds",
			Help:      "Time to marshal and publish a domain event.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "nats_connected",
			Help:      "1 if the NATS connection is established, 0 otherwise.",
		}),
		JobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Background job runs by outcome.",
		}, []string{"job", "outcome"}),
		SessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_expired_total",
			Help:      "Sessions ended by the idle sweeper.",
		}),
		JourneysDeactivated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journeys_deactivated_total",
			Help:      "Journeys deactivated after their date passed.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.HTTPRequests,
		c.FeeEstimates, c.RouteVerifications, c.ParcelsAccepted, c.WebhookEvents,
		c.EventsPublished, c.EventPublishErrors, c.PublishDuration, c.NATSConnected,
		c.JobRuns, c.SessionsExpired, c.JourneysDeactivated,
	)

	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (c *Collector) ObserveRouteVerification(matchType string, matched bool) {
	c.RouteVerifications.WithLabelValues(matchType, strconv.FormatBool(matched)).Inc()
}

func (c *Collector) FeeEstimate(outcome string) {
	c.FeeEstimates.WithLabelValues(outcome).Inc()
}

func (c *Collector) ParcelAccepted() {
	c.ParcelsAccepted.Inc()
}

func (c *Collector) WebhookEvent(event, outcome string) {
	c.WebhookEvents.WithLabelValues(event, outcome).Inc()
}

func (c *Collector) JobRun(job string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.JobRuns.WithLabelValues(job, outcome).Inc()
}

func (c *Collector) ObserveSessionsExpired(n int) {
	c.SessionsExpired.Add(float64(n))
}

func (c *Collector) ObserveJourneysDeactivated(n int) {
	c.JourneysDeactivated.Add(float64(n))
}

// The methods below satisfy the NATS publisher's metrics hook.

func (c *Collector) PublishedInc()                  { c.EventsPublished.Inc() }
func (c *Collector) PublishErrInc()                 { c.EventPublishErrors.Inc() }
func (c *Collector) PublishObserve(d time.Duration) { c.PublishDuration.Observe(d.Seconds()) }

func (c *Collector) SetNATSConnected(connected bool) {
	if connected {
		c.NATSConnected.Set(1)
		return
	}
	c.NATSConnected.Set(0)
}
