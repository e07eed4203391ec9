package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "newsvn"

// Metrics держит коллекторы виджета в собственном реестре.
// Все методы безопасны для nil-получателя, чтобы компоненты работали без метрик.
type Metrics struct {
	Registry *prometheus.Registry

	refreshes       *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	displayedItems  prometheus.Gauge
	translations    *prometheus.CounterVec
	requests        *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Completed refreshes by trigger.",
		}, []string{"trigger"}),
		refreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Time from entering the loading state to publishing the list.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5},
		}),
		displayedItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "displayed_items",
			Help:      "Number of items in the current view.",
		}),
		translations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translations_total",
			Help:      "Translation attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
	}

	reg.MustRegister(
		m.refreshes,
		m.refreshDuration,
		m.displayedItems,
		m.translations,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler отдаёт метрики реестра в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRefresh(trigger string, took time.Duration, items int) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(trigger).Inc()
	m.refreshDuration.Observe(took.Seconds())
	m.displayedItems.Set(float64(items))
}

func (m *Metrics) ObserveTranslation(provider, outcome string) {
	if m == nil {
		return
	}
	m.translations.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) ObserveRequest(method, path string, status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}
