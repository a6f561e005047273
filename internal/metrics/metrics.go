package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the board's collectors. A nil *Metrics is valid and records
// nothing, so components can take one unconditionally.
type Metrics struct {
	FetchSeconds    *prometheus.HistogramVec
	FetchBytesTotal *prometheus.CounterVec
	FetchErrors     *prometheus.CounterVec
	StaleResponses  *prometheus.CounterVec
	RenderedRows    prometheus.Gauge
	WeatherDisabled prometheus.Gauge
	BuildInfo       *prometheus.GaugeVec
}

func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		FetchSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signboard_fetch_seconds",
				Help:    "Backend request duration per endpoint",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		FetchBytesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signboard_fetch_bytes_total",
				Help: "Response bytes read per endpoint",
			},
			[]string{"endpoint"},
		),
		FetchErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signboard_fetch_errors_total",
				Help: "Failed backend requests per endpoint",
			},
			[]string{"endpoint"},
		),
		StaleResponses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signboard_stale_responses_total",
				Help: "Responses discarded because a newer one was already applied",
			},
			[]string{"endpoint"},
		),
		RenderedRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signboard_rendered_rows",
			Help: "Arrival rows currently on the board",
		}),
		WeatherDisabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signboard_weather_disabled",
			Help: "1 once the backend has reported no weather for this session",
		}),
		BuildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "signboard_build_info",
				Help: "Build metadata",
			},
			[]string{"version", "commit"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.FetchSeconds,
		m.FetchBytesTotal,
		m.FetchErrors,
		m.StaleResponses,
		m.RenderedRows,
		m.WeatherDisabled,
		m.BuildInfo,
	)

	return m
}

func (m *Metrics) ObserveFetch(endpoint string, seconds float64, bytes int, err error) {
	if m == nil {
		return
	}
	m.FetchSeconds.WithLabelValues(endpoint).Observe(seconds)
	if bytes > 0 {
		m.FetchBytesTotal.WithLabelValues(endpoint).Add(float64(bytes))
	}
	if err != nil {
		m.FetchErrors.WithLabelValues(endpoint).Inc()
	}
}

func (m *Metrics) Stale(endpoint string) {
	if m == nil {
		return
	}
	m.StaleResponses.WithLabelValues(endpoint).Inc()
}

func (m *Metrics) SetRows(n int) {
	if m == nil {
		return
	}
	m.RenderedRows.Set(float64(n))
}

func (m *Metrics) SetWeatherDisabled() {
	if m == nil {
		return
	}
	m.WeatherDisabled.Set(1)
}

func (m *Metrics) SetBuildInfo(version, commit string) {
	if m == nil {
		return
	}
	m.BuildInfo.WithLabelValues(version, commit).Set(1)
}
