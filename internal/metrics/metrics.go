package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rotmap_requests_total",
		Help: "Total number of API requests by route",
	}, []string{"route"})
	RequestDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rotmap_request_duration_ms",
		Help:    "Request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	EventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rotmap_session_events_total",
		Help: "Session events processed by type",
	}, []string{"type"})
	SummarizeDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rotmap_summarize_duration_ms",
		Help:    "Viewport summary computation time in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 20, 50, 100},
	})
	SummaryCacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rotmap_summary_cache_hits_total",
		Help: "Summary cache hits by level",
	}, []string{"level"})
	SummaryCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rotmap_summary_cache_misses_total",
		Help: "Summary cache misses",
	})
	TourFocusTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rotmap_tour_focus_total",
		Help: "Tour stops by outcome (issued or skipped)",
	}, []string{"outcome"})
	SessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rotmap_sessions_active",
		Help: "Number of live viewer sessions",
	})
	PlotSelectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rotmap_plot_selections_total",
		Help: "Parcel clicks that reached the host callback",
	})
	SearchRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rotmap_search_requests_total",
		Help: "Region search queries",
	})
	WebhookFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rotmap_webhook_fail_total",
		Help: "Plot webhook delivery failures",
	})
	WebhookDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rotmap_webhook_duration_ms",
		Help:    "Plot webhook call duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 3000},
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(EventsTotal)
	prometheus.MustRegister(SummarizeDurationMs)
	prometheus.MustRegister(SummaryCacheHitsTotal)
	prometheus.MustRegister(SummaryCacheMissesTotal)
	prometheus.MustRegister(TourFocusTotal)
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(PlotSelectionsTotal)
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(WebhookFailTotal)
	prometheus.MustRegister(WebhookDurationMs)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：注册指标统一暴露到 /metrics，由主入口挂载。
func Handler() http.Handler { return promhttp.Handler() }
