// Package metrics 提供热榜抓取的Prometheus指标
package metrics

import (
	"time"

	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trendboard"

// Recorder 指标记录器, 使用独立的Registry
type Recorder struct {
	registry *prometheus.Registry

	ResultsTotal  *prometheus.CounterVec
	FetchTotal    *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	CacheTotal    *prometheus.CounterVec
	BuildDuration prometheus.Histogram
	LastBuild     prometheus.Gauge
}

// NewRecorder 创建指标记录器并注册Go运行时指标
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,

		ResultsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "platform_results_total",
				Help:      "Platform results by final state (live, mocked, skipped)",
			},
			[]string{"platform", "state"},
		),

		FetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_total",
				Help:      "HTTP fetches by outcome",
			},
			[]string{"platform", "status"},
		),

		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Duration of HTTP fetches in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
			},
			[]string{"platform"},
		),

		CacheTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Cache lookups by result (hit, miss)",
			},
			[]string{"result"},
		),

		BuildDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "build_duration_seconds",
				Help:      "Duration of a full aggregate build in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),

		LastBuild: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_build_timestamp_seconds",
				Help:      "Unix time of the last finished aggregate build",
			},
		),
	}
}

// Registry 返回用于 /metrics 的Registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveFetch 记录一次HTTP抓取
func (r *Recorder) ObserveFetch(platform models.Platform, ok bool, elapsed time.Duration) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	r.FetchTotal.WithLabelValues(string(platform), status).Inc()
	r.FetchDuration.WithLabelValues(string(platform)).Observe(elapsed.Seconds())
}

// ObserveResult 记录平台结果终态
func (r *Recorder) ObserveResult(result models.PlatformResult) {
	r.ResultsTotal.WithLabelValues(string(result.Platform), string(result.State)).Inc()
}

// ObserveCache 记录缓存查询
func (r *Recorder) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.CacheTotal.WithLabelValues(result).Inc()
}

// ObserveBuild 记录一次完整刷新
func (r *Recorder) ObserveBuild(elapsed time.Duration, finishedAt time.Time) {
	r.BuildDuration.Observe(elapsed.Seconds())
	r.LastBuild.Set(float64(finishedAt.Unix()))
}
