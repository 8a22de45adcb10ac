// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 認証試行の結果ラベル
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやミドルウェアから利用する。
type MetricsCollector interface {
	RecordCounterOperation(op string, value int64)
	RecordAuthAttempt(op string, result string)
	RecordAuthLatency(op string, duration time.Duration)
	RecordHTTPRequest(statusCode int, duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	counterOps   *prometheus.CounterVec
	counterValue prometheus.Gauge
	authAttempts *prometheus.CounterVec
	authLatency  *prometheus.HistogramVec
	httpStatus   *prometheus.CounterVec
	httpLatency  prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		counterOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aurorah_counter_operations_total",
			Help: "カウンタ操作の種類別の実行数",
		}, []string{"op"}),
		counterValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "aurorah_counter_value",
			Help: "最後の操作後のカウンタ値",
		}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aurorah_auth_attempts_total",
			Help: "ログイン・アカウント作成の試行数（結果別）",
		}, []string{"op", "result"}),
		authLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aurorah_auth_latency_seconds",
			Help:    "ログイン・アカウント作成の処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aurorah_http_requests_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "aurorah_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.counterOps,
		c.counterValue,
		c.authAttempts,
		c.authLatency,
		c.httpStatus,
		c.httpLatency,
	)

	return c
}

// RecordCounterOperation はカウンタ操作と操作後の値を記録する。
func (c *Collector) RecordCounterOperation(op string, value int64) {
	c.counterOps.WithLabelValues(op).Inc()
	c.counterValue.Set(float64(value))
}

// RecordAuthAttempt は認証操作の試行結果を記録する。
func (c *Collector) RecordAuthAttempt(op string, result string) {
	c.authAttempts.WithLabelValues(op, result).Inc()
}

// RecordAuthLatency は認証操作の処理時間を記録する。
func (c *Collector) RecordAuthLatency(op string, duration time.Duration) {
	c.authLatency.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordHTTPRequest はHTTPレスポンスのステータスコードと処理時間を記録する。
func (c *Collector) RecordHTTPRequest(statusCode int, duration time.Duration) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

// NopCollector は何も記録しないMetricsCollector。
type NopCollector struct{}

func (NopCollector) RecordCounterOperation(string, int64) {}
func (NopCollector) RecordAuthAttempt(string, string) {}
func (NopCollector) RecordAuthLatency(string, time.Duration) {}
func (NopCollector) RecordHTTPRequest(int, time.Duration) {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = NopCollector{}
)
