// Package metrics 基于Prometheus的指标收集
//
// 指标分组:
//   - HTTP / gRPC 请求指标
//   - 借阅业务指标(借出/归还结果、库存乐观锁冲突)
//   - 统计查询耗时
//   - 熔断器、消息队列
//
// 所有指标在InitMetrics中通过promauto注册到默认Registry,/metrics端点由promhttp暴露。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTP
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	// gRPC
	GRPCRequestsTotal *prometheus.CounterVec

	// 借阅业务
	// operation: borrow | return
	// result: success | validation | not_found | error | noop
	LendingOperationsTotal *prometheus.CounterVec

	// InventoryAdjustFailuresTotal 库存调整返回false的次数
	// delta: -1 | +1
	InventoryAdjustFailuresTotal *prometheus.CounterVec

	// 统计查询
	// query: most_borrowed | most_active_users | reading_pace
	AnalyticsQueryDuration *prometheus.HistogramVec

	// 熔断器
	CircuitBreakerState    *prometheus.GaugeVec
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列
	MessagesPublishedTotal *prometheus.CounterVec
	MessagesConsumedTotal  *prometheus.CounterVec
)

// InitMetrics 初始化所有指标(可重复调用)
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP请求耗时(秒)",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		GRPCRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grpc_requests_total",
				Help: "gRPC请求总数",
			},
			[]string{"method", "code"},
		)

		LendingOperationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lending_operations_total",
				Help: "借出/归还操作总数",
			},
			[]string{"operation", "result"},
		)

		InventoryAdjustFailuresTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_adjust_failures_total",
				Help: "库存条件更新未生效次数(无副本、冲突或图书不存在)",
			},
			[]string{"delta"},
		)

		AnalyticsQueryDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "analytics_query_duration_seconds",
				Help:    "统计查询耗时(秒)",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"query"},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "熔断器状态(0=CLOSED, 1=OPEN, 2=HALF_OPEN)",
			},
			[]string{"name"},
		)

		CircuitBreakerRequests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "circuit_breaker_requests_total",
				Help: "熔断器请求总数",
			},
			[]string{"name", "result"}, // success | failure | rejected
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "消息发布总数",
			},
			[]string{"exchange", "routing_key"},
		)

		MessagesConsumedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_consumed_total",
				Help: "消息消费总数",
			},
			[]string{"queue", "result"},
		)
	})
}

// RecordLending 记录一次借出/归还结果
func RecordLending(operation, result string) {
	InitMetrics()
	LendingOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordInventoryAdjustFailure 记录库存调整未生效
func RecordInventoryAdjustFailure(delta string) {
	InitMetrics()
	InventoryAdjustFailuresTotal.WithLabelValues(delta).Inc()
}

// ObserveAnalytics 记录统计查询耗时
func ObserveAnalytics(query string, seconds float64) {
	InitMetrics()
	AnalyticsQueryDuration.WithLabelValues(query).Observe(seconds)
}

// IncCounterVec 递增CounterVec
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// SetGaugeVec 设置GaugeVec
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogramVec 记录HistogramVec观测值
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
