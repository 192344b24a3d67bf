package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/librarysystem/pkg/metrics"
)

// unmatchedPath 未匹配任何路由的请求统一归到一个标签,避免标签基数膨胀
const unmatchedPath = "unmatched"

// Metrics HTTP请求指标中间件(请求数、耗时、处理中请求数)
// path标签使用路由模板(如/api/v1/books/:bookId)而不是原始URL
func Metrics() gin.HandlerFunc {
	metrics.InitMetrics()

	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPRequestsInProgress.Inc()
		defer metrics.HTTPRequestsInProgress.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedPath
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
