package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/xiebiao/librarysystem/pkg/logger"
)

// slowRequestThreshold 慢请求阈值
const slowRequestThreshold = 3 * time.Second

// Logger 请求日志中间件
// 必须注册在Correlation之后,日志才能带上correlation_id
//
// 记录内容: 方法、路径、状态码、耗时、客户端IP、c.Errors中的错误
// 不记录: 请求体
func Logger(base zerolog.Logger) gin.HandlerFunc {
	base = logger.Component(base, "http")

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		log := logger.For(c.Request.Context(), base)

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400 || latency > slowRequestThreshold:
			event = log.Warn()
		default:
			event = log.Info()
		}

		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP请求")
	}
}
