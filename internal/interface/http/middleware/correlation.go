package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/librarysystem/pkg/correlation"
)

// ContextKeyCorrelationID gin上下文中关联ID的键
const ContextKeyCorrelationID = "correlation_id"

// Correlation 请求关联ID中间件
// 1. 读取X-Correlation-ID请求头,为空时生成新ID
// 2. 写入请求context,领域服务日志和事件都从context读取
// 3. 原样回写到响应头
func Correlation() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := correlation.Ensure(c.GetHeader(correlation.HeaderName))

		c.Set(ContextKeyCorrelationID, id)
		c.Request = c.Request.WithContext(correlation.WithID(c.Request.Context(), id))
		c.Header(correlation.HeaderName, id)

		c.Next()
	}
}

// GetCorrelationID 获取当前请求的关联ID
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}
