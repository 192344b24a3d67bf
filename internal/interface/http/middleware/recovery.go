package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apperrors "github.com/xiebiao/librarysystem/pkg/errors"
	"github.com/xiebiao/librarysystem/pkg/logger"
	"github.com/xiebiao/librarysystem/pkg/response"
)

// Recovery panic恢复中间件
// panic按内部错误返回统一的错误结构,并带上关联ID
func Recovery(base zerolog.Logger) gin.HandlerFunc {
	base = logger.Component(base, "http.recovery")

	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.For(c.Request.Context(), base).Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("请求处理发生panic")

		response.Error(c, apperrors.Wrap(fmt.Errorf("panic: %v", recovered), "系统内部错误"))
	})
}
