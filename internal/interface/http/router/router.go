// Package router 注册HTTP路由与全局中间件
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/librarysystem/internal/interface/http/handler"
	"github.com/xiebiao/librarysystem/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/librarysystem/pkg/errors"
	"github.com/xiebiao/librarysystem/pkg/response"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Book    *handler.BookHandler
	Lending *handler.LendingHandler
	User    *handler.UserHandler
}

// New 创建Gin引擎并注册路由
// 中间件顺序: Correlation → Recovery → Logger → Metrics
// Correlation必须最先执行,后续中间件和处理器的日志才能带上关联ID
func New(log zerolog.Logger, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Correlation(),
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.Metrics(),
	)

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperrors.NotFound("接口不存在: %s", c.Request.URL.Path))
	})

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档: http://localhost:8080/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		books := v1.Group("/books")
		{
			books.GET("", h.Book.ListBooks)
			books.GET("/most-borrowed", h.Book.MostBorrowed)
			books.GET("/:bookId", h.Book.GetBook)
			books.GET("/:bookId/related", h.Book.RelatedBooks)
			books.GET("/:bookId/reading-pace", h.Book.ReadingPace)
		}

		users := v1.Group("/users")
		{
			users.GET("/most-active", h.User.MostActive)
		}

		lendings := v1.Group("/lendings")
		{
			lendings.POST("", h.Lending.Borrow)
			lendings.POST("/:lendingId/return", h.Lending.Return)
		}
	}

	return r
}
