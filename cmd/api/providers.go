package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	appanalytics "github.com/xiebiao/librarysystem/internal/application/analytics"
	"github.com/xiebiao/librarysystem/internal/application/catalog"
	"github.com/xiebiao/librarysystem/internal/domain/analytics"
	"github.com/xiebiao/librarysystem/internal/domain/book"
	"github.com/xiebiao/librarysystem/internal/domain/lending"
	"github.com/xiebiao/librarysystem/internal/domain/user"
	"github.com/xiebiao/librarysystem/internal/infrastructure/config"
	"github.com/xiebiao/librarysystem/internal/infrastructure/persistence"
	"github.com/xiebiao/librarysystem/internal/interface/http/handler"
	"github.com/xiebiao/librarysystem/internal/interface/http/router"
)

// App 组装完成的应用
type App struct {
	cfg    *config.Config
	log    zerolog.Logger
	engine *gin.Engine
	grpc   *grpc.Server
	seed   *catalog.SeedUseCase
}

func newApp(cfg *config.Config, log zerolog.Logger, engine *gin.Engine, grpcServer *grpc.Server, seed *catalog.SeedUseCase) *App {
	return &App{cfg: cfg, log: log, engine: engine, grpc: grpcServer, seed: seed}
}

// 仓储字段提取
// Wire按类型注入,Stores里的每个仓储需要单独的Provider

func provideBookRepository(s *persistence.Stores) book.Repository { return s.Books }
func provideUserRepository(s *persistence.Stores) user.Repository { return s.Users }
func provideLendingRepository(s *persistence.Stores) lending.Repository { return s.Ledger }

// provideLendingService 借阅服务(注入事件发布者和日志)
func provideLendingService(
	ledger lending.Repository,
	books book.Repository,
	users user.Repository,
	publisher lending.EventPublisher,
	log zerolog.Logger,
) lending.Service {
	return lending.NewService(ledger, books, users,
		lending.WithPublisher(publisher),
		lending.WithLogger(log),
	)
}

// provideAnalyticsService 统计服务
func provideAnalyticsService(ledger lending.Repository, books book.Repository, users user.Repository, log zerolog.Logger) analytics.Service {
	return analytics.NewService(ledger, books, users, analytics.WithLogger(log))
}

// provideMostBorrowedUseCase 默认数量来自analytics.most_borrowed_top
func provideMostBorrowedUseCase(svc analytics.Service, cfg *config.Config) *appanalytics.MostBorrowedUseCase {
	return appanalytics.NewMostBorrowedUseCase(svc, cfg.Analytics.MostBorrowedTop)
}

// provideSeedUseCase 演示数据加载
func provideSeedUseCase(s *persistence.Stores, log zerolog.Logger) *catalog.SeedUseCase {
	return catalog.NewSeedUseCase(s.Tx, s.Books, s.Users, s.Ledger, log)
}

// provideGinEngine 设置运行模式并注册路由
func provideGinEngine(
	cfg *config.Config,
	log zerolog.Logger,
	bookHandler *handler.BookHandler,
	lendingHandler *handler.LendingHandler,
	userHandler *handler.UserHandler,
) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	return router.New(log, router.Handlers{
		Book:    bookHandler,
		Lending: lendingHandler,
		User:    userHandler,
	})
}
