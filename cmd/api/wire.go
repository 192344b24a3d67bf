//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 使用方式: 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
package main

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	appanalytics "github.com/xiebiao/librarysystem/internal/application/analytics"
	appbook "github.com/xiebiao/librarysystem/internal/application/book"
	applending "github.com/xiebiao/librarysystem/internal/application/lending"
	"github.com/xiebiao/librarysystem/internal/domain/book"
	"github.com/xiebiao/librarysystem/internal/infrastructure/config"
	"github.com/xiebiao/librarysystem/internal/infrastructure/messaging"
	"github.com/xiebiao/librarysystem/internal/infrastructure/persistence"
	grpcserver "github.com/xiebiao/librarysystem/internal/interface/grpc/server"
	"github.com/xiebiao/librarysystem/internal/interface/http/handler"
)

// infrastructureSet 基础设施层依赖
// 包含：仓储(按database.driver选择)、Redis缓存、RabbitMQ事件发布
var infrastructureSet = wire.NewSet(
	persistence.NewStores,
	provideBookRepository,
	provideUserRepository,
	provideLendingRepository,
	messaging.NewEventPublisher,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	book.NewService,
	provideLendingService,
	provideAnalyticsService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	applending.NewBorrowBookUseCase,
	applending.NewReturnBookUseCase,
	applending.NewRelatedBooksUseCase,
	provideMostBorrowedUseCase,
	appanalytics.NewMostActiveUsersUseCase,
	appanalytics.NewReadingPaceUseCase,
	provideSeedUseCase,
)

// httpSet HTTP接口层
var httpSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewLendingHandler,
	handler.NewUserHandler,
	provideGinEngine,
)

// grpcSet gRPC接口层
var grpcSet = wire.NewSet(
	grpcserver.NewLendingServer,
	grpcserver.NewBookServer,
	grpcserver.NewUserServer,
	grpcserver.New,
)

// InitializeApp 初始化整个应用
// 返回的cleanup按依赖逆序关闭Redis、数据库、RabbitMQ连接
func InitializeApp(cfg *config.Config, log zerolog.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		httpSet,
		grpcSet,
		newApp,
	)
	return nil, nil, nil
}
