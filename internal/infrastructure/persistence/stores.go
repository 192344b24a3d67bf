// Package persistence 按配置组装仓储
package persistence

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/xiebiao/librarysystem/internal/domain/book"
	"github.com/xiebiao/librarysystem/internal/domain/lending"
	"github.com/xiebiao/librarysystem/internal/domain/user"
	"github.com/xiebiao/librarysystem/internal/infrastructure/config"
	"github.com/xiebiao/librarysystem/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/librarysystem/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/librarysystem/internal/infrastructure/persistence/sqlstore"
	"github.com/xiebiao/librarysystem/pkg/circuitbreaker"
	"github.com/xiebiao/librarysystem/pkg/logger"
)

// Transactor 事务执行器
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Stores 仓储集合
type Stores struct {
	Books  book.Repository
	Users  user.Repository
	Ledger lending.Repository
	Tx     Transactor
}

// NewStores 按database.driver创建仓储
// 1. memory: 进程内仓储,重启后数据丢失
// 2. mysql / postgres / sqlite: GORM仓储
// 3. redis.enabled时图书仓储外包一层缓存(熔断保护)
//
// 返回的cleanup关闭数据库和Redis连接
func NewStores(cfg *config.Config, log zerolog.Logger) (*Stores, func(), error) {
	log = logger.Component(log, "persistence")
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var stores *Stores
	if cfg.Database.Driver == config.DriverMemory {
		stores = &Stores{
			Books:  memory.NewBookRepository(),
			Users:  memory.NewUserRepository(),
			Ledger: memory.NewLendingRepository(),
			Tx:     memory.TxManager{},
		}
		log.Info().Msg("使用内存仓储")
	} else {
		db, err := sqlstore.NewDB(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		})
		stores = &Stores{
			Books:  sqlstore.NewBookRepository(db),
			Users:  sqlstore.NewUserRepository(db),
			Ledger: sqlstore.NewLendingRepository(db),
			Tx:     sqlstore.NewTxManager(db),
		}
	}

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(cfg.Redis, log)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = client.Close() })

		stores.Books = redis.NewCachedBookRepository(stores.Books, client, redis.CacheOptions{
			TTL:       cfg.Cache.BookTTL,
			KeyPrefix: cfg.Cache.KeyPrefix,
			Breaker: circuitbreaker.New("redis-book-cache", circuitbreaker.Config{
				FailureThreshold: cfg.Cache.FailureThreshold,
				OpenTimeout:      cfg.Cache.OpenTimeout,
				IsFailure:        redis.IsCacheFailure,
			}),
			Logger: log,
		})
		log.Info().Dur("ttl", cfg.Cache.BookTTL).Msg("图书缓存已启用")
	}

	return stores, cleanup, nil
}
