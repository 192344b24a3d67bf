package sqlstore

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager 基于GORM的事务管理器
// 事务DB通过context传给仓储,仓储统一用conn(ctx, db)取连接
// 目前只有演示数据加载需要跨仓储事务;借出/归还依赖版本号条件更新,不开事务
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction fn返回error时回滚
// 已在事务中时复用外层事务(GORM以Savepoint实现嵌套)
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return conn(ctx, m.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn 优先使用context中的事务DB
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
