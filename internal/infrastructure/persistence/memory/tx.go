package memory

import (
	"context"
)

// TxManager 内存存储的事务管理器
// 内存仓储没有回滚能力,fn直接执行
type TxManager struct{}

// Transaction 直接执行fn
func (TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
