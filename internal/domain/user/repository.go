package user

import (
	"context"
)

// Repository 用户目录接口(只读查询 + 种子数据写入)
type Repository interface {
	// FindByID 根据ID查询,不存在返回ErrUserNotFound
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindByIDs 批量查询,ID先去重,不存在的ID跳过
	// 返回顺序不保证与入参一致,调用方需自行按需排序
	FindByIDs(ctx context.Context, ids []int64) ([]*User, error)

	// Create 创建用户(种子数据)
	Create(ctx context.Context, u *User) error
}
