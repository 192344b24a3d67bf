package book

import (
	"context"
)

// Repository 图书库存仓储接口
// domain层定义接口,infrastructure层实现(GORM / 内存 / Redis缓存装饰器)
type Repository interface {
	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id int64) (*Book, error)

	// FindAll 查询全部图书,按ID升序
	FindAll(ctx context.Context) ([]*Book, error)

	// FindByIDs 批量查询,不存在的ID直接跳过,按ID升序
	FindByIDs(ctx context.Context, ids []int64) ([]*Book, error)

	// TryAdjustAvailableCopies 乐观锁条件更新可借数量
	// 单次尝试,不重试:
	// - 图书不存在、调整后<0或>总数、版本号已被其他写入者推进 → 返回false,不修改
	// - 成功时AvailableCopies += delta且Version + 1
	// 返回error只表示存储层故障(DataAccess),与false的业务信号区分
	TryAdjustAvailableCopies(ctx context.Context, id int64, delta int) (bool, error)

	// Create 创建图书(目录加载/种子数据)
	Create(ctx context.Context, b *Book) error
}
