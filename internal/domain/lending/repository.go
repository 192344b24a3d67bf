package lending

import (
	"context"
	"time"
)

// Repository 借阅台账接口
// 台账本身不保证(user, book)唯一未归还,由借阅服务在编排层检查
type Repository interface {
	// FindActive 查询(user, book)的未归还记录,没有则返回(nil, nil)
	FindActive(ctx context.Context, userID, bookID int64) (*Record, error)

	// FindByID 根据ID查询,不存在返回ErrLendingNotFound
	FindByID(ctx context.Context, id int64) (*Record, error)

	// FindInRange 查询借出时间在[from, to]内的记录(两端包含)
	FindInRange(ctx context.Context, from, to time.Time) ([]*Record, error)

	// FindReturnedByUserSince 查询用户自since起借出且已归还的记录(任意图书)
	FindReturnedByUserSince(ctx context.Context, userID int64, since time.Time) ([]*Record, error)

	// RelatedBookIDs 借过bookID的用户还借过的其他图书ID
	// 去重、排除bookID本身、按ID升序
	RelatedBookIDs(ctx context.Context, bookID int64) ([]int64, error)

	// CountByBook 每本图书的借阅记录数
	CountByBook(ctx context.Context) (map[int64]int, error)

	// Add 新增一条未归还记录
	Add(ctx context.Context, userID, bookID int64, borrowedAt time.Time, pagesAtBorrow int) (*Record, error)

	// MarkReturned 写入归还时间
	// 记录不存在返回ErrLendingNotFound;重复调用会覆盖ReturnedAt(幂等由调用方保证)
	MarkReturned(ctx context.Context, id int64, returnedAt time.Time) error
}
