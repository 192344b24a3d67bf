package lending

import (
	"time"
)

// Record 借阅记录
// 1. ReturnedAt为nil表示借阅未归还(active)
// 2. PagesAtBorrow是借出时图书页数的快照,阅读速度计算使用快照而非当前目录数据
// 3. 记录只在借出时创建,归还时写入一次ReturnedAt,从不删除
type Record struct {
	ID            int64
	UserID        int64
	BookID        int64
	BorrowedAt    time.Time
	ReturnedAt    *time.Time
	PagesAtBorrow int
}

// IsActive 是否未归还
func (r *Record) IsActive() bool {
	return r.ReturnedAt == nil
}

// ReadingDuration 借出到归还的时长,未归还返回false
func (r *Record) ReadingDuration() (time.Duration, bool) {
	if r.ReturnedAt == nil {
		return 0, false
	}
	return r.ReturnedAt.Sub(r.BorrowedAt), true
}
