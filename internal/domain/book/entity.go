package book

// Book 图书库存记录(聚合根)
// 1. TotalCopies创建后不变,AvailableCopies只通过条件更新(TryAdjustAvailableCopies)变化
// 2. Version是乐观锁版本号,每次成功修改AvailableCopies后+1
// 3. Pages用于阅读速度估算,必须>0
type Book struct {
	ID              int64
	Title           string
	Author          string
	Pages           int
	TotalCopies     int
	AvailableCopies int
	Version         int64
}

// NewBook 创建新图书(目录加载时使用),所有副本初始均可借
func NewBook(title, author string, pages, totalCopies int) *Book {
	return &Book{
		Title:           title,
		Author:          author,
		Pages:           pages,
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
	}
}

// Validate 校验图书数据
func (b *Book) Validate() error {
	if b.Pages <= 0 {
		return ErrInvalidPages
	}
	if b.TotalCopies < 0 {
		return ErrInvalidCopies
	}
	if b.AvailableCopies < 0 || b.AvailableCopies > b.TotalCopies {
		return ErrInvalidCopies
	}
	return nil
}

// CanAdjust 计算调整后的可借数量
// 结果为负或超过总数时返回false(不修改实体)
func (b *Book) CanAdjust(delta int) (int, bool) {
	next := b.AvailableCopies + delta
	if next < 0 || next > b.TotalCopies {
		return b.AvailableCopies, false
	}
	return next, true
}

// HasAvailableCopy 是否还有可借副本(仅供展示,借出以条件更新结果为准)
func (b *Book) HasAvailableCopy() bool {
	return b.AvailableCopies > 0
}
