package sqlstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/librarysystem/internal/domain/lending"
	apperrors "github.com/xiebiao/librarysystem/pkg/errors"
)

// lendingRepository 借阅台账实现(GORM)
// 所有时间写入前转成UTC,读出后也统一转成UTC
type lendingRepository struct {
	db *gorm.DB
}

// NewLendingRepository 创建借阅台账
func NewLendingRepository(db *gorm.DB) lending.Repository {
	return &lendingRepository{db: db}
}

// FindActive 查询(user, book)的未归还记录
func (r *lendingRepository) FindActive(ctx context.Context, userID, bookID int64) (*lending.Record, error) {
	var model LendingModel
	err := conn(ctx, r.db).
		Where("book_id = ? AND user_id = ? AND returned_at IS NULL", bookID, userID).
		Order("id ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.DataAccess(err, "", "查询未归还借阅失败")
	}
	return toLendingEntity(&model), nil
}

// FindByID 根据ID查询
func (r *lendingRepository) FindByID(ctx context.Context, id int64) (*lending.Record, error) {
	var model LendingModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lending.ErrLendingNotFound
		}
		return nil, apperrors.DataAccess(err, "", "查询借阅记录失败")
	}
	return toLendingEntity(&model), nil
}

// FindInRange 借出时间在[from, to]内的记录
func (r *lendingRepository) FindInRange(ctx context.Context, from, to time.Time) ([]*lending.Record, error) {
	var models []LendingModel
	err := conn(ctx, r.db).
		Where("borrowed_at >= ? AND borrowed_at <= ?", from.UTC(), to.UTC()).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.DataAccess(err, "", "按时间范围查询借阅失败")
	}
	return toLendingEntities(models), nil
}

// FindReturnedByUserSince 用户自since起借出且已归还的记录
func (r *lendingRepository) FindReturnedByUserSince(ctx context.Context, userID int64, since time.Time) ([]*lending.Record, error) {
	var models []LendingModel
	err := conn(ctx, r.db).
		Where("user_id = ? AND returned_at IS NOT NULL AND borrowed_at >= ?", userID, since.UTC()).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.DataAccess(err, "", "查询用户借阅历史失败")
	}
	return toLendingEntities(models), nil
}

// RelatedBookIDs 借过bookID的读者还借过的其他图书
// 自连接一次完成,避免先查读者再逐个查借阅
func (r *lendingRepository) RelatedBookIDs(ctx context.Context, bookID int64) ([]int64, error) {
	ids := make([]int64, 0)
	err := conn(ctx, r.db).Raw(`
		SELECT DISTINCT other.book_id
		FROM lendings AS origin
		JOIN lendings AS other ON other.user_id = origin.user_id
		WHERE origin.book_id = ? AND other.book_id <> ?
		ORDER BY other.book_id ASC`, bookID, bookID).
		Scan(&ids).Error
	if err != nil {
		return nil, apperrors.DataAccess(err, "", "查询相关图书失败")
	}
	return ids, nil
}

// CountByBook 每本图书的借阅记录数
func (r *lendingRepository) CountByBook(ctx context.Context) (map[int64]int, error) {
	var rows []struct {
		BookID int64
		Total  int
	}
	err := conn(ctx, r.db).Model(&LendingModel{}).
		Select("book_id, COUNT(*) AS total").
		Group("book_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.DataAccess(err, "", "统计图书借阅次数失败")
	}

	counts := make(map[int64]int, len(rows))
	for _, row := range rows {
		counts[row.BookID] = row.Total
	}
	return counts, nil
}

// Add 新增未归还记录
func (r *lendingRepository) Add(ctx context.Context, userID, bookID int64, borrowedAt time.Time, pagesAtBorrow int) (*lending.Record, error) {
	model := &LendingModel{
		UserID:        userID,
		BookID:        bookID,
		BorrowedAt:    borrowedAt.UTC(),
		PagesAtBorrow: pagesAtBorrow,
	}
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return nil, apperrors.DataAccess(err, apperrors.ReasonLendingAdd, "写入借阅记录失败")
	}
	return toLendingEntity(model), nil
}

// MarkReturned 写入归还时间
func (r *lendingRepository) MarkReturned(ctx context.Context, id int64, returnedAt time.Time) error {
	db := conn(ctx, r.db)
	result := db.Model(&LendingModel{}).
		Where("id = ?", id).
		Update("returned_at", returnedAt.UTC())
	if result.Error != nil {
		return apperrors.DataAccess(result.Error, apperrors.ReasonLendingReturn, "写入归还时间失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// MySQL值未变化时影响行数也是0,再查一次确定记录是否存在
	var n int64
	if err := db.Model(&LendingModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return apperrors.DataAccess(err, apperrors.ReasonLendingReturn, "查询借阅记录失败")
	}
	if n == 0 {
		return lending.ErrLendingNotFound
	}
	return nil
}

func toLendingEntity(m *LendingModel) *lending.Record {
	rec := &lending.Record{
		ID:            m.ID,
		UserID:        m.UserID,
		BookID:        m.BookID,
		BorrowedAt:    m.BorrowedAt.UTC(),
		PagesAtBorrow: m.PagesAtBorrow,
	}
	if m.ReturnedAt != nil {
		t := m.ReturnedAt.UTC()
		rec.ReturnedAt = &t
	}
	return rec
}

func toLendingEntities(models []LendingModel) []*lending.Record {
	out := make([]*lending.Record, len(models))
	for i := range models {
		out[i] = toLendingEntity(&models[i])
	}
	return out
}
