package sqlstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/librarysystem/internal/domain/book"
	apperrors "github.com/xiebiao/librarysystem/pkg/errors"
)

// bookRepository 图书库存仓储实现(GORM)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 可借数量只通过带版本号的条件UPDATE修改
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	if err := b.Validate(); err != nil {
		return err
	}

	model := toBookModel(b)
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.Validation("图书ID已存在: %d", b.ID)
		}
		return apperrors.DataAccess(err, "", "创建图书失败")
	}

	// 回填自增ID
	b.ID = model.ID
	b.Version = model.Version
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id int64) (*book.Book, error) {
	var model BookModel
	err := conn(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.DataAccess(err, "", "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// FindAll 查询全部图书
func (r *bookRepository) FindAll(ctx context.Context) ([]*book.Book, error) {
	var models []BookModel
	if err := conn(ctx, r.db).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.DataAccess(err, "", "查询图书列表失败")
	}
	return toBookEntities(models), nil
}

// FindByIDs 批量查询
func (r *bookRepository) FindByIDs(ctx context.Context, ids []int64) ([]*book.Book, error) {
	ids = distinctIDs(ids)
	if len(ids) == 0 {
		return []*book.Book{}, nil
	}

	var models []BookModel
	if err := conn(ctx, r.db).Where("id IN ?", ids).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.DataAccess(err, "", "批量查询图书失败")
	}
	return toBookEntities(models), nil
}

// TryAdjustAvailableCopies 乐观锁条件更新
// UPDATE books SET available_copies = ?, version = version + 1 WHERE id = ? AND version = ?
// 教学要点:
// 1. 先读当前快照,在内存中检查调整后是否越界
// 2. 条件UPDATE以读到的版本号为前提,影响行数为0说明被并发修改
// 3. 不重试:调用方把false当作"无可借副本"处理
func (r *bookRepository) TryAdjustAvailableCopies(ctx context.Context, id int64, delta int) (bool, error) {
	db := conn(ctx, r.db)

	// 1. 读取当前快照
	var model BookModel
	if err := db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperrors.DataAccess(err, "", "查询库存失败")
	}

	// 2. 越界检查
	next, ok := toBookEntity(&model).CanAdjust(delta)
	if !ok {
		return false, nil
	}

	// 3. 版本号条件更新
	result := db.Model(&BookModel{}).
		Where("id = ? AND version = ?", id, model.Version).
		Updates(map[string]interface{}{
			"available_copies": next,
			"version":          gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, apperrors.DataAccess(result.Error, "", "更新库存失败")
	}
	return result.RowsAffected == 1, nil
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Pages:           b.Pages,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		Version:         b.Version,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(m *BookModel) *book.Book {
	return &book.Book{
		ID:              m.ID,
		Title:           m.Title,
		Author:          m.Author,
		Pages:           m.Pages,
		TotalCopies:     m.TotalCopies,
		AvailableCopies: m.AvailableCopies,
		Version:         m.Version,
	}
}

func toBookEntities(models []BookModel) []*book.Book {
	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books
}
