package sqlstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/librarysystem/internal/domain/user"
	apperrors "github.com/xiebiao/librarysystem/pkg/errors"
)

// userRepository 用户目录实现（GORM）
// 注意：返回的是domain层的接口类型，不是具体类型（依赖倒置）
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
// 邮箱唯一性由数据库UNIQUE索引保证（而非应用层SELECT再INSERT）
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := &UserModel{
		ID:   u.ID,
		Name: u.Name,
	}
	// 空邮箱存NULL,避免多个无邮箱用户触发唯一索引冲突
	if u.Email != "" {
		email := u.Email
		model.Email = &email
	}
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.Validation("用户已存在: %s", u.Email)
		}
		return apperrors.DataAccess(err, "", "创建用户失败")
	}
	u.ID = model.ID
	return nil
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.DataAccess(err, "", "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// FindByIDs 批量查询,一次IN查询代替N次单条查询
func (r *userRepository) FindByIDs(ctx context.Context, ids []int64) ([]*user.User, error) {
	ids = distinctIDs(ids)
	if len(ids) == 0 {
		return []*user.User{}, nil
	}

	var models []UserModel
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperrors.DataAccess(err, "", "批量查询用户失败")
	}
	users := make([]*user.User, len(models))
	for i := range models {
		users[i] = toUserEntity(&models[i])
	}
	return users, nil
}

func toUserEntity(m *UserModel) *user.User {
	u := &user.User{
		ID:   m.ID,
		Name: m.Name,
	}
	if m.Email != nil {
		u.Email = *m.Email
	}
	return u
}
