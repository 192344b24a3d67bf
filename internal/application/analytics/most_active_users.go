package analytics

import (
	"context"
	"time"

	"github.com/xiebiao/librarysystem/internal/domain/analytics"
	"github.com/xiebiao/librarysystem/internal/domain/user"
	"github.com/xiebiao/librarysystem/pkg/tracing"
)

// UserDTO 用户响应DTO
type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ToUserDTOs 领域实体 → DTO
func ToUserDTOs(users []*user.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = UserDTO{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return out
}

// MostActiveUsersUseCase 活跃用户用例
type MostActiveUsersUseCase struct {
	analytics analytics.Service
}

// NewMostActiveUsersUseCase 创建活跃用户用例
func NewMostActiveUsersUseCase(svc analytics.Service) *MostActiveUsersUseCase {
	return &MostActiveUsersUseCase{analytics: svc}
}

// Execute from/to为日期字符串,解析与范围校验由领域服务完成
func (uc *MostActiveUsersUseCase) Execute(ctx context.Context, from, to string) (_ []UserDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "analytics.MostActiveUsers")
	defer observe("most_active_users", time.Now())
	defer func() { tracing.End(span, err) }()

	users, err := uc.analytics.MostActiveUsersBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return ToUserDTOs(users), nil
}
