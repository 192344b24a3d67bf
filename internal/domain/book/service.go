package book

import (
	"context"
	"errors"
)

// Service 图书目录领域服务
type Service interface {
	// GetAllBooks 查询全部图书
	GetAllBooks(ctx context.Context) ([]*Book, error)

	// GetBookByID 根据ID查询图书
	// id<=0返回参数错误;图书不存在返回(nil, nil)
	GetBookByID(ctx context.Context, id int64) (*Book, error)
}

type service struct {
	repo Repository
}

// NewService 创建图书目录服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetAllBooks(ctx context.Context) ([]*Book, error) {
	return s.repo.FindAll(ctx)
}

func (s *service) GetBookByID(ctx context.Context, id int64) (*Book, error) {
	if id <= 0 {
		return nil, ErrInvalidBookID
	}
	b, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrBookNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}
