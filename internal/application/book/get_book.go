package book

import (
	"context"

	"github.com/xiebiao/librarysystem/internal/domain/book"
	"github.com/xiebiao/librarysystem/pkg/tracing"
)

// GetBookUseCase 图书详情查询用例
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建详情查询用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

// Execute 查询图书详情
// 领域服务对不存在的图书返回(nil, nil),这里转换为ErrBookNotFound,接口层据此返回404
func (uc *GetBookUseCase) Execute(ctx context.Context, id int64) (_ *BookDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.GetBookByID")
	defer func() { tracing.End(span, err) }()

	b, err := uc.bookService.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, book.ErrBookNotFound.WithMessage("图书不存在: %d", id)
	}
	dto := ToDTO(b)
	return &dto, nil
}
