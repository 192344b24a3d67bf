package book

import (
	"context"

	"github.com/xiebiao/librarysystem/internal/domain/book"
	"github.com/xiebiao/librarysystem/pkg/tracing"
)

const tracerName = "library/application/book"

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 馆藏规模有限,一次返回全部图书,按ID升序
// 2. 可借数量只是查询时刻的快照
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// Execute 执行列表查询用例
func (uc *ListBooksUseCase) Execute(ctx context.Context) (_ []BookDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.GetAllBooks")
	defer func() { tracing.End(span, err) }()

	books, err := uc.bookService.GetAllBooks(ctx)
	if err != nil {
		return nil, err
	}
	return ToDTOs(books), nil
}
