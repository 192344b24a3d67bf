package lending

import (
	"context"

	bookapp "github.com/xiebiao/librarysystem/internal/application/book"
	"github.com/xiebiao/librarysystem/internal/domain/lending"
	"github.com/xiebiao/librarysystem/pkg/tracing"
)

// RelatedBooksUseCase "借过这本书的人还借了"用例
type RelatedBooksUseCase struct {
	lendingService lending.Service
}

// NewRelatedBooksUseCase 创建相关图书用例
func NewRelatedBooksUseCase(lendingService lending.Service) *RelatedBooksUseCase {
	return &RelatedBooksUseCase{lendingService: lendingService}
}

// Execute 查询相关图书,按ID升序
func (uc *RelatedBooksUseCase) Execute(ctx context.Context, bookID int64) (_ []bookapp.BookDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "lending.GetRelatedBooks")
	defer func() { tracing.End(span, err) }()

	books, err := uc.lendingService.GetRelatedBooks(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return bookapp.ToDTOs(books), nil
}
