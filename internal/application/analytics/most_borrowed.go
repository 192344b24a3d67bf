package analytics

import (
	"context"
	"time"

	bookapp "github.com/xiebiao/librarysystem/internal/application/book"
	"github.com/xiebiao/librarysystem/internal/domain/analytics"
	"github.com/xiebiao/librarysystem/pkg/metrics"
	"github.com/xiebiao/librarysystem/pkg/tracing"
)

const tracerName = "library/application/analytics"

// MostBorrowedUseCase 热门图书用例
type MostBorrowedUseCase struct {
	analytics  analytics.Service
	defaultTop int
}

// NewMostBorrowedUseCase 创建热门图书用例
// defaultTop为请求未指定top时使用的数量(来自配置analytics.most_borrowed_top)
func NewMostBorrowedUseCase(svc analytics.Service, defaultTop int) *MostBorrowedUseCase {
	if defaultTop <= 0 {
		defaultTop = analytics.DefaultMostBorrowedTop
	}
	return &MostBorrowedUseCase{analytics: svc, defaultTop: defaultTop}
}

// Execute top<=0时使用默认数量
func (uc *MostBorrowedUseCase) Execute(ctx context.Context, top int) (_ []bookapp.BookDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "analytics.MostBorrowedBooks")
	defer observe("most_borrowed", time.Now())
	defer func() { tracing.End(span, err) }()

	if top <= 0 {
		top = uc.defaultTop
	}
	books, err := uc.analytics.MostBorrowedBooks(ctx, top)
	if err != nil {
		return nil, err
	}
	return bookapp.ToDTOs(books), nil
}

func observe(query string, start time.Time) {
	metrics.ObserveAnalytics(query, time.Since(start).Seconds())
}
