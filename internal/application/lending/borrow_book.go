package lending

import (
	"context"
	"time"

	"github.com/xiebiao/librarysystem/internal/domain/lending"
	"github.com/xiebiao/librarysystem/pkg/metrics"
	"github.com/xiebiao/librarysystem/pkg/tracing"
)

const tracerName = "library/application/lending"

// BorrowBookUseCase 借书用例
// 设计说明:
// 1. 应用层负责用例编排(链路追踪、指标、DTO转换)
// 2. 借阅规则(重复借阅、库存条件更新)全部在领域服务中
type BorrowBookUseCase struct {
	lendingService lending.Service
}

// NewBorrowBookUseCase 创建借书用例
func NewBorrowBookUseCase(lendingService lending.Service) *BorrowBookUseCase {
	return &BorrowBookUseCase{lendingService: lendingService}
}

// BorrowBookRequest 借书请求DTO
type BorrowBookRequest struct {
	UserID int64
	BookID int64
}

// LendingDTO 借阅记录响应DTO
type LendingDTO struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	BookID        int64      `json:"book_id"`
	BorrowedAt    time.Time  `json:"borrowed_at"`
	ReturnedAt    *time.Time `json:"returned_at,omitempty"`
	PagesAtBorrow int        `json:"pages_at_borrow"`
}

// ToLendingDTO 领域实体 → DTO
func ToLendingDTO(r *lending.Record) LendingDTO {
	return LendingDTO{
		ID:            r.ID,
		UserID:        r.UserID,
		BookID:        r.BookID,
		BorrowedAt:    r.BorrowedAt,
		ReturnedAt:    r.ReturnedAt,
		PagesAtBorrow: r.PagesAtBorrow,
	}
}

// Execute 执行借书用例
func (uc *BorrowBookUseCase) Execute(ctx context.Context, req BorrowBookRequest) (_ *LendingDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "lending.RecordBorrow")
	defer func() {
		tracing.End(span, err)
		metrics.RecordLending("borrow", resultLabel(err))
	}()

	rec, err := uc.lendingService.RecordBorrow(ctx, req.UserID, req.BookID)
	if err != nil {
		return nil, err
	}
	dto := ToLendingDTO(rec)
	return &dto, nil
}
