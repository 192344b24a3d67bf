package lending

import (
	"context"

	"github.com/xiebiao/librarysystem/internal/domain/lending"
	apperrors "github.com/xiebiao/librarysystem/pkg/errors"
	"github.com/xiebiao/librarysystem/pkg/metrics"
	"github.com/xiebiao/librarysystem/pkg/tracing"
)

// ReturnBookUseCase 还书用例
// 重复归还视为成功(幂等)
type ReturnBookUseCase struct {
	lendingService lending.Service
}

// NewReturnBookUseCase 创建还书用例
func NewReturnBookUseCase(lendingService lending.Service) *ReturnBookUseCase {
	return &ReturnBookUseCase{lendingService: lendingService}
}

// Execute 执行还书用例
func (uc *ReturnBookUseCase) Execute(ctx context.Context, lendingID int64) (err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "lending.RecordReturn")
	defer func() {
		tracing.End(span, err)
		metrics.RecordLending("return", resultLabel(err))
	}()

	return uc.lendingService.RecordReturn(ctx, lendingID)
}

// resultLabel 指标result标签: success / validation / not_found / error
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case apperrors.IsValidation(err):
		return "validation"
	case apperrors.IsNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}
