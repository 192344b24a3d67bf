package analytics

import (
	"context"
	"time"

	"github.com/xiebiao/librarysystem/internal/domain/analytics"
	"github.com/xiebiao/librarysystem/pkg/tracing"
)

// ReadingPaceUseCase 阅读时长估算用例
type ReadingPaceUseCase struct {
	analytics analytics.Service
}

// NewReadingPaceUseCase 创建阅读时长估算用例
func NewReadingPaceUseCase(svc analytics.Service) *ReadingPaceUseCase {
	return &ReadingPaceUseCase{analytics: svc}
}

// ReadingPaceResponse 估算结果
type ReadingPaceResponse struct {
	UserID         int64   `json:"user_id"`
	BookID         int64   `json:"book_id"`
	EstimatedHours float64 `json:"estimated_hours"`
}

// Execute 估算userID读完bookID需要的小时数
func (uc *ReadingPaceUseCase) Execute(ctx context.Context, userID, bookID int64) (_ *ReadingPaceResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "analytics.EstimateReadingPace")
	defer observe("reading_pace", time.Now())
	defer func() { tracing.End(span, err) }()

	hours, err := uc.analytics.EstimateReadingPace(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	return &ReadingPaceResponse{UserID: userID, BookID: bookID, EstimatedHours: hours}, nil
}
