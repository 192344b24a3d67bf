package analytics

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/xiebiao/librarysystem/internal/domain/book"
	"github.com/xiebiao/librarysystem/internal/domain/lending"
	"github.com/xiebiao/librarysystem/internal/domain/user"
	apperrors "github.com/xiebiao/librarysystem/pkg/errors"
	"github.com/xiebiao/librarysystem/pkg/logger"
)

const (
	// DefaultMostBorrowedTop 热门图书默认返回数量
	DefaultMostBorrowedTop = 1

	// MinActivityRange 活跃用户统计的最小时间跨度
	MinActivityRange = time.Minute

	// MaxActivityRange 活跃用户统计的最大时间跨度(2年)
	MaxActivityRange = 365 * 2 * 24 * time.Hour

	// FutureTolerance 允许to超出当前时间的时钟偏差
	FutureTolerance = 5 * time.Minute
)

// Service 借阅统计服务
// 所有结果都从借阅记录实时计算,不做持久化或缓存
type Service interface {
	// MostBorrowedBooks 借阅次数最多的图书,top<=0时取DefaultMostBorrowedTop
	MostBorrowedBooks(ctx context.Context, top int) ([]*book.Book, error)

	// MostActiveUsers [from, to]内借阅最多的用户
	// 次数相同按用户ID升序;目录中不存在的用户直接跳过
	MostActiveUsers(ctx context.Context, from, to time.Time) ([]*user.User, error)

	// MostActiveUsersBetween 日期字符串版本,解析失败返回参数错误
	MostActiveUsersBetween(ctx context.Context, from, to string) ([]*user.User, error)

	// EstimateReadingPace 预计该用户读完这本书需要的小时数
	EstimateReadingPace(ctx context.Context, userID, bookID int64) (float64, error)
}

// Option 可选配置
type Option func(*service)

// WithClock 注入时钟
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithLogger 注入日志器
func WithLogger(l zerolog.Logger) Option {
	return func(s *service) { s.log = logger.Component(l, "analytics.service") }
}

type service struct {
	ledger lending.Repository
	books  book.Repository
	users  user.Repository
	log    zerolog.Logger
	now    func() time.Time
}

// NewService 创建统计服务
func NewService(ledger lending.Repository, books book.Repository, users user.Repository, opts ...Option) Service {
	s := &service{
		ledger: ledger,
		books:  books,
		users:  users,
		log:    zerolog.Nop(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) MostBorrowedBooks(ctx context.Context, top int) ([]*book.Book, error) {
	if top <= 0 {
		top = DefaultMostBorrowedTop
	}

	counts, err := s.ledger.CountByBook(ctx)
	if err != nil {
		return nil, err
	}
	ids := RankBooks(counts, top)
	if len(ids) == 0 {
		return []*book.Book{}, nil
	}

	found, err := s.books.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*book.Book, len(found))
	for _, b := range found {
		byID[b.ID] = b
	}

	// 按排名顺序输出,目录中已不存在的图书跳过
	out := make([]*book.Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *service) MostActiveUsersBetween(ctx context.Context, from, to string) ([]*user.User, error) {
	fromAt, err := ParseDate(from, "from")
	if err != nil {
		return nil, err
	}
	toAt, err := ParseDate(to, "to")
	if err != nil {
		return nil, err
	}
	return s.MostActiveUsers(ctx, fromAt, toAt)
}

func (s *service) MostActiveUsers(ctx context.Context, from, to time.Time) ([]*user.User, error) {
	if err := s.validateRange(from, to); err != nil {
		return nil, err
	}

	records, err := s.ledger.FindInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	ranked := RankActiveUsers(records)
	if len(ranked) == 0 {
		logger.For(ctx, s.log).Info().Time("from", from).Time("to", to).Msg("时间范围内没有借阅记录")
		return []*user.User{}, nil
	}

	found, err := s.users.FindByIDs(ctx, ranked)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*user.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}

	out := make([]*user.User, 0, len(ranked))
	for _, id := range ranked {
		u, ok := byID[id]
		if !ok {
			logger.For(ctx, s.log).Warn().Int64("user_id", id).Msg("借阅记录引用的用户不存在,已跳过")
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// validateRange 校验统计时间范围
func (s *service) validateRange(from, to time.Time) error {
	if !from.Before(to) {
		return apperrors.New(apperrors.ErrCodeInvalidRange, "from必须早于to")
	}
	span := to.Sub(from)
	if span < MinActivityRange {
		return apperrors.New(apperrors.ErrCodeInvalidRange, "时间范围过小,至少1分钟")
	}
	if span > MaxActivityRange {
		return apperrors.New(apperrors.ErrCodeInvalidRange, "时间范围超过最大730天")
	}
	if to.After(s.now().Add(FutureTolerance)) {
		return apperrors.New(apperrors.ErrCodeInvalidRange, "to不能明显晚于当前时间")
	}
	return nil
}

func (s *service) EstimateReadingPace(ctx context.Context, userID, bookID int64) (float64, error) {
	if userID <= 0 {
		return 0, user.ErrInvalidUserID
	}
	if bookID <= 0 {
		return 0, book.ErrInvalidBookID
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return 0, err
	}
	target, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return 0, err
	}

	since := s.now().Add(-PaceLookback)
	history, err := s.ledger.FindReturnedByUserSince(ctx, userID, since)
	if err != nil {
		return 0, err
	}

	pagesPerHour := AveragePagesPerHour(history, target.Pages)
	hours := EstimateHours(target.Pages, pagesPerHour)

	logger.For(ctx, s.log).Debug().
		Int64("user_id", userID).
		Int64("book_id", bookID).
		Int("samples", len(history)).
		Float64("pages_per_hour", pagesPerHour).
		Float64("estimated_hours", hours).
		Msg("阅读时长估算完成")
	return hours, nil
}
