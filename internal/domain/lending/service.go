package lending

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/xiebiao/librarysystem/internal/domain/book"
	"github.com/xiebiao/librarysystem/internal/domain/user"
	"github.com/xiebiao/librarysystem/pkg/correlation"
	"github.com/xiebiao/librarysystem/pkg/logger"
	"github.com/xiebiao/librarysystem/pkg/metrics"
)

// Service 借阅服务(借出/归还编排)
//
// 并发模型:
//   - 服务本身不持有任何跨步骤的锁
//   - 唯一的并发安全机制是库存仓储的乐观锁条件更新(TryAdjustAvailableCopies)
//   - 早先读到的图书数据只用于校验存在性,可借数量以条件更新的结果为准
type Service interface {
	// RecordBorrow 借出
	// 1. userID、bookID必须>0
	// 2. 用户、图书必须存在
	// 3. 不能已有未归还的借阅
	// 4. 先扣减库存(-1),失败返回"无可借副本"
	// 5. 扣减成功后写入借阅记录
	RecordBorrow(ctx context.Context, userID, bookID int64) (*Record, error)

	// RecordReturn 归还
	// 已归还的记录重复归还视为成功,不做任何修改
	RecordReturn(ctx context.Context, lendingID int64) error

	// GetRelatedBooks 借过该书的读者还借过哪些书
	GetRelatedBooks(ctx context.Context, bookID int64) ([]*book.Book, error)
}

// Option 服务可选配置
type Option func(*service)

// WithClock 注入时钟
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithLogger 注入日志器
func WithLogger(l zerolog.Logger) Option {
	return func(s *service) { s.log = logger.Component(l, "lending.service") }
}

// WithPublisher 注入事件发布者
func WithPublisher(p EventPublisher) Option {
	return func(s *service) { s.publisher = p }
}

type service struct {
	ledger    Repository
	books     book.Repository
	users     user.Repository
	publisher EventPublisher
	log       zerolog.Logger
	now       func() time.Time
}

// NewService 创建借阅服务
func NewService(ledger Repository, books book.Repository, users user.Repository, opts ...Option) Service {
	s := &service{
		ledger:    ledger,
		books:     books,
		users:     users,
		publisher: NopPublisher{},
		log:       zerolog.Nop(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) RecordBorrow(ctx context.Context, userID, bookID int64) (*Record, error) {
	// 1. 参数校验
	if userID <= 0 {
		return nil, user.ErrInvalidUserID
	}
	if bookID <= 0 {
		return nil, book.ErrInvalidBookID
	}

	// 2. 用户、图书存在性
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	b, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	// 3. 同一(user, book)最多一条未归还记录
	active, err := s.ledger.FindActive(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrActiveLendingExists
	}

	// 4. 扣减库存(单次乐观尝试),这是可借数量的唯一判断依据
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ok, err := s.books.TryAdjustAvailableCopies(ctx, bookID, -1)
	if err != nil {
		return nil, err
	}
	if !ok {
		metrics.RecordInventoryAdjustFailure("-1")
		return nil, book.ErrNoAvailableCopies
	}

	// 5. 写入借阅记录
	// 库存先于台账修改:两步之间失败只会让可借数量偏少,不会超借
	if err := ctx.Err(); err != nil {
		s.logFor(ctx).Warn().Int64("user_id", userID).Int64("book_id", bookID).
			Msg("库存已扣减但请求已取消,借阅记录未写入")
		return nil, err
	}
	rec, err := s.ledger.Add(ctx, userID, bookID, s.now(), b.Pages)
	if err != nil {
		s.logFor(ctx).Error().Err(err).Int64("user_id", userID).Int64("book_id", bookID).
			Msg("库存已扣减但借阅记录写入失败")
		return nil, err
	}

	s.publish(ctx, EventBorrowed, rec)
	return rec, nil
}

func (s *service) RecordReturn(ctx context.Context, lendingID int64) error {
	if lendingID <= 0 {
		return ErrInvalidLendingID
	}

	rec, err := s.ledger.FindByID(ctx, lendingID)
	if err != nil {
		return err
	}

	// 重复归还:幂等成功,不回补库存
	if !rec.IsActive() {
		s.logFor(ctx).Info().Int64("lending_id", lendingID).Msg("借阅记录已归还,忽略重复归还")
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// 库存回补失败不阻止归还:实体书已经回到馆内,借阅记录必须落库
	ok, err := s.books.TryAdjustAvailableCopies(ctx, rec.BookID, +1)
	if err != nil || !ok {
		metrics.RecordInventoryAdjustFailure("+1")
		s.logFor(ctx).Warn().Err(err).
			Int64("lending_id", lendingID).
			Int64("book_id", rec.BookID).
			Msg("归还时库存回补失败,继续写入归还时间")
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	returnedAt := s.now()
	if err := s.ledger.MarkReturned(ctx, lendingID, returnedAt); err != nil {
		return err
	}

	rec.ReturnedAt = &returnedAt
	s.publish(ctx, EventReturned, rec)
	return nil
}

func (s *service) GetRelatedBooks(ctx context.Context, bookID int64) ([]*book.Book, error) {
	if bookID <= 0 {
		return nil, book.ErrInvalidBookID
	}
	if _, err := s.books.FindByID(ctx, bookID); err != nil {
		return nil, err
	}

	ids, err := s.ledger.RelatedBookIDs(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*book.Book{}, nil
	}

	related, err := s.books.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// 仓储已排除bookID,这里再兜底一次
	out := related[:0]
	for _, b := range related {
		if b.ID != bookID {
			out = append(out, b)
		}
	}
	return out, nil
}

// publish 发布事件,失败只记日志
func (s *service) publish(ctx context.Context, typ EventType, rec *Record) {
	occurredAt := rec.BorrowedAt
	if typ == EventReturned && rec.ReturnedAt != nil {
		occurredAt = *rec.ReturnedAt
	}
	ev := Event{
		Type:          typ,
		LendingID:     rec.ID,
		UserID:        rec.UserID,
		BookID:        rec.BookID,
		OccurredAt:    occurredAt,
		CorrelationID: correlation.FromContext(ctx),
	}
	if err := s.publisher.PublishLendingEvent(ctx, ev); err != nil {
		s.logFor(ctx).Warn().Err(err).Str("event", string(typ)).Int64("lending_id", rec.ID).Msg("借阅事件发布失败")
	}
}

func (s *service) logFor(ctx context.Context) *zerolog.Logger {
	return logger.For(ctx, s.log)
}
