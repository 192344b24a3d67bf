package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/xiebiao/librarysystem/internal/domain/book"
	"github.com/xiebiao/librarysystem/internal/domain/lending"
	"github.com/xiebiao/librarysystem/internal/domain/user"
	"github.com/xiebiao/librarysystem/pkg/logger"
)

// Transactor 事务执行器(sqlstore.TxManager / memory.TxManager)
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// SeedResult 本次实际写入的数量
type SeedResult struct {
	Books    int `json:"books"`
	Users    int `json:"users"`
	Lendings int `json:"lendings"`
}

// SeedUseCase 演示数据加载用例
// 1. 全部写入在同一事务内完成
// 2. 已存在的图书/用户按ID跳过;台账非空时不再写入借阅记录
type SeedUseCase struct {
	tx     Transactor
	books  book.Repository
	users  user.Repository
	ledger lending.Repository
	log    zerolog.Logger
}

// NewSeedUseCase 创建演示数据加载用例
func NewSeedUseCase(tx Transactor, books book.Repository, users user.Repository, ledger lending.Repository, log zerolog.Logger) *SeedUseCase {
	return &SeedUseCase{
		tx:     tx,
		books:  books,
		users:  users,
		ledger: ledger,
		log:    logger.Component(log, "catalog.seed"),
	}
}

// DemoBooks 演示图书,可借数量已扣除演示借阅中未归还的部分
func DemoBooks() []*book.Book {
	return []*book.Book{
		{ID: 1, Title: "Clean Code", Author: "Robert C. Martin", Pages: 464, TotalCopies: 5, AvailableCopies: 4},
		{ID: 2, Title: "Refactoring", Author: "Martin Fowler", Pages: 448, TotalCopies: 3, AvailableCopies: 2},
		{ID: 3, Title: "Design Patterns", Author: "Erich Gamma et al.", Pages: 395, TotalCopies: 4, AvailableCopies: 4},
	}
}

// DemoUsers 演示用户
func DemoUsers() []*user.User {
	return []*user.User{
		{ID: 1, Name: "Alice Johnson", Email: "alice@example.com"},
		{ID: 2, Name: "Bob Smith", Email: "bob@example.com"},
		{ID: 3, Name: "Charlie Young", Email: "charlie@example.com"},
	}
}

// DemoLendings 演示借阅记录(两条未归还,一条已归还)
func DemoLendings() []*lending.Record {
	returned := time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)
	return []*lending.Record{
		{BookID: 1, UserID: 1, BorrowedAt: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), PagesAtBorrow: 464},
		{BookID: 2, UserID: 2, BorrowedAt: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), PagesAtBorrow: 448},
		{BookID: 1, UserID: 3, BorrowedAt: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), ReturnedAt: &returned, PagesAtBorrow: 464},
	}
}

// Execute 加载演示数据
func (uc *SeedUseCase) Execute(ctx context.Context) (*SeedResult, error) {
	result := &SeedResult{}
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		// 1. 图书
		for _, b := range DemoBooks() {
			_, err := uc.books.FindByID(ctx, b.ID)
			if err == nil {
				continue
			}
			if !errors.Is(err, book.ErrBookNotFound) {
				return err
			}
			if err := uc.books.Create(ctx, b); err != nil {
				return err
			}
			result.Books++
		}

		// 2. 用户
		for _, u := range DemoUsers() {
			_, err := uc.users.FindByID(ctx, u.ID)
			if err == nil {
				continue
			}
			if !errors.Is(err, user.ErrUserNotFound) {
				return err
			}
			if err := uc.users.Create(ctx, u); err != nil {
				return err
			}
			result.Users++
		}

		// 3. 借阅记录:台账非空说明已加载过或已有真实数据
		counts, err := uc.ledger.CountByBook(ctx)
		if err != nil {
			return err
		}
		if len(counts) > 0 {
			return nil
		}
		for _, r := range DemoLendings() {
			rec, err := uc.ledger.Add(ctx, r.UserID, r.BookID, r.BorrowedAt, r.PagesAtBorrow)
			if err != nil {
				return err
			}
			if r.ReturnedAt != nil {
				if err := uc.ledger.MarkReturned(ctx, rec.ID, *r.ReturnedAt); err != nil {
					return err
				}
			}
			result.Lendings++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int("books", result.Books).
		Int("users", result.Users).
		Int("lendings", result.Lendings).
		Msg("演示数据加载完成")
	return result, nil
}
