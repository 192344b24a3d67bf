package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/librarysystem/internal/domain/book"
	"github.com/xiebiao/librarysystem/internal/domain/lending"
	"github.com/xiebiao/librarysystem/internal/domain/user"
	"github.com/xiebiao/librarysystem/internal/infrastructure/config"
	apperrors "github.com/xiebiao/librarysystem/pkg/errors"
)

// newTestDB 每个测试独立的sqlite内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := Open(config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		Path:        fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		AutoMigrate: true,
	}, gormlogger.Silent)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestBookRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))

	b := book.NewBook("Clean Code", "Robert C. Martin", 464, 2)
	require.NoError(t, repo.Create(ctx, b))
	require.NotZero(t, b.ID)
	require.NoError(t, repo.Create(ctx, &book.Book{ID: 50, Title: "Refactoring", Author: "Martin Fowler", Pages: 448, TotalCopies: 3, AvailableCopies: 2}))

	t.Run("FindByID", func(t *testing.T) {
		got, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Clean Code", got.Title)
		assert.Equal(t, 2, got.AvailableCopies)

		_, err = repo.FindByID(ctx, 999)
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})

	t.Run("FindAll与FindByIDs按ID升序", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, int64(50), all[1].ID)

		some, err := repo.FindByIDs(ctx, []int64{50, 999, 50})
		require.NoError(t, err)
		require.Len(t, some, 1)
		assert.Equal(t, "Refactoring", some[0].Title)

		none, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("非法数据拒绝写入", func(t *testing.T) {
		err := repo.Create(ctx, book.NewBook("bad", "x", 0, 1))
		assert.ErrorIs(t, err, book.ErrInvalidPages)
	})

	t.Run("重复ID", func(t *testing.T) {
		err := repo.Create(ctx, &book.Book{ID: 50, Title: "dup", Pages: 1, TotalCopies: 1, AvailableCopies: 1})
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestBookRepository_TryAdjustAvailableCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	b := book.NewBook("Design Patterns", "GoF", 395, 1)
	require.NoError(t, repo.Create(ctx, b))

	ok, err := repo.TryAdjustAvailableCopies(ctx, b.ID, -1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TryAdjustAvailableCopies(ctx, b.ID, -1)
	require.NoError(t, err)
	assert.False(t, ok, "可借数量不能为负")

	ok, err = repo.TryAdjustAvailableCopies(ctx, b.ID, +1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TryAdjustAvailableCopies(ctx, b.ID, +1)
	require.NoError(t, err)
	assert.False(t, ok, "可借数量不能超过总数")

	ok, err = repo.TryAdjustAvailableCopies(ctx, 12345, -1)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AvailableCopies)
	assert.Equal(t, int64(2), got.Version)
}

func TestBookRepository_StaleVersionRejected(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewBookRepository(db)
	b := book.NewBook("Go", "Pike", 300, 3)
	require.NoError(t, repo.Create(ctx, b))

	// 模拟另一个写入者在读和写之间推进了版本号
	stale := BookModel{}
	require.NoError(t, db.First(&stale, b.ID).Error)
	require.NoError(t, db.Model(&BookModel{}).Where("id = ?", b.ID).
		Update("version", gorm.Expr("version + 1")).Error)

	result := db.Model(&BookModel{}).
		Where("id = ? AND version = ?", b.ID, stale.Version).
		Updates(map[string]interface{}{"available_copies": 2, "version": gorm.Expr("version + 1")})
	require.NoError(t, result.Error)
	assert.Zero(t, result.RowsAffected)
}

func TestBookRepository_ConcurrentAdjust(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	b := book.NewBook("Concurrency in Go", "Cox-Buday", 238, 3)
	require.NoError(t, repo.Create(ctx, b))

	var wg sync.WaitGroup
	var succeeded int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.TryAdjustAvailableCopies(ctx, b.ID, -1)
			if err == nil && ok {
				atomic.AddInt32(&succeeded, 1)
			}
		}()
	}
	wg.Wait()

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got.AvailableCopies, 0)
	assert.LessOrEqual(t, int(succeeded), 3)
	assert.Equal(t, 3-int(succeeded), got.AvailableCopies)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &user.User{ID: 1, Name: "Alice Johnson", Email: "alice@example.com"}))
	require.NoError(t, repo.Create(ctx, &user.User{ID: 2, Name: "Bob Smith"}))
	require.NoError(t, repo.Create(ctx, &user.User{ID: 3, Name: "Charlie Young"}))

	u, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)

	_, err = repo.FindByID(ctx, 9)
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	users, err := repo.FindByIDs(ctx, []int64{3, 1, 3, 9})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	err = repo.Create(ctx, &user.User{ID: 4, Name: "dup", Email: "alice@example.com"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestLendingRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewLendingRepository(newTestDB(t))
	base := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	r1, err := repo.Add(ctx, 1, 1, base, 464)
	require.NoError(t, err)
	r2, err := repo.Add(ctx, 2, 2, base.Add(48*time.Hour), 448)
	require.NoError(t, err)
	r3, err := repo.Add(ctx, 3, 1, base.Add(-5*24*time.Hour), 464)
	require.NoError(t, err)
	_, err = repo.Add(ctx, 3, 3, base.Add(time.Hour), 395)
	require.NoError(t, err)
	require.NoError(t, repo.MarkReturned(ctx, r3.ID, base.Add(4*24*time.Hour)))

	t.Run("FindActive", func(t *testing.T) {
		active, err := repo.FindActive(ctx, 1, 1)
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, r1.ID, active.ID)
		assert.True(t, base.Equal(active.BorrowedAt))

		none, err := repo.FindActive(ctx, 3, 1)
		require.NoError(t, err)
		assert.Nil(t, none, "已归还的记录不算未归还")
	})

	t.Run("FindByID", func(t *testing.T) {
		got, err := repo.FindByID(ctx, r3.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ReturnedAt)
		assert.Equal(t, time.UTC, got.ReturnedAt.Location())

		_, err = repo.FindByID(ctx, 999)
		assert.ErrorIs(t, err, lending.ErrLendingNotFound)
	})

	t.Run("FindInRange两端包含", func(t *testing.T) {
		recs, err := repo.FindInRange(ctx, base, base.Add(48*time.Hour))
		require.NoError(t, err)
		ids := make([]int64, 0, len(recs))
		for _, r := range recs {
			ids = append(ids, r.ID)
		}
		assert.Contains(t, ids, r1.ID)
		assert.Contains(t, ids, r2.ID)
		assert.NotContains(t, ids, r3.ID)
		assert.Len(t, ids, 3)
	})

	t.Run("FindReturnedByUserSince", func(t *testing.T) {
		recs, err := repo.FindReturnedByUserSince(ctx, 3, base.Add(-30*24*time.Hour))
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, r3.ID, recs[0].ID)

		recs, err = repo.FindReturnedByUserSince(ctx, 3, base)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("RelatedBookIDs", func(t *testing.T) {
		ids, err := repo.RelatedBookIDs(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []int64{3}, ids)

		ids, err = repo.RelatedBookIDs(ctx, 42)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("CountByBook", func(t *testing.T) {
		counts, err := repo.CountByBook(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[int64]int{1: 2, 2: 1, 3: 1}, counts)
	})

	t.Run("MarkReturned不存在的记录", func(t *testing.T) {
		err := repo.MarkReturned(ctx, 999, base)
		assert.ErrorIs(t, err, lending.ErrLendingNotFound)
	})
}

func TestTxManager_Rollback(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tx := NewTxManager(db)
	books := NewBookRepository(db)

	boom := errors.New("boom")
	err := tx.Transaction(ctx, func(ctx context.Context) error {
		if err := books.Create(ctx, book.NewBook("rolled back", "x", 10, 1)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := books.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, tx.Transaction(ctx, func(ctx context.Context) error {
		return books.Create(ctx, book.NewBook("committed", "x", 10, 1))
	}))
	all, err = books.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestIsDuplicateError(t *testing.T) {
	assert.False(t, isDuplicateError(nil))
	assert.True(t, isDuplicateError(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateError(errors.New("Error 1062: Duplicate entry '1' for key 'PRIMARY'")))
	assert.True(t, isDuplicateError(errors.New("UNIQUE constraint failed: users.email")))
	assert.False(t, isDuplicateError(errors.New("connection refused")))
}
