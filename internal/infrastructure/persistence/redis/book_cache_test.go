package redis

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/librarysystem/internal/domain/book"
	"github.com/xiebiao/librarysystem/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/librarysystem/pkg/circuitbreaker"
)

// countingRepo 统计回源次数
// afterFind非空时在回源读完、返回之前执行一次,用来模拟并发的库存变更
type countingRepo struct {
	book.Repository
	finds     int32
	afterFind func()
}

func (r *countingRepo) FindByID(ctx context.Context, id int64) (*book.Book, error) {
	atomic.AddInt32(&r.finds, 1)
	b, err := r.Repository.FindByID(ctx, id)
	if hook := r.afterFind; hook != nil {
		r.afterFind = nil
		hook()
	}
	return b, err
}

func setup(t *testing.T) (*miniredis.Miniredis, *countingRepo, *CachedBookRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := memory.NewBookRepository()
	require.NoError(t, store.Create(context.Background(), &book.Book{ID: 1, Title: "Clean Code", Pages: 464, TotalCopies: 5, AvailableCopies: 4}))
	repo := &countingRepo{Repository: store}

	cached := NewCachedBookRepository(repo, client, CacheOptions{
		TTL:    time.Minute,
		Logger: zerolog.Nop(),
		Breaker: circuitbreaker.New(t.Name(), circuitbreaker.Config{
			FailureThreshold: 2,
			OpenTimeout:      time.Hour,
			IsFailure:        IsCacheFailure,
		}),
	})
	return mr, repo, cached
}

func TestCachedBookRepository_CacheAside(t *testing.T) {
	ctx := context.Background()
	mr, repo, cached := setup(t)

	b, err := cached.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Clean Code", b.Title)
	assert.True(t, mr.Exists("library:book:1"), "未命中后回填缓存")

	ttl := mr.TTL("library:book:1")
	assert.Equal(t, time.Minute, ttl)

	b, err = cached.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, b.AvailableCopies)
	assert.Equal(t, int32(1), atomic.LoadInt32(&repo.finds), "第二次命中缓存")
}

func TestCachedBookRepository_InvalidateOnAdjust(t *testing.T) {
	ctx := context.Background()
	mr, _, cached := setup(t)

	_, err := cached.FindByID(ctx, 1)
	require.NoError(t, err)

	ok, err := cached.TryAdjustAvailableCopies(ctx, 1, -1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, mr.Exists("library:book:1"))

	b, err := cached.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, b.AvailableCopies)
}

func TestCachedBookRepository_NotFoundNotCached(t *testing.T) {
	ctx := context.Background()
	mr, _, cached := setup(t)

	_, err := cached.FindByID(ctx, 99)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	assert.False(t, mr.Exists("library:book:99"))
}

func TestCachedBookRepository_RedisDownFallsBack(t *testing.T) {
	ctx := context.Background()
	mr, repo, cached := setup(t)
	mr.Close()

	for i := 0; i < 4; i++ {
		b, err := cached.FindByID(ctx, 1)
		require.NoError(t, err, "Redis不可用时回源")
		assert.Equal(t, "Clean Code", b.Title)
	}
	assert.Equal(t, int32(4), atomic.LoadInt32(&repo.finds))
	assert.Equal(t, circuitbreaker.StateOpen, cached.breaker.State())
}

func TestCachedBookRepository_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	mr, repo, cached := setup(t)
	require.NoError(t, mr.Set("library:book:1", "{not json"))

	b, err := cached.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.ID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&repo.finds))
}

func TestIsCacheFailure(t *testing.T) {
	assert.False(t, IsCacheFailure(nil))
	assert.False(t, IsCacheFailure(redis.Nil))
	assert.True(t, IsCacheFailure(context.DeadlineExceeded))
}

func TestCachedBookRepository_StaleFillRejected(t *testing.T) {
	ctx := context.Background()
	mr, repo, cached := setup(t)

	// 回源读到可借4之后、回填之前,另一个请求借出一本
	repo.afterFind = func() {
		ok, err := cached.TryAdjustAvailableCopies(ctx, 1, -1)
		require.NoError(t, err)
		require.True(t, ok)
	}

	b, err := cached.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, b.AvailableCopies, "本次返回回源时的快照")
	assert.False(t, mr.Exists("library:book:1"), "旧快照不能写回缓存")

	b, err = cached.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, b.AvailableCopies)
	assert.True(t, mr.Exists("library:book:1"))
}

func TestCachedBookRepository_FailedInvalidateRetried(t *testing.T) {
	ctx := context.Background()
	mr, _, cached := setup(t)

	b, err := cached.FindByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 4, b.AvailableCopies)

	// 删除缓存失败,旧值仍留在Redis中
	mr.SetError("ERR simulated outage")
	ok, err := cached.TryAdjustAvailableCopies(ctx, 1, -1)
	require.NoError(t, err)
	require.True(t, ok)
	mr.SetError("")
	require.True(t, mr.Exists("library:book:1"))

	b, err = cached.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, b.AvailableCopies, "读之前先补做失效")
}

func TestCachedBookRepository_PendingInvalidateBypassesCache(t *testing.T) {
	ctx := context.Background()
	mr, repo, cached := setup(t)

	_, err := cached.FindByID(ctx, 1)
	require.NoError(t, err)

	mr.SetError("ERR simulated outage")
	ok, err := cached.TryAdjustAvailableCopies(ctx, 1, -1)
	require.NoError(t, err)
	require.True(t, ok)

	// Redis仍不可用:失效无法补做,只能回源
	b, err := cached.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, b.AvailableCopies)
	assert.Equal(t, int32(2), atomic.LoadInt32(&repo.finds))
}
