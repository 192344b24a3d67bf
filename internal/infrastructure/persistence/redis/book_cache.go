package redis

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/xiebiao/librarysystem/internal/domain/book"
	"github.com/xiebiao/librarysystem/pkg/circuitbreaker"
	"github.com/xiebiao/librarysystem/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CachedBookRepository 带Redis缓存的图书仓储(装饰器)
//
// 教学要点：
// 1. Cache-Aside：先查缓存，未命中再查底层仓储并回填
// 2. 库存变化(TryAdjustAvailableCopies)直接走底层仓储,成功后删除缓存
// 3. Redis故障不影响业务:所有缓存操作都经过熔断器,失败或熔断时直接查底层仓储
// 4. 回填带代数校验:每本书有一个代数key,失效时INCR;回填前记下代数,
//    只有代数没变才写入,避免回源期间并发的库存变更被旧快照覆盖
// 5. 失效失败(Redis故障或熔断)的图书记入pending,删除成功前这些图书不读缓存
//
// 缓存里的AvailableCopies只用于展示,借出是否成功只看条件更新的结果
type CachedBookRepository struct {
	next    book.Repository
	client  redis.UniversalClient
	breaker *circuitbreaker.CircuitBreaker
	ttl     time.Duration
	prefix  string
	log     zerolog.Logger

	mu      sync.Mutex
	pending map[int64]struct{}
}

// genTTL 代数key的过期时间,远大于任何一次回源耗时
const genTTL = 24 * time.Hour

// setIfGenScript 代数未变化时写入缓存
// KEYS[1]=数据key KEYS[2]=代数key ARGV[1]=回源前读到的代数 ARGV[2]=值 ARGV[3]=TTL(毫秒)
var setIfGenScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[2])
if cur == false then cur = '0' end
if cur ~= ARGV[1] then return 0 end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// invalidateScript 代数+1并删除数据
// KEYS[1]=数据key KEYS[2]=代数key ARGV[1]=代数key TTL(毫秒)
var invalidateScript = redis.NewScript(`
redis.call('INCR', KEYS[2])
redis.call('PEXPIRE', KEYS[2], ARGV[1])
redis.call('DEL', KEYS[1])
return 1
`)

// CacheOptions 缓存配置
type CacheOptions struct {
	TTL       time.Duration
	KeyPrefix string
	Breaker   *circuitbreaker.CircuitBreaker
	Logger    zerolog.Logger
}

// NewCachedBookRepository 创建缓存装饰器
func NewCachedBookRepository(next book.Repository, client redis.UniversalClient, opts CacheOptions) *CachedBookRepository {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "library:book:"
	}
	if opts.Breaker == nil {
		opts.Breaker = circuitbreaker.New("redis-book-cache", circuitbreaker.Config{
			IsFailure: IsCacheFailure,
		})
	}
	return &CachedBookRepository{
		next:    next,
		client:  client,
		breaker: opts.Breaker,
		ttl:     opts.TTL,
		prefix:  opts.KeyPrefix,
		log:     logger.Component(opts.Logger, "redis.book_cache"),
		pending: make(map[int64]struct{}),
	}
}

// IsCacheFailure 缓存未命中(redis.Nil)不算Redis故障
func IsCacheFailure(err error) bool {
	return err != nil && !errors.Is(err, redis.Nil)
}

var _ book.Repository = (*CachedBookRepository)(nil)

// cachedBook 缓存中的JSON结构
type cachedBook struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Pages           int    `json:"pages"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
	Version         int64  `json:"version"`
}

func (r *CachedBookRepository) FindByID(ctx context.Context, id int64) (*book.Book, error) {
	// 0. 有未完成的失效时不碰缓存
	if !r.flushPending(ctx) {
		return r.next.FindByID(ctx, id)
	}

	key := r.key(id)

	// 1. 查缓存
	var raw []byte
	err := r.breaker.Execute(func() error {
		var err error
		raw, err = r.client.Get(ctx, key).Bytes()
		return err
	})
	if err == nil {
		var cb cachedBook
		if jerr := json.Unmarshal(raw, &cb); jerr == nil {
			return cb.toEntity(), nil
		}
		r.logFor(ctx).Warn().Str("key", key).Msg("缓存数据损坏,回源查询")
	} else if !errors.Is(err, redis.Nil) {
		r.logFor(ctx).Warn().Err(err).Str("key", key).Msg("读取图书缓存失败,回源查询")
	}

	// 2. 记下当前代数,读不到就只回源不回填
	gen, genErr := r.generation(ctx, id)

	// 3. 回源(不存在的图书不缓存)
	b, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 4. 代数未变才回填,失败只记日志
	if genErr == nil {
		r.set(ctx, b, gen)
	}
	return b, nil
}

// generation 读取图书的缓存代数,从未失效过为"0"
func (r *CachedBookRepository) generation(ctx context.Context, id int64) (string, error) {
	var gen string
	err := r.breaker.Execute(func() error {
		v, err := r.client.Get(ctx, r.genKey(id)).Result()
		if errors.Is(err, redis.Nil) {
			gen = "0"
			return nil
		}
		gen = v
		return err
	})
	return gen, err
}

func (r *CachedBookRepository) FindAll(ctx context.Context) ([]*book.Book, error) {
	return r.next.FindAll(ctx)
}

func (r *CachedBookRepository) FindByIDs(ctx context.Context, ids []int64) ([]*book.Book, error) {
	return r.next.FindByIDs(ctx, ids)
}

func (r *CachedBookRepository) TryAdjustAvailableCopies(ctx context.Context, id int64, delta int) (bool, error) {
	ok, err := r.next.TryAdjustAvailableCopies(ctx, id, delta)
	if err != nil || !ok {
		return ok, err
	}
	r.invalidate(ctx, id)
	return true, nil
}

func (r *CachedBookRepository) Create(ctx context.Context, b *book.Book) error {
	if err := r.next.Create(ctx, b); err != nil {
		return err
	}
	r.invalidate(ctx, b.ID)
	return nil
}

func (r *CachedBookRepository) set(ctx context.Context, b *book.Book, gen string) {
	val, err := json.Marshal(fromEntity(b))
	if err != nil {
		return
	}
	key := r.key(b.ID)
	var written int64
	if err := r.breaker.Execute(func() error {
		var err error
		written, err = setIfGenScript.Run(ctx, r.client,
			[]string{key, r.genKey(b.ID)},
			gen, val, r.ttl.Milliseconds(),
		).Int64()
		return err
	}); err != nil {
		r.logFor(ctx).Warn().Err(err).Str("key", key).Msg("写入图书缓存失败")
		return
	}
	if written == 0 {
		r.logFor(ctx).Debug().Str("key", key).Msg("回源期间图书已变更,放弃回填")
	}
}

// invalidate 更新后删除缓存,下次查询重新加载
// 失败时记入pending,由后续读请求重试
func (r *CachedBookRepository) invalidate(ctx context.Context, id int64) {
	if err := r.del(ctx, id); err != nil {
		r.logFor(ctx).Warn().Err(err).Str("key", r.key(id)).Msg("删除图书缓存失败,稍后重试")
		r.mu.Lock()
		r.pending[id] = struct{}{}
		r.mu.Unlock()
	}
}

func (r *CachedBookRepository) del(ctx context.Context, id int64) error {
	return r.breaker.Execute(func() error {
		return invalidateScript.Run(ctx, r.client,
			[]string{r.key(id), r.genKey(id)},
			genTTL.Milliseconds(),
		).Err()
	})
}

// flushPending 重试未完成的失效,全部成功返回true
func (r *CachedBookRepository) flushPending(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.pending {
		if err := r.del(ctx, id); err != nil {
			return false
		}
		delete(r.pending, id)
	}
	return true
}

func (r *CachedBookRepository) key(id int64) string {
	return r.prefix + strconv.FormatInt(id, 10)
}

func (r *CachedBookRepository) genKey(id int64) string {
	return r.key(id) + ":gen"
}

func (r *CachedBookRepository) logFor(ctx context.Context) *zerolog.Logger {
	return logger.For(ctx, r.log)
}

func fromEntity(b *book.Book) cachedBook {
	return cachedBook{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Pages:           b.Pages,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		Version:         b.Version,
	}
}

func (c cachedBook) toEntity() *book.Book {
	return &book.Book{
		ID:              c.ID,
		Title:           c.Title,
		Author:          c.Author,
		Pages:           c.Pages,
		TotalCopies:     c.TotalCopies,
		AvailableCopies: c.AvailableCopies,
		Version:         c.Version,
	}
}
