package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xiebiao/librarysystem/internal/domain/lending"
)

// LendingRepository 内存借阅台账
// 记录按插入顺序保存,ID自增
type LendingRepository struct {
	mu      sync.RWMutex
	records []*lending.Record
	byID    map[int64]*lending.Record
	nextID  int64
}

// NewLendingRepository 创建内存借阅台账
func NewLendingRepository() *LendingRepository {
	return &LendingRepository{byID: make(map[int64]*lending.Record)}
}

func (r *LendingRepository) FindActive(ctx context.Context, userID, bookID int64) (*lending.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if rec.UserID == userID && rec.BookID == bookID && rec.IsActive() {
			return cloneRecord(rec), nil
		}
	}
	return nil, nil
}

func (r *LendingRepository) FindByID(ctx context.Context, id int64) (*lending.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return nil, lending.ErrLendingNotFound
	}
	return cloneRecord(rec), nil
}

func (r *LendingRepository) FindInRange(ctx context.Context, from, to time.Time) ([]*lending.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*lending.Record
	for _, rec := range r.records {
		if rec.BorrowedAt.Before(from) || rec.BorrowedAt.After(to) {
			continue
		}
		out = append(out, cloneRecord(rec))
	}
	return out, nil
}

func (r *LendingRepository) FindReturnedByUserSince(ctx context.Context, userID int64, since time.Time) ([]*lending.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*lending.Record
	for _, rec := range r.records {
		if rec.UserID != userID || rec.IsActive() || rec.BorrowedAt.Before(since) {
			continue
		}
		out = append(out, cloneRecord(rec))
	}
	return out, nil
}

func (r *LendingRepository) RelatedBookIDs(ctx context.Context, bookID int64) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// 1. 借过bookID的读者
	readers := make(map[int64]struct{})
	for _, rec := range r.records {
		if rec.BookID == bookID {
			readers[rec.UserID] = struct{}{}
		}
	}

	// 2. 这些读者借过的其他图书
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, rec := range r.records {
		if rec.BookID == bookID {
			continue
		}
		if _, ok := readers[rec.UserID]; !ok {
			continue
		}
		if _, dup := seen[rec.BookID]; dup {
			continue
		}
		seen[rec.BookID] = struct{}{}
		ids = append(ids, rec.BookID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *LendingRepository) CountByBook(ctx context.Context) (map[int64]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[int64]int)
	for _, rec := range r.records {
		counts[rec.BookID]++
	}
	return counts, nil
}

func (r *LendingRepository) Add(ctx context.Context, userID, bookID int64, borrowedAt time.Time, pagesAtBorrow int) (*lending.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	rec := &lending.Record{
		ID:            r.nextID,
		UserID:        userID,
		BookID:        bookID,
		BorrowedAt:    borrowedAt,
		PagesAtBorrow: pagesAtBorrow,
	}
	r.records = append(r.records, rec)
	r.byID[rec.ID] = rec
	return cloneRecord(rec), nil
}

func (r *LendingRepository) MarkReturned(ctx context.Context, id int64, returnedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return lending.ErrLendingNotFound
	}
	t := returnedAt
	rec.ReturnedAt = &t
	return nil
}

// Seed 直接写入历史记录(测试和种子数据使用),保留记录自带的ID
func (r *LendingRepository) Seed(records ...*lending.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range records {
		c := cloneRecord(rec)
		if c.ID == 0 {
			r.nextID++
			c.ID = r.nextID
		} else if c.ID > r.nextID {
			r.nextID = c.ID
		}
		r.records = append(r.records, c)
		r.byID[c.ID] = c
	}
}

func cloneRecord(rec *lending.Record) *lending.Record {
	c := *rec
	if rec.ReturnedAt != nil {
		t := *rec.ReturnedAt
		c.ReturnedAt = &t
	}
	return &c
}
