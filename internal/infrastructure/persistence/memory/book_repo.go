package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/xiebiao/librarysystem/internal/domain/book"
)

// BookRepository 内存图书库存仓储
// 1. 读写都在同一把互斥锁内完成,条件更新的"比较-写入"是原子的
// 2. 对外只返回副本,调用方修改返回值不会影响存储
type BookRepository struct {
	mu     sync.Mutex
	books  map[int64]*book.Book
	nextID int64
}

// NewBookRepository 创建内存图书仓储
func NewBookRepository() *BookRepository {
	return &BookRepository{books: make(map[int64]*book.Book)}
}

func (r *BookRepository) FindByID(ctx context.Context, id int64) (*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return cloneBook(b), nil
}

func (r *BookRepository) FindAll(ctx context.Context) ([]*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*book.Book, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, cloneBook(b))
	}
	sortBooks(out)
	return out, nil
}

func (r *BookRepository) FindByIDs(ctx context.Context, ids []int64) ([]*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*book.Book, 0, len(ids))
	for _, id := range distinctIDs(ids) {
		if b, ok := r.books[id]; ok {
			out = append(out, cloneBook(b))
		}
	}
	sortBooks(out)
	return out, nil
}

func (r *BookRepository) TryAdjustAvailableCopies(ctx context.Context, id int64, delta int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.books[id]
	if !ok {
		return false, nil
	}
	next, ok := b.CanAdjust(delta)
	if !ok {
		return false, nil
	}
	b.AvailableCopies = next
	b.Version++
	return true, nil
}

func (r *BookRepository) Create(ctx context.Context, b *book.Book) error {
	if err := b.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if b.ID == 0 {
		r.nextID++
		b.ID = r.nextID
	} else if b.ID > r.nextID {
		r.nextID = b.ID
	}
	r.books[b.ID] = cloneBook(b)
	return nil
}

func cloneBook(b *book.Book) *book.Book {
	c := *b
	return &c
}

func sortBooks(books []*book.Book) {
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
}
