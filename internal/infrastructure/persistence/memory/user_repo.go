package memory

import (
	"context"
	"sync"

	"github.com/xiebiao/librarysystem/internal/domain/user"
)

// UserRepository 内存用户目录
type UserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*user.User
	nextID int64
}

// NewUserRepository 创建内存用户目录
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]*user.User)}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []int64) ([]*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*user.User, 0, len(ids))
	for _, id := range distinctIDs(ids) {
		if u, ok := r.users[id]; ok {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == 0 {
		r.nextID++
		u.ID = r.nextID
	} else if u.ID > r.nextID {
		r.nextID = u.ID
	}
	c := *u
	r.users[u.ID] = &c
	return nil
}
