package memory

import (
	"github.com/xiebiao/librarysystem/internal/domain/book"
	"github.com/xiebiao/librarysystem/internal/domain/lending"
	"github.com/xiebiao/librarysystem/internal/domain/user"
)

// distinctIDs 去重并保持首次出现的顺序
func distinctIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

var (
	_ book.Repository    = (*BookRepository)(nil)
	_ user.Repository    = (*UserRepository)(nil)
	_ lending.Repository = (*LendingRepository)(nil)
)
