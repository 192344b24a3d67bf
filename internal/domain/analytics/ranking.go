package analytics

import (
	"sort"

	"github.com/xiebiao/librarysystem/internal/domain/lending"
)

// countEntry 按ID计数
type countEntry struct {
	ID    int64
	Count int
}

// rankByCount 次数降序,次数相同按ID升序
func rankByCount(counts map[int64]int) []countEntry {
	entries := make([]countEntry, 0, len(counts))
	for id, c := range counts {
		entries = append(entries, countEntry{ID: id, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].ID < entries[j].ID
	})
	return entries
}

// RankActiveUsers 统计每个用户的借阅次数并排序,忽略userID<=0的记录
func RankActiveUsers(records []*lending.Record) []int64 {
	counts := make(map[int64]int)
	for _, r := range records {
		if r.UserID <= 0 {
			continue
		}
		counts[r.UserID]++
	}
	ranked := rankByCount(counts)
	ids := make([]int64, len(ranked))
	for i, e := range ranked {
		ids[i] = e.ID
	}
	return ids
}

// RankBooks 图书按借阅次数排序,返回前top个ID
func RankBooks(counts map[int64]int, top int) []int64 {
	ranked := rankByCount(counts)
	if top < len(ranked) {
		ranked = ranked[:top]
	}
	ids := make([]int64, len(ranked))
	for i, e := range ranked {
		ids[i] = e.ID
	}
	return ids
}
