package analytics

import (
	"math"
	"time"

	"github.com/xiebiao/librarysystem/internal/domain/lending"
)

const (
	// DefaultPagesPerHour 没有可用历史数据时的默认阅读速度(页/小时)
	DefaultPagesPerHour = 30.0

	// PaceLookback 阅读速度只参考最近180天的借阅
	PaceLookback = 180 * 24 * time.Hour
)

// AveragePagesPerHour 根据已归还记录计算平均阅读速度
// 1. 每条记录的页数取借出时快照,快照为0时用targetPages
// 2. 借阅时长<=0或速度<=0的样本丢弃
// 3. 没有有效样本返回DefaultPagesPerHour
func AveragePagesPerHour(records []*lending.Record, targetPages int) float64 {
	var sum float64
	var n int
	for _, r := range records {
		d, returned := r.ReadingDuration()
		if !returned {
			continue
		}
		hours := d.Hours()
		if hours <= 0 {
			continue
		}
		pages := r.PagesAtBorrow
		if pages == 0 {
			pages = targetPages
		}
		rate := float64(pages) / hours
		if rate <= 0 {
			continue
		}
		sum += rate
		n++
	}
	if n == 0 {
		return DefaultPagesPerHour
	}
	avg := sum / float64(n)
	if avg <= 0 || math.IsNaN(avg) || math.IsInf(avg, 0) {
		return DefaultPagesPerHour
	}
	return avg
}

// EstimateHours 预计阅读时长(小时),保留两位小数,四舍五入远离零
// pagesPerHour<=0时回退为默认速度,避免除零
func EstimateHours(pages int, pagesPerHour float64) float64 {
	if pagesPerHour <= 0 {
		pagesPerHour = DefaultPagesPerHour
	}
	return roundHalfAwayFromZero(float64(pages)/pagesPerHour, 2)
}

func roundHalfAwayFromZero(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
