package analytics

import (
	"strings"
	"time"

	apperrors "github.com/xiebiao/librarysystem/pkg/errors"
)

// acceptedLayouts 日期字符串可接受的格式,按顺序尝试,首个成功即返回
// 斜杠格式存在歧义(03/04/2025),按月/日/年优先解析
var acceptedLayouts = []string{
	time.RFC3339Nano,              // 2025-01-10T08:30:00.1234567+08:00
	"2006-01-02T15:04:05.9999999", // 无时区的往返格式,按UTC处理
	"2006-01-02",                  // 2025-01-10
	"2006-01-02T15:04:05Z",        // 2025-01-10T08:30:00Z
	"2006-01-02T15:04:05.000Z",    // 2025-01-10T08:30:00.000Z
	"2006-01-02 15:04:05",         // 2025-01-10 08:30:00
	"01/02/2006",                  // MM/dd/yyyy
	"02/01/2006",                  // dd/MM/yyyy
}

// ParseDate 解析日期字符串,无时区信息时按UTC处理,结果统一转为UTC
// label用于错误提示(如"from"、"to")
func ParseDate(raw, label string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, apperrors.Validation("%s不能为空", label)
	}
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperrors.Validation("无效的%s日期: %s", label, raw)
}
