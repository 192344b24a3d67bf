// Package correlation 在context中传递请求关联ID
// HTTP使用X-Correlation-ID头,gRPC使用x-correlation-id元数据
package correlation

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

const (
	// HeaderName HTTP请求/响应头
	HeaderName = "X-Correlation-ID"
	// MetadataKey gRPC元数据键(必须小写)
	MetadataKey = "x-correlation-id"
)

type ctxKey struct{}

// NewID 生成新的关联ID(32位十六进制,不含连字符)
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Ensure 空白值替换为新ID
func Ensure(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return NewID()
	}
	return id
}

// WithID 将关联ID写入context
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext 读取关联ID,不存在时返回空字符串
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
