// Package logger 基于zerolog的结构化日志
//
// 每条日志包含:
//   - source: 组件名(如lending.service)
//   - correlation_id: 请求关联ID(来自context)
//   - trace_id: OpenTelemetry TraceID(存在活跃Span时)
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/xiebiao/librarysystem/pkg/correlation"
	"github.com/xiebiao/librarysystem/pkg/tracing"
)

const filePermission = 0o664

// Options 日志配置
type Options struct {
	Level        string // debug | info | warn | error
	Format       string // console | json
	Output       string // stdout | stderr | /path/to/file
	EnableCaller bool
}

// New 根据配置创建日志器
// Output为文件路径时以追加方式打开,写入经过SyncWriter串行化
func New(opts Options) (zerolog.Logger, error) {
	var w io.Writer
	switch strings.ToLower(opts.Output) {
	case "", "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		f, err := os.OpenFile(opts.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePermission)
		if err != nil {
			return zerolog.Nop(), err
		}
		w = zerolog.SyncWriter(f)
	}

	if strings.ToLower(opts.Format) == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	ctx := zerolog.New(w).Level(level).With().Timestamp()
	if opts.EnableCaller {
		ctx = ctx.Caller()
	}
	return ctx.Logger(), nil
}

// Component 为组件派生带source字段的子日志器
func Component(base zerolog.Logger, source string) zerolog.Logger {
	return base.With().Str("source", source).Logger()
}

// For 派生带请求上下文字段的日志器
func For(ctx context.Context, base zerolog.Logger) *zerolog.Logger {
	lc := base.With()
	if id := correlation.FromContext(ctx); id != "" {
		lc = lc.Str("correlation_id", id)
	}
	if traceID := tracing.ExtractTraceID(ctx); traceID != "" {
		lc = lc.Str("trace_id", traceID)
	}
	l := lc.Logger()
	return &l
}
