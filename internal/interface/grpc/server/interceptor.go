package server

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/xiebiao/librarysystem/pkg/correlation"
	apperrors "github.com/xiebiao/librarysystem/pkg/errors"
	"github.com/xiebiao/librarysystem/pkg/logger"
	"github.com/xiebiao/librarysystem/pkg/metrics"
)

// ErrorDomain ErrorInfo.Domain
const ErrorDomain = "library.v1"

// UnaryServerInterceptor 关联ID + 错误映射拦截器
// 1. 从x-correlation-id元数据读取关联ID,缺失时生成,写入context并通过trailer回传
// 2. 应用错误映射为gRPC状态码:
//   - Validation → InvalidArgument
//   - NotFound → NotFound
//   - DataAccess及其他 → Internal
//
// 3. 状态附带ErrorInfo{Reason: 错误码, Metadata: {status, correlation_id}}
func UnaryServerInterceptor(base zerolog.Logger) grpc.UnaryServerInterceptor {
	base = logger.Component(base, "grpc")
	metrics.InitMetrics()

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()

		id := correlation.Ensure(incomingCorrelationID(ctx))
		ctx = correlation.WithID(ctx, id)
		if err := grpc.SetTrailer(ctx, metadata.Pairs(correlation.MetadataKey, id)); err != nil {
			logger.For(ctx, base).Debug().Err(err).Str("method", info.FullMethod).Msg("写入关联ID trailer失败")
		}

		resp, handlerErr := handler(ctx, req)

		code := codes.OK
		var err error
		if handlerErr != nil {
			st := toStatus(handlerErr, id)
			code = st.Code()
			err = st.Err()
		}
		metrics.GRPCRequestsTotal.WithLabelValues(info.FullMethod, code.String()).Inc()

		log := logger.For(ctx, base)
		var event *zerolog.Event
		switch code {
		case codes.OK:
			event = log.Info()
		case codes.Internal, codes.Unknown:
			event = log.Error().Err(handlerErr)
		default:
			event = log.Warn().Err(handlerErr)
		}
		event.Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("latency", time.Since(start)).
			Msg("gRPC请求")

		return resp, err
	}
}

func incomingCorrelationID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(correlation.MetadataKey); len(values) > 0 {
		return values[0]
	}
	return ""
}

// toStatus 应用错误 → gRPC状态
// 已经是gRPC状态的错误(如请求解码失败)原样返回
func toStatus(err error, correlationID string) *status.Status {
	if st, ok := status.FromError(err); ok {
		return st
	}
	if ctxErr := status.FromContextError(err); ctxErr.Code() != codes.Unknown {
		return ctxErr
	}

	appErr := apperrors.GetAppError(err)
	var code codes.Code
	switch {
	case apperrors.IsValidation(appErr):
		code = codes.InvalidArgument
	case apperrors.IsNotFound(appErr):
		code = codes.NotFound
	default:
		code = codes.Internal
	}

	st := status.New(code, appErr.Message)
	detailed, detailErr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: appErr.Reason,
		Domain: ErrorDomain,
		Metadata: map[string]string{
			"status":         strconv.Itoa(apperrors.HTTPStatus(appErr)),
			"code":           strconv.Itoa(appErr.Code),
			"correlation_id": correlationID,
		},
	})
	if detailErr != nil {
		return st
	}
	return detailed
}
