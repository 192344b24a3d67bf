package server

import (
	"context"

	"google.golang.org/grpc"
)

// 服务全名
const (
	LendingServiceName = "library.v1.LendingService"
	BookServiceName    = "library.v1.BookService"
	UserServiceName    = "library.v1.UserService"
)

// methodHandler grpc.MethodDesc.Handler的函数签名
type methodHandler = func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error)

// unaryHandler 构造一元方法处理函数(与protoc-gen-go-grpc生成的_Xxx_Handler结构相同)
// 1. dec解码请求
// 2. 没有拦截器时直接调用
// 3. 否则交给拦截器链
func unaryHandler[S any, Req any, Resp any](fullMethod string, call func(S, context.Context, *Req) (Resp, error)) methodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(S), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func fullMethod(service, method string) string {
	return "/" + service + "/" + method
}
