// Package server 借阅系统gRPC服务
//
// 没有使用protoc生成代码:服务描述手写(desc.go),消息是带json标签的结构体,
// 通过JSON编解码器传输(codec.go)。编解码器按content-subtype "json"注册,
// 客户端需要grpc.CallContentSubtype(CodecName);健康检查等protobuf服务仍走默认proto编解码。
package server

import (
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const maxMessageSize = 10 * 1024 * 1024 // 10MB

// New 创建gRPC服务器并注册借阅、图书、用户服务和健康检查
func New(log zerolog.Logger, lending *LendingServer, books *BookServer, users *UserServer) *grpc.Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(UnaryServerInterceptor(log)),
		grpc.MaxRecvMsgSize(maxMessageSize),
		grpc.MaxSendMsgSize(maxMessageSize),
	)

	s.RegisterService(&LendingServiceDesc, lending)
	s.RegisterService(&BookServiceDesc, books)
	s.RegisterService(&UserServiceDesc, users)

	hs := health.NewServer()
	for _, name := range []string{LendingServiceName, BookServiceName, UserServiceName} {
		hs.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}
	healthpb.RegisterHealthServer(s, hs)

	return s
}
