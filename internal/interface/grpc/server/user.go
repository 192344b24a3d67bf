package server

import (
	"context"

	"google.golang.org/grpc"

	appanalytics "github.com/xiebiao/librarysystem/internal/application/analytics"
)

// UserServiceServer library.v1.UserService
type UserServiceServer interface {
	GetMostActiveUsers(context.Context, *MostActiveUsersRequest) (*UserListReply, error)
}

// UserServiceDesc 用户服务描述
var UserServiceDesc = grpc.ServiceDesc{
	ServiceName: UserServiceName,
	HandlerType: (*UserServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetMostActiveUsers",
			Handler:    unaryHandler(fullMethod(UserServiceName, "GetMostActiveUsers"), UserServiceServer.GetMostActiveUsers),
		},
	},
	Metadata: "library/v1/user.proto",
}

// UserServer 用户服务gRPC实现
type UserServer struct {
	mostActiveUseCase *appanalytics.MostActiveUsersUseCase
}

// NewUserServer 创建用户服务
func NewUserServer(mostActiveUseCase *appanalytics.MostActiveUsersUseCase) *UserServer {
	return &UserServer{mostActiveUseCase: mostActiveUseCase}
}

func (s *UserServer) GetMostActiveUsers(ctx context.Context, req *MostActiveUsersRequest) (*UserListReply, error) {
	users, err := s.mostActiveUseCase.Execute(ctx, req.From, req.To)
	if err != nil {
		return nil, err
	}
	return &UserListReply{Users: users}, nil
}
