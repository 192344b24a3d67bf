package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"

	applending "github.com/xiebiao/librarysystem/internal/application/lending"
)

// LendingServiceServer library.v1.LendingService
type LendingServiceServer interface {
	RecordBorrow(context.Context, *BorrowRequest) (*LendingReply, error)
	RecordReturn(context.Context, *ReturnRequest) (*emptypb.Empty, error)
	GetRelatedBooks(context.Context, *BookRequest) (*BookListReply, error)
}

// LendingServiceDesc 借阅服务描述
var LendingServiceDesc = grpc.ServiceDesc{
	ServiceName: LendingServiceName,
	HandlerType: (*LendingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RecordBorrow",
			Handler:    unaryHandler(fullMethod(LendingServiceName, "RecordBorrow"), LendingServiceServer.RecordBorrow),
		},
		{
			MethodName: "RecordReturn",
			Handler:    unaryHandler(fullMethod(LendingServiceName, "RecordReturn"), LendingServiceServer.RecordReturn),
		},
		{
			MethodName: "GetRelatedBooks",
			Handler:    unaryHandler(fullMethod(LendingServiceName, "GetRelatedBooks"), LendingServiceServer.GetRelatedBooks),
		},
	},
	Metadata: "library/v1/lending.proto",
}

// LendingServer 借阅服务gRPC实现
// 只做协议转换,错误由拦截器统一映射为gRPC状态码
type LendingServer struct {
	borrowBookUseCase   *applending.BorrowBookUseCase
	returnBookUseCase   *applending.ReturnBookUseCase
	relatedBooksUseCase *applending.RelatedBooksUseCase
}

// NewLendingServer 创建借阅服务
func NewLendingServer(
	borrowBookUseCase *applending.BorrowBookUseCase,
	returnBookUseCase *applending.ReturnBookUseCase,
	relatedBooksUseCase *applending.RelatedBooksUseCase,
) *LendingServer {
	return &LendingServer{
		borrowBookUseCase:   borrowBookUseCase,
		returnBookUseCase:   returnBookUseCase,
		relatedBooksUseCase: relatedBooksUseCase,
	}
}

func (s *LendingServer) RecordBorrow(ctx context.Context, req *BorrowRequest) (*LendingReply, error) {
	rec, err := s.borrowBookUseCase.Execute(ctx, applending.BorrowBookRequest{
		UserID: req.UserID,
		BookID: req.BookID,
	})
	if err != nil {
		return nil, err
	}
	return &LendingReply{Lending: *rec}, nil
}

func (s *LendingServer) RecordReturn(ctx context.Context, req *ReturnRequest) (*emptypb.Empty, error) {
	if err := s.returnBookUseCase.Execute(ctx, req.LendingID); err != nil {
		return nil, err
	}
	return &emptypb.Empty{}, nil
}

func (s *LendingServer) GetRelatedBooks(ctx context.Context, req *BookRequest) (*BookListReply, error) {
	books, err := s.relatedBooksUseCase.Execute(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	return &BookListReply{Books: books}, nil
}
