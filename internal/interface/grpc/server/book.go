package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"

	appanalytics "github.com/xiebiao/librarysystem/internal/application/analytics"
	appbook "github.com/xiebiao/librarysystem/internal/application/book"
)

// BookServiceServer library.v1.BookService
type BookServiceServer interface {
	GetAllBooks(context.Context, *emptypb.Empty) (*BookListReply, error)
	GetBookById(context.Context, *BookRequest) (*BookReply, error)
	GetMostBorrowedBooks(context.Context, *MostBorrowedRequest) (*BookListReply, error)
	EstimateReadingPace(context.Context, *ReadingPaceRequest) (*ReadingPaceReply, error)
}

// BookServiceDesc 图书服务描述
var BookServiceDesc = grpc.ServiceDesc{
	ServiceName: BookServiceName,
	HandlerType: (*BookServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetAllBooks",
			Handler:    unaryHandler(fullMethod(BookServiceName, "GetAllBooks"), BookServiceServer.GetAllBooks),
		},
		{
			MethodName: "GetBookById",
			Handler:    unaryHandler(fullMethod(BookServiceName, "GetBookById"), BookServiceServer.GetBookById),
		},
		{
			MethodName: "GetMostBorrowedBooks",
			Handler:    unaryHandler(fullMethod(BookServiceName, "GetMostBorrowedBooks"), BookServiceServer.GetMostBorrowedBooks),
		},
		{
			MethodName: "EstimateReadingPace",
			Handler:    unaryHandler(fullMethod(BookServiceName, "EstimateReadingPace"), BookServiceServer.EstimateReadingPace),
		},
	},
	Metadata: "library/v1/book.proto",
}

// BookServer 图书服务gRPC实现
type BookServer struct {
	listBooksUseCase    *appbook.ListBooksUseCase
	getBookUseCase      *appbook.GetBookUseCase
	mostBorrowedUseCase *appanalytics.MostBorrowedUseCase
	readingPaceUseCase  *appanalytics.ReadingPaceUseCase
}

// NewBookServer 创建图书服务
func NewBookServer(
	listBooksUseCase *appbook.ListBooksUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	mostBorrowedUseCase *appanalytics.MostBorrowedUseCase,
	readingPaceUseCase *appanalytics.ReadingPaceUseCase,
) *BookServer {
	return &BookServer{
		listBooksUseCase:    listBooksUseCase,
		getBookUseCase:      getBookUseCase,
		mostBorrowedUseCase: mostBorrowedUseCase,
		readingPaceUseCase:  readingPaceUseCase,
	}
}

func (s *BookServer) GetAllBooks(ctx context.Context, _ *emptypb.Empty) (*BookListReply, error) {
	books, err := s.listBooksUseCase.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return &BookListReply{Books: books}, nil
}

// GetBookById 不存在的图书返回NotFound
func (s *BookServer) GetBookById(ctx context.Context, req *BookRequest) (*BookReply, error) {
	b, err := s.getBookUseCase.Execute(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	return &BookReply{Book: *b}, nil
}

func (s *BookServer) GetMostBorrowedBooks(ctx context.Context, req *MostBorrowedRequest) (*BookListReply, error) {
	books, err := s.mostBorrowedUseCase.Execute(ctx, req.Top)
	if err != nil {
		return nil, err
	}
	return &BookListReply{Books: books}, nil
}

func (s *BookServer) EstimateReadingPace(ctx context.Context, req *ReadingPaceRequest) (*ReadingPaceReply, error) {
	result, err := s.readingPaceUseCase.Execute(ctx, req.UserID, req.BookID)
	if err != nil {
		return nil, err
	}
	return &ReadingPaceReply{EstimatedHours: result.EstimatedHours}, nil
}
