package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// Client 借阅系统gRPC客户端
// 所有调用以content-subtype "json"发送,服务端据此选择JSON编解码器
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient 创建客户端
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, service, method string, in, out interface{}, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, fullMethod(service, method), in, out, opts...)
}

func (c *Client) RecordBorrow(ctx context.Context, in *BorrowRequest, opts ...grpc.CallOption) (*LendingReply, error) {
	out := new(LendingReply)
	if err := c.invoke(ctx, LendingServiceName, "RecordBorrow", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RecordReturn(ctx context.Context, in *ReturnRequest, opts ...grpc.CallOption) error {
	return c.invoke(ctx, LendingServiceName, "RecordReturn", in, new(emptypb.Empty), opts...)
}

func (c *Client) GetRelatedBooks(ctx context.Context, in *BookRequest, opts ...grpc.CallOption) (*BookListReply, error) {
	out := new(BookListReply)
	if err := c.invoke(ctx, LendingServiceName, "GetRelatedBooks", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetAllBooks(ctx context.Context, opts ...grpc.CallOption) (*BookListReply, error) {
	out := new(BookListReply)
	if err := c.invoke(ctx, BookServiceName, "GetAllBooks", &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetBookById(ctx context.Context, in *BookRequest, opts ...grpc.CallOption) (*BookReply, error) {
	out := new(BookReply)
	if err := c.invoke(ctx, BookServiceName, "GetBookById", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetMostBorrowedBooks(ctx context.Context, in *MostBorrowedRequest, opts ...grpc.CallOption) (*BookListReply, error) {
	out := new(BookListReply)
	if err := c.invoke(ctx, BookServiceName, "GetMostBorrowedBooks", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) EstimateReadingPace(ctx context.Context, in *ReadingPaceRequest, opts ...grpc.CallOption) (*ReadingPaceReply, error) {
	out := new(ReadingPaceReply)
	if err := c.invoke(ctx, BookServiceName, "EstimateReadingPace", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetMostActiveUsers(ctx context.Context, in *MostActiveUsersRequest, opts ...grpc.CallOption) (*UserListReply, error) {
	out := new(UserListReply)
	if err := c.invoke(ctx, UserServiceName, "GetMostActiveUsers", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
