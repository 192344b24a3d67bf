package server_test

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	appanalytics "github.com/xiebiao/librarysystem/internal/application/analytics"
	appbook "github.com/xiebiao/librarysystem/internal/application/book"
	applending "github.com/xiebiao/librarysystem/internal/application/lending"
	"github.com/xiebiao/librarysystem/internal/domain/analytics"
	"github.com/xiebiao/librarysystem/internal/domain/book"
	"github.com/xiebiao/librarysystem/internal/domain/lending"
	"github.com/xiebiao/librarysystem/internal/domain/user"
	"github.com/xiebiao/librarysystem/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/librarysystem/internal/interface/grpc/server"
	"github.com/xiebiao/librarysystem/pkg/correlation"
)

const bufSize = 1024 * 1024

func startServer(t *testing.T) *grpc.ClientConn {
	t.Helper()
	ctx := context.Background()

	books := memory.NewBookRepository()
	users := memory.NewUserRepository()
	ledger := memory.NewLendingRepository()
	require.NoError(t, books.Create(ctx, &book.Book{ID: 1, Title: "Clean Code", Pages: 464, TotalCopies: 1, AvailableCopies: 1}))
	require.NoError(t, books.Create(ctx, &book.Book{ID: 2, Title: "Refactoring", Pages: 448, TotalCopies: 2, AvailableCopies: 2}))
	require.NoError(t, users.Create(ctx, &user.User{ID: 1, Name: "Alice"}))
	require.NoError(t, users.Create(ctx, &user.User{ID: 2, Name: "Bob"}))

	borrowedAt := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	ledger.Seed(&lending.Record{UserID: 2, BookID: 2, BorrowedAt: borrowedAt, PagesAtBorrow: 448})

	lendingService := lending.NewService(ledger, books, users)
	analyticsService := analytics.NewService(ledger, books, users)
	bookService := book.NewService(books)

	s := server.New(zerolog.Nop(),
		server.NewLendingServer(
			applending.NewBorrowBookUseCase(lendingService),
			applending.NewReturnBookUseCase(lendingService),
			applending.NewRelatedBooksUseCase(lendingService),
		),
		server.NewBookServer(
			appbook.NewListBooksUseCase(bookService),
			appbook.NewGetBookUseCase(bookService),
			appanalytics.NewMostBorrowedUseCase(analyticsService, 0),
			appanalytics.NewReadingPaceUseCase(analyticsService),
		),
		server.NewUserServer(appanalytics.NewMostActiveUsersUseCase(analyticsService)),
	)

	lis := bufconn.Listen(bufSize)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.DialContext(ctx, "bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func errorInfo(t *testing.T, err error) (*status.Status, *errdetails.ErrorInfo) {
	t.Helper()
	st, ok := status.FromError(err)
	require.True(t, ok)
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return st, info
		}
	}
	t.Fatalf("缺少ErrorInfo: %v", err)
	return nil, nil
}

func TestLendingService(t *testing.T) {
	client := server.NewClient(startServer(t))
	ctx := context.Background()

	// 1. 借出
	reply, err := client.RecordBorrow(ctx, &server.BorrowRequest{UserID: 1, BookID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), reply.Lending.BookID)
	assert.Equal(t, 464, reply.Lending.PagesAtBorrow)

	// 2. 唯一副本已借出 → InvalidArgument
	_, err = client.RecordBorrow(ctx, &server.BorrowRequest{UserID: 2, BookID: 1})
	st, info := errorInfo(t, err)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Equal(t, "validation_error", info.Reason)
	assert.Equal(t, "400", info.Metadata["status"])
	assert.Equal(t, "40002", info.Metadata["code"])

	// 3. 相关图书:用户1借过1,用户2借过2,互不相关
	related, err := client.GetRelatedBooks(ctx, &server.BookRequest{BookID: 1})
	require.NoError(t, err)
	assert.Empty(t, related.Books)

	// 4. 归还两次都成功
	require.NoError(t, client.RecordReturn(ctx, &server.ReturnRequest{LendingID: reply.Lending.ID}))
	require.NoError(t, client.RecordReturn(ctx, &server.ReturnRequest{LendingID: reply.Lending.ID}))

	// 5. 不存在的借阅记录 → NotFound
	err = client.RecordReturn(ctx, &server.ReturnRequest{LendingID: 404})
	st, info = errorInfo(t, err)
	assert.Equal(t, codes.NotFound, st.Code())
	assert.Equal(t, "not_found", info.Reason)
	assert.Equal(t, "404", info.Metadata["status"])
}

func TestBookService(t *testing.T) {
	client := server.NewClient(startServer(t))
	ctx := context.Background()

	all, err := client.GetAllBooks(ctx)
	require.NoError(t, err)
	require.Len(t, all.Books, 2)

	one, err := client.GetBookById(ctx, &server.BookRequest{BookID: 2})
	require.NoError(t, err)
	assert.Equal(t, "Refactoring", one.Book.Title)

	_, err = client.GetBookById(ctx, &server.BookRequest{BookID: 9})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.GetBookById(ctx, &server.BookRequest{BookID: -1})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	top, err := client.GetMostBorrowedBooks(ctx, &server.MostBorrowedRequest{})
	require.NoError(t, err)
	require.Len(t, top.Books, 1)
	assert.Equal(t, int64(2), top.Books[0].ID)

	pace, err := client.EstimateReadingPace(ctx, &server.ReadingPaceRequest{UserID: 1, BookID: 2})
	require.NoError(t, err)
	assert.InDelta(t, 14.93, pace.EstimatedHours, 1e-9)
}

func TestUserService(t *testing.T) {
	client := server.NewClient(startServer(t))
	ctx := context.Background()

	reply, err := client.GetMostActiveUsers(ctx, &server.MostActiveUsersRequest{From: "2025-01-01", To: "2025-02-01"})
	require.NoError(t, err)
	require.Len(t, reply.Users, 1)
	assert.Equal(t, "Bob", reply.Users[0].Name)

	_, err = client.GetMostActiveUsers(ctx, &server.MostActiveUsersRequest{From: "bad", To: "2025-02-01"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestCorrelationMetadata(t *testing.T) {
	conn := startServer(t)
	client := server.NewClient(conn)

	t.Run("透传元数据", func(t *testing.T) {
		ctx := metadata.AppendToOutgoingContext(context.Background(), correlation.MetadataKey, "grpc-cid")
		var trailer metadata.MD
		_, err := client.GetBookById(ctx, &server.BookRequest{BookID: 9}, grpc.Trailer(&trailer))
		_, info := errorInfo(t, err)
		assert.Equal(t, "grpc-cid", info.Metadata["correlation_id"])
		assert.Equal(t, []string{"grpc-cid"}, trailer.Get(correlation.MetadataKey))
	})

	t.Run("缺失时生成", func(t *testing.T) {
		var trailer metadata.MD
		_, err := client.GetAllBooks(context.Background(), grpc.Trailer(&trailer))
		require.NoError(t, err)
		ids := trailer.Get(correlation.MetadataKey)
		require.Len(t, ids, 1)
		assert.Len(t, ids[0], 32)
	})
}

// TestHealthCheck 标准protobuf健康检查客户端,不指定编解码器
func TestHealthCheck(t *testing.T) {
	conn := startServer(t)
	client := healthpb.NewHealthClient(conn)

	for _, name := range []string{"", server.LendingServiceName, server.BookServiceName, server.UserServiceName} {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: name})
		require.NoError(t, err, "service=%q", name)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
	}
}

func TestJSONServiceRequiresContentSubtype(t *testing.T) {
	conn := startServer(t)

	// 默认proto编解码器无法编码普通结构体
	err := conn.Invoke(context.Background(), "/"+server.BookServiceName+"/GetBookById",
		&server.BookRequest{BookID: 1}, new(server.BookReply))
	require.Error(t, err)

	out := new(server.BookReply)
	err = conn.Invoke(context.Background(), "/"+server.BookServiceName+"/GetBookById",
		&server.BookRequest{BookID: 1}, out, grpc.CallContentSubtype(server.CodecName))
	require.NoError(t, err)
	assert.Equal(t, "Clean Code", out.Book.Title)
}

func TestInterceptor_TrailerFailureLogged(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	interceptor := server.UnaryServerInterceptor(log)

	// 没有gRPC传输流的context,SetTrailer必然失败
	resp, err := interceptor(context.Background(), nil,
		&grpc.UnaryServerInfo{FullMethod: "/library.v1.BookService/GetAllBooks"},
		func(ctx context.Context, req interface{}) (interface{}, error) {
			assert.NotEmpty(t, correlation.FromContext(ctx))
			return "ok", nil
		})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Contains(t, buf.String(), "写入关联ID trailer失败")
}
