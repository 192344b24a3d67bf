package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/xiebiao/librarysystem/internal/application/analytics"
	appbook "github.com/xiebiao/librarysystem/internal/application/book"
	applending "github.com/xiebiao/librarysystem/internal/application/lending"
	"github.com/xiebiao/librarysystem/internal/domain/analytics"
	"github.com/xiebiao/librarysystem/internal/domain/book"
	"github.com/xiebiao/librarysystem/internal/domain/lending"
	"github.com/xiebiao/librarysystem/internal/domain/user"
	"github.com/xiebiao/librarysystem/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/librarysystem/internal/interface/http/handler"
	"github.com/xiebiao/librarysystem/internal/interface/http/router"
	"github.com/xiebiao/librarysystem/pkg/correlation"
)

type envelope struct {
	Code          int             `json:"code"`
	Error         string          `json:"error"`
	Message       string          `json:"message"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

func at(day, hour int) time.Time {
	return time.Date(2025, 1, day, hour, 0, 0, 0, time.UTC)
}

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	books := memory.NewBookRepository()
	users := memory.NewUserRepository()
	ledger := memory.NewLendingRepository()

	require.NoError(t, books.Create(ctx, &book.Book{ID: 1, Title: "Clean Code", Author: "Robert C. Martin", Pages: 464, TotalCopies: 5, AvailableCopies: 5}))
	require.NoError(t, books.Create(ctx, &book.Book{ID: 2, Title: "Refactoring", Author: "Martin Fowler", Pages: 448, TotalCopies: 3, AvailableCopies: 3}))
	require.NoError(t, books.Create(ctx, &book.Book{ID: 3, Title: "Design Patterns", Author: "Gang of Four", Pages: 395, TotalCopies: 1, AvailableCopies: 1}))
	require.NoError(t, users.Create(ctx, &user.User{ID: 1, Name: "Alice", Email: "alice@example.com"}))
	require.NoError(t, users.Create(ctx, &user.User{ID: 2, Name: "Bob", Email: "bob@example.com"}))

	returned := at(14, 10)
	ledger.Seed(
		&lending.Record{UserID: 1, BookID: 1, BorrowedAt: at(10, 9), ReturnedAt: &returned, PagesAtBorrow: 464},
		&lending.Record{UserID: 1, BookID: 2, BorrowedAt: at(12, 9), PagesAtBorrow: 448},
		&lending.Record{UserID: 2, BookID: 2, BorrowedAt: at(15, 9), PagesAtBorrow: 448},
	)

	lendingService := lending.NewService(ledger, books, users)
	analyticsService := analytics.NewService(ledger, books, users)
	bookService := book.NewService(books)

	return router.New(zerolog.Nop(), router.Handlers{
		Book: handler.NewBookHandler(
			appbook.NewListBooksUseCase(bookService),
			appbook.NewGetBookUseCase(bookService),
			appanalytics.NewMostBorrowedUseCase(analyticsService, 0),
			applending.NewRelatedBooksUseCase(lendingService),
			appanalytics.NewReadingPaceUseCase(analyticsService),
		),
		Lending: handler.NewLendingHandler(
			applending.NewBorrowBookUseCase(lendingService),
			applending.NewReturnBookUseCase(lendingService),
		),
		User: handler.NewUserHandler(appanalytics.NewMostActiveUsersUseCase(analyticsService)),
	})
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func TestPing(t *testing.T) {
	r := newEngine(t)
	w, env := do(t, r, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)
}

func TestCorrelationID(t *testing.T) {
	r := newEngine(t)

	t.Run("透传请求头", func(t *testing.T) {
		w, _ := do(t, r, http.MethodGet, "/ping", nil, correlation.HeaderName, "abc-123")
		assert.Equal(t, "abc-123", w.Header().Get(correlation.HeaderName))
	})

	t.Run("缺失时生成", func(t *testing.T) {
		w, _ := do(t, r, http.MethodGet, "/ping", nil)
		id := w.Header().Get(correlation.HeaderName)
		assert.Len(t, id, 32)
		assert.NotContains(t, id, "-")
	})

	t.Run("错误响应携带关联ID", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/v1/books/99", nil, correlation.HeaderName, "req-404")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "req-404", env.CorrelationID)
	})
}

func TestBooks(t *testing.T) {
	r := newEngine(t)

	t.Run("列表按ID升序", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/v1/books", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var books []appbook.BookDTO
		decodeData(t, env, &books)
		require.Len(t, books, 3)
		assert.Equal(t, int64(1), books[0].ID)
		assert.Equal(t, int64(3), books[2].ID)
	})

	t.Run("详情", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/v1/books/2", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var b appbook.BookDTO
		decodeData(t, env, &b)
		assert.Equal(t, "Refactoring", b.Title)
		assert.Equal(t, 3, b.AvailableCopies)
	})

	t.Run("不存在返回404", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/v1/books/99", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", env.Error)
	})

	t.Run("ID非法返回400", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/v1/books/0", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation_error", env.Error)

		w, _ = do(t, r, http.MethodGet, "/api/v1/books/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("热门图书", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/v1/books/most-borrowed", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var books []appbook.BookDTO
		decodeData(t, env, &books)
		require.Len(t, books, 1, "默认top=1")
		assert.Equal(t, int64(2), books[0].ID)

		w, env = do(t, r, http.MethodGet, "/api/v1/books/most-borrowed?top=5", nil)
		require.Equal(t, http.StatusOK, w.Code)
		decodeData(t, env, &books)
		require.Len(t, books, 2, "从未被借过的图书不出现")
		assert.Equal(t, []int64{2, 1}, []int64{books[0].ID, books[1].ID})

		w, _ = do(t, r, http.MethodGet, "/api/v1/books/most-borrowed?top=x", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("相关图书", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/v1/books/1/related", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var books []appbook.BookDTO
		decodeData(t, env, &books)
		require.Len(t, books, 1)
		assert.Equal(t, int64(2), books[0].ID)

		w, env = do(t, r, http.MethodGet, "/api/v1/books/3/related", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, string(env.Data))
	})

	t.Run("阅读时长", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/v1/books/1/reading-pace?userId=2", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var pace appanalytics.ReadingPaceResponse
		decodeData(t, env, &pace)
		assert.InDelta(t, 15.47, pace.EstimatedHours, 1e-9, "无历史记录按30页/小时")

		w, _ = do(t, r, http.MethodGet, "/api/v1/books/1/reading-pace", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w, _ = do(t, r, http.MethodGet, "/api/v1/books/1/reading-pace?userId=42", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMostActiveUsers(t *testing.T) {
	r := newEngine(t)

	w, env := do(t, r, http.MethodGet, "/api/v1/users/most-active?from=2025-01-01&to=2025-01-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []appanalytics.UserDTO
	decodeData(t, env, &users)
	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "Bob", users[1].Name)

	w, env = do(t, r, http.MethodGet, "/api/v1/users/most-active?from=yesterday&to=2025-01-31", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", env.Error)

	w, _ = do(t, r, http.MethodGet, "/api/v1/users/most-active?from=2025-01-31&to=2025-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/v1/users/most-active?from=2025-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLendings(t *testing.T) {
	r := newEngine(t)

	// 1. 借出
	w, env := do(t, r, http.MethodPost, "/api/v1/lendings", map[string]int64{"user_id": 2, "book_id": 3})
	require.Equal(t, http.StatusCreated, w.Code)
	var rec applending.LendingDTO
	decodeData(t, env, &rec)
	assert.Equal(t, 395, rec.PagesAtBorrow)
	assert.Nil(t, rec.ReturnedAt)

	// 2. 唯一副本已借出
	w, env = do(t, r, http.MethodPost, "/api/v1/lendings", map[string]int64{"user_id": 1, "book_id": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40002, env.Code)

	// 3. 重复借阅
	w, env = do(t, r, http.MethodPost, "/api/v1/lendings", map[string]int64{"user_id": 2, "book_id": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40001, env.Code)

	// 4. 参数缺失/非法
	w, _ = do(t, r, http.MethodPost, "/api/v1/lendings", map[string]int64{"user_id": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = do(t, r, http.MethodPost, "/api/v1/lendings", map[string]int64{"user_id": 0, "book_id": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = do(t, r, http.MethodPost, "/api/v1/lendings", map[string]int64{"user_id": 9, "book_id": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 5. 归还(重复归还幂等)
	path := "/api/v1/lendings/" + strconv.FormatInt(rec.ID, 10) + "/return"
	w, _ = do(t, r, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// 6. 归还后副本可再次借出
	w, _ = do(t, r, http.MethodPost, "/api/v1/lendings", map[string]int64{"user_id": 1, "book_id": 3})
	assert.Equal(t, http.StatusCreated, w.Code)

	// 7. 不存在的借阅记录
	w, env = do(t, r, http.MethodPost, "/api/v1/lendings/999/return", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40403, env.Code)
}

func TestMetricsAndNoRoute(t *testing.T) {
	r := newEngine(t)

	do(t, r, http.MethodGet, "/api/v1/books", nil)
	w, _ := do(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/api/v1/books",status="200"}`)

	w, env := do(t, r, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", env.Error)
}
