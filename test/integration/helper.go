// Package integration 针对运行中的library-api做黑盒测试
//
// 运行方式:
//
//	go run ./cmd/api            # 默认内存驱动并加载演示数据
//	go test ./test/integration -v
//
// LIBRARY_API_URL可指定服务地址;服务不可达时全部跳过
package integration

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

const (
	// DefaultBaseURL 默认服务地址
	DefaultBaseURL = "http://localhost:8080"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Response 统一响应结构(成功和失败共用)
type Response struct {
	Status        int                 `json:"-"`
	Code          int                 `json:"code"`
	Message       string              `json:"message"`
	Error         string              `json:"error"`
	CorrelationID string              `json:"correlation_id"`
	Data          jsoniter.RawMessage `json:"data"`
}

// BookData 图书响应数据
type BookData struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Pages           int    `json:"pages"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
}

// UserData 用户响应数据
type UserData struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LendingData 借阅记录响应数据
type LendingData struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	BookID        int64      `json:"book_id"`
	BorrowedAt    time.Time  `json:"borrowed_at"`
	ReturnedAt    *time.Time `json:"returned_at"`
	PagesAtBorrow int        `json:"pages_at_borrow"`
}

var client = &http.Client{Timeout: Timeout}

func baseURL() string {
	if v := os.Getenv("LIBRARY_API_URL"); v != "" {
		return v
	}
	return DefaultBaseURL
}

// APIURL 拼接/api/v1下的地址
func APIURL(path string) string {
	return baseURL() + "/api/v1" + path
}

// RequireServer 服务不可达时跳过测试
func RequireServer(t *testing.T) {
	t.Helper()
	resp, err := client.Get(baseURL() + "/ping")
	if err != nil {
		t.Skipf("library-api不可达(%s): %v", baseURL(), err)
	}
	resp.Body.Close()
}

// PostJSON 发送POST请求并解析JSON响应
func PostJSON(t *testing.T, url string, data interface{}) *Response {
	t.Helper()
	var body io.Reader = http.NoBody
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(http.MethodPost, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	req.Header.Set("Content-Type", "application/json")
	return do(t, req)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string) *Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err, "创建HTTP请求失败")
	return do(t, req)
}

func do(t *testing.T, req *http.Request) *Response {
	t.Helper()
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	require.NoError(t, json.Unmarshal(body, &result), "解析JSON响应失败: %s", string(body))
	result.Status = resp.StatusCode
	return &result
}

// Decode 解析Data字段
func Decode(t *testing.T, resp *Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, v), "解析响应数据失败: %s", string(resp.Data))
}
