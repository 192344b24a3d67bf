package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 依赖演示数据:图书1~3,用户1~3

func TestBooks(t *testing.T) {
	RequireServer(t)

	t.Run("图书列表", func(t *testing.T) {
		resp := GetJSON(t, APIURL("/books"))
		require.Equal(t, http.StatusOK, resp.Status)

		var books []BookData
		Decode(t, resp, &books)
		assert.GreaterOrEqual(t, len(books), 3)
	})

	t.Run("图书详情", func(t *testing.T) {
		resp := GetJSON(t, APIURL("/books/1"))
		require.Equal(t, http.StatusOK, resp.Status)

		var b BookData
		Decode(t, resp, &b)
		assert.Equal(t, int64(1), b.ID)
		assert.Equal(t, 464, b.Pages)
		assert.LessOrEqual(t, b.AvailableCopies, b.TotalCopies)
	})

	t.Run("图书不存在", func(t *testing.T) {
		resp := GetJSON(t, APIURL("/books/999999"))
		assert.Equal(t, http.StatusNotFound, resp.Status)
		assert.Equal(t, 40402, resp.Code)
		assert.Equal(t, "not_found", resp.Error)
		assert.NotEmpty(t, resp.CorrelationID)
	})

	t.Run("非法ID", func(t *testing.T) {
		resp := GetJSON(t, APIURL("/books/abc"))
		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.Equal(t, "validation_error", resp.Error)
	})
}

func TestMostBorrowedBooks(t *testing.T) {
	RequireServer(t)

	resp := GetJSON(t, APIURL("/books/most-borrowed?top=3"))
	require.Equal(t, http.StatusOK, resp.Status)

	var books []BookData
	Decode(t, resp, &books)
	require.NotEmpty(t, books)
	assert.LessOrEqual(t, len(books), 3)
}

func TestRelatedBooks(t *testing.T) {
	RequireServer(t)

	resp := GetJSON(t, APIURL("/books/1/related"))
	require.Equal(t, http.StatusOK, resp.Status)

	var books []BookData
	Decode(t, resp, &books)
	for _, b := range books {
		assert.NotEqual(t, int64(1), b.ID, "相关图书不应包含自身")
	}
}

func TestReadingPace(t *testing.T) {
	RequireServer(t)

	t.Run("正常估算", func(t *testing.T) {
		resp := GetJSON(t, APIURL("/books/2/reading-pace?userId=3"))
		require.Equal(t, http.StatusOK, resp.Status)

		var pace struct {
			EstimatedHours float64 `json:"estimated_hours"`
		}
		Decode(t, resp, &pace)
		assert.Greater(t, pace.EstimatedHours, 0.0)
	})

	t.Run("缺少userId", func(t *testing.T) {
		resp := GetJSON(t, APIURL("/books/2/reading-pace"))
		assert.Equal(t, http.StatusBadRequest, resp.Status)
	})
}
