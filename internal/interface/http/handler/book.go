package handler

import (
	"github.com/gin-gonic/gin"

	appanalytics "github.com/xiebiao/librarysystem/internal/application/analytics"
	appbook "github.com/xiebiao/librarysystem/internal/application/book"
	applending "github.com/xiebiao/librarysystem/internal/application/lending"
	"github.com/xiebiao/librarysystem/internal/interface/http/dto"
	"github.com/xiebiao/librarysystem/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	listBooksUseCase    *appbook.ListBooksUseCase
	getBookUseCase      *appbook.GetBookUseCase
	mostBorrowedUseCase *appanalytics.MostBorrowedUseCase
	relatedBooksUseCase *applending.RelatedBooksUseCase
	readingPaceUseCase  *appanalytics.ReadingPaceUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listBooksUseCase *appbook.ListBooksUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	mostBorrowedUseCase *appanalytics.MostBorrowedUseCase,
	relatedBooksUseCase *applending.RelatedBooksUseCase,
	readingPaceUseCase *appanalytics.ReadingPaceUseCase,
) *BookHandler {
	return &BookHandler{
		listBooksUseCase:    listBooksUseCase,
		getBookUseCase:      getBookUseCase,
		mostBorrowedUseCase: mostBorrowedUseCase,
		relatedBooksUseCase: relatedBooksUseCase,
		readingPaceUseCase:  readingPaceUseCase,
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  返回全部图书,按ID升序
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=[]appbook.BookDTO}
// @Failure      500 {object} response.ErrorResponse "存储层错误"
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.listBooksUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, books)
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        bookId path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookDTO}
// @Failure      400 {object} response.ErrorResponse "参数错误"
// @Failure      404 {object} response.ErrorResponse "图书不存在"
// @Router       /api/v1/books/{bookId} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := pathID(c, "bookId")
	if !ok {
		return
	}

	book, err := h.getBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, book)
}

// MostBorrowed 热门图书
// @Summary      热门图书
// @Description  借阅次数最多的图书,次数相同按图书ID升序
// @Tags         图书
// @Produce      json
// @Param        top query int false "返回数量,默认1"
// @Success      200 {object} response.Response{data=[]appbook.BookDTO}
// @Failure      400 {object} response.ErrorResponse "参数错误"
// @Router       /api/v1/books/most-borrowed [get]
func (h *BookHandler) MostBorrowed(c *gin.Context) {
	var query dto.MostBorrowedQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "top必须是整数")
		return
	}

	books, err := h.mostBorrowedUseCase.Execute(c.Request.Context(), query.Top)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, books)
}

// RelatedBooks 相关图书
// @Summary      相关图书
// @Description  借过该书的用户还借过的其他图书
// @Tags         图书
// @Produce      json
// @Param        bookId path int true "图书ID"
// @Success      200 {object} response.Response{data=[]appbook.BookDTO}
// @Failure      400 {object} response.ErrorResponse "参数错误"
// @Failure      404 {object} response.ErrorResponse "图书不存在"
// @Router       /api/v1/books/{bookId}/related [get]
func (h *BookHandler) RelatedBooks(c *gin.Context) {
	id, ok := pathID(c, "bookId")
	if !ok {
		return
	}

	books, err := h.relatedBooksUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, books)
}

// ReadingPace 阅读时长估算
// @Summary      阅读时长估算
// @Description  根据用户近180天已归还的借阅估算读完该书需要的小时数
// @Tags         图书
// @Produce      json
// @Param        bookId path int true "图书ID"
// @Param        userId query int true "用户ID"
// @Success      200 {object} response.Response{data=appanalytics.ReadingPaceResponse}
// @Failure      400 {object} response.ErrorResponse "参数错误"
// @Failure      404 {object} response.ErrorResponse "用户或图书不存在"
// @Router       /api/v1/books/{bookId}/reading-pace [get]
func (h *BookHandler) ReadingPace(c *gin.Context) {
	bookID, ok := pathID(c, "bookId")
	if !ok {
		return
	}
	var query dto.ReadingPaceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "userId必须是非零整数")
		return
	}

	result, err := h.readingPaceUseCase.Execute(c.Request.Context(), query.UserID, bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
