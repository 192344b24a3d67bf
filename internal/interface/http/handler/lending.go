package handler

import (
	"github.com/gin-gonic/gin"

	applending "github.com/xiebiao/librarysystem/internal/application/lending"
	"github.com/xiebiao/librarysystem/internal/interface/http/dto"
	"github.com/xiebiao/librarysystem/pkg/response"
)

// LendingHandler 借阅HTTP处理器
type LendingHandler struct {
	borrowBookUseCase *applending.BorrowBookUseCase
	returnBookUseCase *applending.ReturnBookUseCase
}

// NewLendingHandler 创建借阅处理器
func NewLendingHandler(borrowBookUseCase *applending.BorrowBookUseCase, returnBookUseCase *applending.ReturnBookUseCase) *LendingHandler {
	return &LendingHandler{
		borrowBookUseCase: borrowBookUseCase,
		returnBookUseCase: returnBookUseCase,
	}
}

// Borrow 借书
// @Summary      借书
// @Description  扣减一本可借副本并写入借阅记录
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Param        X-Correlation-ID header string false "请求关联ID"
// @Param        request body dto.BorrowRequest true "借阅信息"
// @Success      201 {object} response.Response{data=applending.LendingDTO}
// @Failure      400 {object} response.ErrorResponse "参数错误/已借未还/无可借副本"
// @Failure      404 {object} response.ErrorResponse "用户或图书不存在"
// @Failure      500 {object} response.ErrorResponse "存储层错误"
// @Router       /api/v1/lendings [post]
func (h *LendingHandler) Borrow(c *gin.Context) {
	// 1. 参数绑定
	var req dto.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	// 2. 调用应用层用例
	result, err := h.borrowBookUseCase.Execute(c.Request.Context(), applending.BorrowBookRequest{
		UserID: *req.UserID,
		BookID: *req.BookID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Return 还书
// @Summary      还书
// @Description  重复归还视为成功
// @Tags         借阅
// @Produce      json
// @Param        lendingId path int true "借阅记录ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.ErrorResponse "参数错误"
// @Failure      404 {object} response.ErrorResponse "借阅记录不存在"
// @Failure      500 {object} response.ErrorResponse "存储层错误"
// @Router       /api/v1/lendings/{lendingId}/return [post]
func (h *LendingHandler) Return(c *gin.Context) {
	id, ok := pathID(c, "lendingId")
	if !ok {
		return
	}

	if err := h.returnBookUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"lending_id": id, "returned": true})
}
