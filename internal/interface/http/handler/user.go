package handler

import (
	"github.com/gin-gonic/gin"

	appanalytics "github.com/xiebiao/librarysystem/internal/application/analytics"
	"github.com/xiebiao/librarysystem/internal/interface/http/dto"
	"github.com/xiebiao/librarysystem/pkg/response"
)

// UserHandler 用户HTTP处理器
type UserHandler struct {
	mostActiveUseCase *appanalytics.MostActiveUsersUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(mostActiveUseCase *appanalytics.MostActiveUsersUseCase) *UserHandler {
	return &UserHandler{mostActiveUseCase: mostActiveUseCase}
}

// MostActive 活跃用户
// @Summary      活跃用户
// @Description  [from, to]内借阅次数最多的用户,次数相同按用户ID升序
// @Tags         用户
// @Produce      json
// @Param        from query string true "开始时间" example(2025-01-01)
// @Param        to   query string true "结束时间" example(2025-01-31)
// @Success      200 {object} response.Response{data=[]appanalytics.UserDTO}
// @Failure      400 {object} response.ErrorResponse "日期格式错误/时间范围非法"
// @Router       /api/v1/users/most-active [get]
func (h *UserHandler) MostActive(c *gin.Context) {
	var query dto.MostActiveQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "from和to不能为空")
		return
	}

	users, err := h.mostActiveUseCase.Execute(c.Request.Context(), query.From, query.To)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, users)
}
