package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/librarysystem/pkg/correlation"
	apperrors "github.com/xiebiao/librarysystem/pkg/errors"
)

// Response 统一成功响应结构
// 设计说明：
// 1. Code是业务错误码（非HTTP状态码），成功固定为0
// 2. Data是业务数据
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse 统一错误响应结构
// 1. Code: 数字业务错误码
// 2. Error: 稳定的字符串错误码(validation_error / not_found / data_access_error ...)
// 3. Message: 用户可读提示,不包含内部错误细节
// 4. CorrelationID: 请求关联ID,排查问题时与日志对应
type ErrorResponse struct {
	Code          int    `json:"code"`
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应（自动处理AppError）
// HTTP状态码由错误分类决定:参数/业务错误400,不存在404,其余500
// 原始错误通过c.Error挂到gin上下文,由日志中间件统一记录
//
// 用法：
//
//	dto, err := uc.Execute(ctx, req)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	_ = c.Error(err)

	c.AbortWithStatusJSON(apperrors.HTTPStatus(appErr), ErrorResponse{
		Code:          appErr.Code,
		Error:         appErr.Reason,
		Message:       appErr.Message,
		CorrelationID: correlation.FromContext(c.Request.Context()),
	})
}

// BadRequest 参数绑定/解析失败
func BadRequest(c *gin.Context, message string) {
	Error(c, apperrors.ErrBindError.WithMessage("%s", message))
}
