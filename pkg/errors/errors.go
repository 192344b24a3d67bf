package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误分类
// 借阅系统只有三类对外可见的错误:
// - Validation: 调用方可修正的输入/业务规则错误(4xx)
// - NotFound: 引用的用户/图书/借阅记录不存在(4xx)
// - DataAccess: 存储层故障,包装原始错误(5xx)
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindDataAccess
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindDataAccess:
		return "data_access"
	default:
		return "internal"
	}
}

// AppError 自定义应用错误
// 1. Code是数字业务错误码,Reason是稳定的字符串错误码(用于gRPC ErrorInfo和日志)
// 2. Message是用户可读的提示信息
// 3. Err是内部错误,只进日志,不返回给客户端
type AppError struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"-"`
	Reason  string `json:"error"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 同码即同类错误
// 使预定义错误(如ErrLendingNotFound)在被WithMessage派生后仍可用errors.Is判断
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Reason == e.Reason
}

// WithMessage 派生一个同码不同提示的错误
func (e *AppError) WithMessage(format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    e.Code,
		Kind:    e.Kind,
		Reason:  e.Reason,
		Message: fmt.Sprintf(format, args...),
		Err:     e.Err,
	}
}

// New 创建新的AppError,分类由错误码推导
func New(code int, message string) *AppError {
	kind := kindOf(code)
	return &AppError{
		Code:    code,
		Kind:    kind,
		Reason:  defaultReason(kind),
		Message: message,
	}
}

// Validation 参数/业务规则错误
func Validation(format string, args ...interface{}) *AppError {
	return New(ErrCodeInvalidParams, fmt.Sprintf(format, args...))
}

// NotFound 资源不存在
func NotFound(format string, args ...interface{}) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf(format, args...))
}

// DataAccess 包装存储层错误
// reason为空时使用通用的data_access_error
func DataAccess(err error, reason, message string) *AppError {
	if reason == "" {
		reason = ReasonDataAccess
	}
	return &AppError{
		Code:    ErrCodeDatabaseError,
		Kind:    KindDataAccess,
		Reason:  reason,
		Message: message,
		Err:     err,
	}
}

// Wrap 包装系统错误(如网络错误),隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Kind:    KindInternal,
		Reason:  ReasonInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// =========================================
// 错误码定义
// =========================================
// 规范:
// - 4xxxx: 客户端错误(参数错误、业务规则校验失败、资源不存在)
// - 5xxxx: 服务端错误(数据库异常、外部服务调用失败)

const (
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误

	ErrCodeNotFound        = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound    = 40401 // 用户不存在
	ErrCodeBookNotFound    = 40402 // 图书不存在
	ErrCodeLendingNotFound = 40403 // 借阅记录不存在

	ErrCodeBusinessError     = 40000 // 业务规则错误(通用)
	ErrCodeActiveLending     = 40001 // 已存在未归还的借阅
	ErrCodeNoAvailableCopies = 40002 // 无可借副本

	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
	ErrCodeInvalidRange  = 40902 // 时间范围非法
)

// 稳定的字符串错误码
const (
	ReasonValidation    = "validation_error"
	ReasonNotFound      = "not_found"
	ReasonDataAccess    = "data_access_error"
	ReasonLendingAdd    = "lending_add_dbupdate_error"
	ReasonLendingReturn = "lending_return_dbupdate_error"
	ReasonInternal      = "internal_error"
)

// =========================================
// 预定义错误
// =========================================

var (
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = DataAccess(nil, ReasonDataAccess, "数据库错误")

	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError(如果不是AppError则包装成Internal错误)
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// IsValidation 是否为参数/业务规则错误
func IsValidation(err error) bool {
	return kindOfErr(err) == KindValidation
}

// IsNotFound 是否为资源不存在错误
func IsNotFound(err error) bool {
	return kindOfErr(err) == KindNotFound
}

// IsDataAccess 是否为存储层错误
func IsDataAccess(err error) bool {
	return kindOfErr(err) == KindDataAccess
}

// HTTPStatus 错误对应的HTTP状态码
func HTTPStatus(err error) int {
	switch kindOfErr(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func kindOfErr(err error) Kind {
	var appErr *AppError
	if err == nil || !errors.As(err, &appErr) {
		return KindInternal
	}
	return appErr.Kind
}

func kindOf(code int) Kind {
	switch {
	case code >= 40400 && code < 40500:
		return KindNotFound
	case code >= 40000 && code < 50000:
		return KindValidation
	case code == ErrCodeDatabaseError:
		return KindDataAccess
	default:
		return KindInternal
	}
}

func defaultReason(kind Kind) string {
	switch kind {
	case KindValidation:
		return ReasonValidation
	case KindNotFound:
		return ReasonNotFound
	case KindDataAccess:
		return ReasonDataAccess
	default:
		return ReasonInternal
	}
}
