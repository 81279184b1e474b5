package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind 机器可区分的错误类别，客户端据此分支处理
type Kind string

const (
	KindUnauthorized          Kind = "Unauthorized"
	KindForbidden             Kind = "Forbidden"
	KindNotFound              Kind = "NotFound"
	KindDuplicateName         Kind = "DuplicateName"
	KindInvalidCapacity       Kind = "InvalidCapacity"
	KindPastDate              Kind = "PastDate"
	KindCapacityExceeded      Kind = "CapacityExceeded"
	KindSlotConflict          Kind = "SlotConflict"
	KindHasActiveReservations Kind = "HasActiveReservations"
	KindStorageUnavailable    Kind = "StorageUnavailable"
	KindValidationError       Kind = "ValidationError"
	KindConcurrentUpdate      Kind = "ConcurrentUpdate"
	KindRateLimited           Kind = "RateLimited"
	KindInvalidCredentials    Kind = "InvalidCredentials"
	KindInternal              Kind = "Internal"
)

// ContextKindKey 错误类别写入 gin.Context 的键，请求日志据此输出 kind
const ContextKindKey = "error_kind"

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Kind    Kind        `json:"kind,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details string      `json:"details,omitempty"`
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, kind Kind, message string) {
	c.Set(ContextKindKey, string(kind))
	c.JSON(httpStatus, Response{
		Code:    code,
		Kind:    kind,
		Message: message,
	})
}

// ErrorWithDetails 带详情的错误响应
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, kind Kind, message, details string) {
	c.Set(ContextKindKey, string(kind))
	c.JSON(httpStatus, Response{
		Code:    code,
		Kind:    kind,
		Message: message,
		Details: details,
	})
}

// ── 常见快捷方式 ──

// BadRequest 400 参数校验失败
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, KindValidationError, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, KindUnauthorized, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, KindForbidden, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, KindNotFound, message)
}

// Conflict 409
func Conflict(c *gin.Context, code int, kind Kind, message string) {
	Error(c, http.StatusConflict, code, kind, message)
}

// StorageUnavailable 503 存储不可用（含请求超时）
func StorageUnavailable(c *gin.Context) {
	Error(c, http.StatusServiceUnavailable, 50300, KindStorageUnavailable, "存储服务暂不可用，请稍后重试")
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, 50000, KindInternal, "服务器内部错误")
}
