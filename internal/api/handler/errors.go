package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OmPrakashMadasi/restaurant-reservation/internal/service"
	"github.com/OmPrakashMadasi/restaurant-reservation/pkg/response"
)

// handleServiceError 将业务错误映射为 HTTP 状态码 + 业务码 + 错误类别
//
// 业务码分段：
//
//	10xxx 通用   11xxx 认证   20xxx 餐桌   30xxx 预订   50xxx 服务端
func handleServiceError(c *gin.Context, err error) {
	var (
		validationErr *service.ValidationError
		capacityErr   *service.CapacityError
		activeErr     *service.ActiveReservationsError
	)

	switch {
	// ── 通用 ──
	case errors.As(err, &validationErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, response.KindValidationError, "参数校验失败", validationErr.Error())
	case errors.Is(err, service.ErrValidation):
		response.BadRequest(c, 10001, err.Error())

	// ── 认证 ──
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, 11001, response.KindInvalidCredentials, "邮箱或密码错误")
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, 11002, response.KindDuplicateName, "该邮箱已注册")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11003, "用户不存在")

	// ── 餐桌 ──
	case errors.Is(err, service.ErrTableNotFound):
		response.NotFound(c, 20001, "餐桌不存在")
	case errors.Is(err, service.ErrDuplicateTableName):
		response.Conflict(c, 20002, response.KindDuplicateName, "餐桌名称已存在")
	case errors.Is(err, service.ErrInvalidCapacity):
		response.Error(c, http.StatusBadRequest, 20003, response.KindInvalidCapacity, "餐桌容量必须在 1 到 8 之间")
	case errors.As(err, &activeErr):
		response.Conflict(c, 20004, response.KindHasActiveReservations, activeErr.Error())

	// ── 预订 ──
	case errors.Is(err, service.ErrReservationNotFound):
		response.NotFound(c, 30001, "预订不存在")
	case errors.Is(err, service.ErrPastDate):
		response.Error(c, http.StatusBadRequest, 30002, response.KindPastDate, "不能预订过去的日期")
	case errors.As(err, &capacityErr):
		response.Error(c, http.StatusBadRequest, 30003, response.KindCapacityExceeded, capacityErr.Error())
	case errors.Is(err, service.ErrSlotConflict):
		response.Conflict(c, 30004, response.KindSlotConflict, "该餐桌此时段已被预订")
	case errors.Is(err, service.ErrConcurrentUpdate):
		response.Conflict(c, 30005, response.KindConcurrentUpdate, "预订已被其他操作修改，请刷新后重试")

	// ── 服务端 ──
	case errors.Is(err, service.ErrStorageUnavailable):
		response.StorageUnavailable(c)
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
