package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OmPrakashMadasi/restaurant-reservation/internal/dto"
	"github.com/OmPrakashMadasi/restaurant-reservation/internal/service"
	"github.com/OmPrakashMadasi/restaurant-reservation/pkg/response"
)

// AdminHandler 管理端预订 HTTP 处理器
type AdminHandler struct {
	adminSvc service.AdminService
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// List 全部预订，可按日期过滤
// GET /api/admin/reservations?date=YYYY-MM-DD
func (h *AdminHandler) List(c *gin.Context) {
	var req dto.ReservationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, response.KindValidationError, "参数校验失败", err.Error())
		return
	}

	list, err := h.adminSvc.ListAll(c.Request.Context(), req.Date)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, list)
}

// Patch 部分修改预订
// PATCH /api/admin/reservations/:id
func (h *AdminHandler) Patch(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}
	var req dto.AdminPatchReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.adminSvc.Patch(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// SetStatus 设置预订状态（取消 / 恢复）
// PUT /api/admin/reservations/:id/status
func (h *AdminHandler) SetStatus(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}
	var req dto.SetReservationStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.adminSvc.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// Delete 删除任意预订
// DELETE /api/admin/reservations/:id
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	if err := h.adminSvc.CancelAny(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}
