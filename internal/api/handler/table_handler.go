package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/OmPrakashMadasi/restaurant-reservation/internal/dto"
	"github.com/OmPrakashMadasi/restaurant-reservation/internal/service"
	"github.com/OmPrakashMadasi/restaurant-reservation/pkg/response"
)

// TableHandler 餐桌模块 HTTP 处理器
type TableHandler struct {
	tableSvc service.TableService
}

// NewTableHandler 创建 TableHandler
func NewTableHandler(tableSvc service.TableService) *TableHandler {
	return &TableHandler{tableSvc: tableSvc}
}

// ListBookable 可预订餐桌列表（按容量、名称升序）
// GET /api/reservations/tables
func (h *TableHandler) ListBookable(c *gin.Context) {
	list, err := h.tableSvc.ListBookable(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, list)
}

// ListAll 全部餐桌（管理端）
// GET /api/admin/tables
func (h *TableHandler) ListAll(c *gin.Context) {
	list, err := h.tableSvc.ListAll(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, list)
}

// Create 新增餐桌
// POST /api/admin/tables
func (h *TableHandler) Create(c *gin.Context) {
	var req dto.CreateTableRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.tableSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, result)
}

// Update 修改餐桌
// PATCH /api/admin/tables/:id
func (h *TableHandler) Update(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}
	var req dto.UpdateTableRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.tableSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// Delete 删除餐桌，存在未来有效预订时拒绝
// DELETE /api/admin/tables/:id
func (h *TableHandler) Delete(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	if err := h.tableSvc.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// SetAvailability 设置可预订标记
// PUT /api/admin/tables/:id/availability
func (h *TableHandler) SetAvailability(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}
	var req dto.SetAvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.tableSvc.SetAvailability(c.Request.Context(), id, *req.IsAvailable)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}
