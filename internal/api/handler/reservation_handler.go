package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/OmPrakashMadasi/restaurant-reservation/internal/dto"
	"github.com/OmPrakashMadasi/restaurant-reservation/internal/service"
	"github.com/OmPrakashMadasi/restaurant-reservation/pkg/response"
)

// ReservationHandler 顾客预订 HTTP 处理器
type ReservationHandler struct {
	resvSvc service.ReservationService
}

// NewReservationHandler 创建 ReservationHandler
func NewReservationHandler(resvSvc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{resvSvc: resvSvc}
}

// Create 创建预订
// POST /api/reservations
func (h *ReservationHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.resvSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, result)
}

// ListMine 我的预订（日期降序、时段升序）
// GET /api/reservations/my
func (h *ReservationHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.resvSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, list)
}

// Delete 删除本人预订
// DELETE /api/reservations/:id
func (h *ReservationHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	if err := h.resvSvc.Delete(c.Request.Context(), userID, id); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// Cancel 取消本人预订（保留记录）
// POST /api/reservations/:id/cancel
func (h *ReservationHandler) Cancel(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	result, err := h.resvSvc.Cancel(c.Request.Context(), userID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}
