package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/OmPrakashMadasi/restaurant-reservation/internal/dto"
	"github.com/OmPrakashMadasi/restaurant-reservation/internal/service"
	"github.com/OmPrakashMadasi/restaurant-reservation/pkg/response"
)

const (
	mimeXLSX     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeCalendar = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportDailySheet 导出某日预订表
// GET /api/admin/reservations/export?date=YYYY-MM-DD
func (h *ExportHandler) ExportDailySheet(c *gin.Context) {
	var req dto.ExportReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "date 不能为空且格式须为 YYYY-MM-DD")
		return
	}

	buf, filename, err := h.exportSvc.ExportDailySheet(c.Request.Context(), req.Date)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, mimeXLSX, buf.Bytes())
}

// ExportCalendar 导出本人有效预订为 iCalendar
// GET /api/reservations/my/calendar
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	data, filename, err := h.exportSvc.ExportCalendar(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, mimeCalendar, data)
}

// attachment 设置下载响应头
func attachment(c *gin.Context, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
}
