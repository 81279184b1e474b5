package handler

import "github.com/OmPrakashMadasi/restaurant-reservation/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth        *AuthHandler
	Table       *TableHandler
	Reservation *ReservationHandler
	Admin       *AdminHandler
	Export      *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth),
		Table:       NewTableHandler(svc.Table),
		Reservation: NewReservationHandler(svc.Reservation),
		Admin:       NewAdminHandler(svc.Admin),
		Export:      NewExportHandler(svc.Export),
	}
}
