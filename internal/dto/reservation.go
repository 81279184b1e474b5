package dto

// ── 预订模块 DTO ──

// CreateReservationRequest 顾客预订请求
type CreateReservationRequest struct {
	Date     string `json:"date"     binding:"required,calendar_date"`
	TimeSlot string `json:"timeSlot" binding:"required,timeslot"`
	Guests   int    `json:"guests"   binding:"required,min=1,max=12"`
	TableID  string `json:"tableId"  binding:"required,uuid"`
	Notes    string `json:"notes"`
}

// ReservationListRequest 管理员预订列表查询参数
type ReservationListRequest struct {
	Date string `form:"date" binding:"omitempty,calendar_date"`
}

// ExportReservationsRequest 管理员导出参数（日期必填）
type ExportReservationsRequest struct {
	Date string `form:"date" binding:"required,calendar_date"`
}

// AdminPatchReservationRequest 管理员部分更新
// 仅非 nil 字段参与更新，各字段独立校验后才会写入
type AdminPatchReservationRequest struct {
	Status   *string `json:"status"   binding:"omitempty,oneof=confirmed cancelled"`
	TableID  *string `json:"tableId"  binding:"omitempty,uuid"`
	Guests   *int    `json:"guests"   binding:"omitempty,min=1,max=12"`
	Date     *string `json:"date"     binding:"omitempty,calendar_date"`
	TimeSlot *string `json:"timeSlot" binding:"omitempty,timeslot"`
	Notes    *string `json:"notes"`
}

// IsEmpty 是否未携带任何字段
func (r *AdminPatchReservationRequest) IsEmpty() bool {
	return r.Status == nil && r.TableID == nil && r.Guests == nil &&
		r.Date == nil && r.TimeSlot == nil && r.Notes == nil
}

// SetReservationStatusRequest 管理员设置预订状态
type SetReservationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed cancelled"`
}

// ── 预订模块响应 ──

// ReservationResponse 预订信息
type ReservationResponse struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	TableID   string            `json:"tableId"`
	Date      string            `json:"date"`
	TimeSlot  string            `json:"timeSlot"`
	Guests    int               `json:"guests"`
	Status    string            `json:"status"`
	Notes     string            `json:"notes"`
	Version   int               `json:"version"`
	Table     *TableResponse    `json:"table,omitempty"`
	User      *ReservationOwner `json:"user,omitempty"`
	CreatedAt string            `json:"createdAt"`
	UpdatedAt string            `json:"updatedAt"`
}

// ReservationOwner 预订人简要信息（管理员视图）
type ReservationOwner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
