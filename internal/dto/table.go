package dto

// ── 餐桌模块 DTO ──

// CreateTableRequest 创建餐桌请求
// capacity 范围由业务层校验（InvalidCapacity），此处不做 min/max
type CreateTableRequest struct {
	Name     string `json:"name"     binding:"required,max=100"`
	Capacity int    `json:"capacity"`
}

// UpdateTableRequest 更新餐桌请求
type UpdateTableRequest struct {
	Name        *string `json:"name"        binding:"omitempty,max=100"`
	Capacity    *int    `json:"capacity"`
	IsAvailable *bool   `json:"isAvailable"`
}

// SetAvailabilityRequest 设置餐桌是否可预订
type SetAvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" binding:"required"`
}

// TableResponse 餐桌信息
type TableResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Capacity    int    `json:"capacity"`
	IsAvailable bool   `json:"isAvailable"`
}
