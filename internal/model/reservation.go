package model

import (
	"time"

	"gorm.io/gorm"
)

// 预订状态
const (
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
)

// 预订字段约束
const (
	MinGuests     = 1
	MaxGuests     = 12
	MaxNotesRunes = 200
)

// Reservation 预订表 对应 reservations
//
// uk_reservations_slot 为 (table_id, date, time_slot) 上的部分唯一索引，
// 仅约束 status = 'confirmed' 的记录；取消后的记录不再占用时段。
type Reservation struct {
	ReservationID string    `gorm:"type:uuid;primaryKey"                                                                                                                     json:"reservation_id"`
	UserID        string    `gorm:"type:uuid;not null;index:idx_reservations_user_date,priority:1"                                                                           json:"user_id"`
	TableID       string    `gorm:"type:uuid;not null;uniqueIndex:uk_reservations_slot,priority:1,where:status = 'confirmed'"                                                json:"table_id"`
	Date          time.Time `gorm:"type:date;not null;uniqueIndex:uk_reservations_slot,priority:2,where:status = 'confirmed';index:idx_reservations_user_date,priority:2" json:"date"`
	TimeSlot      string    `gorm:"type:varchar(5);not null;uniqueIndex:uk_reservations_slot,priority:3,where:status = 'confirmed'"                                          json:"time_slot"`
	Guests        int       `gorm:"type:smallint;not null"                                                                                                                   json:"guests"`
	Status        string    `gorm:"type:varchar(20);not null;default:'confirmed'"                                                                                            json:"status"`
	Notes         string    `gorm:"type:varchar(200);not null;default:''"                                                                                                    json:"notes"`
	VersionedModel

	// 关联（belongs-to，外键为 UserID / TableID）
	User  *User  `json:"user,omitempty"`
	Table *Table `json:"table,omitempty"`
}

// TableName 指定表名
func (Reservation) TableName() string { return "reservations" }

// BeforeCreate 生成主键
func (r *Reservation) BeforeCreate(_ *gorm.DB) error {
	newID(&r.ReservationID)
	return nil
}

// IsConfirmed 是否占用时段
func (r *Reservation) IsConfirmed() bool { return r.Status == ReservationStatusConfirmed }

// ValidReservationStatus 状态是否合法
func ValidReservationStatus(status string) bool {
	return status == ReservationStatusConfirmed || status == ReservationStatusCancelled
}
