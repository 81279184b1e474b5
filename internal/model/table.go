package model

import "gorm.io/gorm"

// 餐桌容量范围
const (
	MinTableCapacity = 1
	MaxTableCapacity = 8
)

// Table 餐桌表 对应 restaurant_tables
// 名称唯一性只约束未删除的餐桌（部分唯一索引）
type Table struct {
	TableID     string `gorm:"type:uuid;primaryKey"                                                           json:"table_id"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex:uk_tables_name,where:deleted_at IS NULL" json:"name"`
	Capacity    int    `gorm:"type:smallint;not null;index:idx_tables_capacity_available,priority:1"         json:"capacity"`
	IsAvailable bool   `gorm:"not null;default:true;index:idx_tables_capacity_available,priority:2"          json:"is_available"`
	SoftDeleteModel
}

// TableName 指定表名
func (Table) TableName() string { return "restaurant_tables" }

// BeforeCreate 生成主键
func (t *Table) BeforeCreate(_ *gorm.DB) error {
	newID(&t.TableID)
	return nil
}

// ValidCapacity 容量是否在 [1,8] 内
func ValidCapacity(capacity int) bool {
	return capacity >= MinTableCapacity && capacity <= MaxTableCapacity
}
