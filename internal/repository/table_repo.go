package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/OmPrakashMadasi/restaurant-reservation/internal/model"
	pkgerrors "github.com/OmPrakashMadasi/restaurant-reservation/pkg/errors"
)

// TableRepository 餐桌数据访问接口
type TableRepository interface {
	Create(ctx context.Context, table *model.Table) error
	GetByID(ctx context.Context, id string) (*model.Table, error)
	GetByName(ctx context.Context, name string) (*model.Table, error)
	ListBookable(ctx context.Context) ([]model.Table, error)
	ListAll(ctx context.Context) ([]model.Table, error)
	Update(ctx context.Context, table *model.Table) error
	SetAvailability(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) error
}

type tableRepo struct {
	db *gorm.DB
}

// NewTableRepo 创建 TableRepository 实例
func NewTableRepo(db *gorm.DB) TableRepository {
	return &tableRepo{db: db}
}

func (r *tableRepo) Create(ctx context.Context, table *model.Table) error {
	if err := r.db.WithContext(ctx).Create(table).Error; err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return pkgerrors.ErrUniqueViolation
		}
		return err
	}
	return nil
}

func (r *tableRepo) GetByID(ctx context.Context, id string) (*model.Table, error) {
	var table model.Table
	err := r.db.WithContext(ctx).
		Where("table_id = ?", id).
		First(&table).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *tableRepo) GetByName(ctx context.Context, name string) (*model.Table, error) {
	var table model.Table
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&table).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *tableRepo) ListBookable(ctx context.Context) ([]model.Table, error) {
	var tables []model.Table
	err := r.db.WithContext(ctx).
		Where("is_available = ?", true).
		Order("capacity ASC, name ASC").
		Find(&tables).Error
	return tables, err
}

func (r *tableRepo) ListAll(ctx context.Context) ([]model.Table, error) {
	var tables []model.Table
	err := r.db.WithContext(ctx).
		Order("capacity ASC, name ASC").
		Find(&tables).Error
	return tables, err
}

func (r *tableRepo) Update(ctx context.Context, table *model.Table) error {
	result := r.db.WithContext(ctx).
		Model(&model.Table{}).
		Where("table_id = ?", table.TableID).
		Updates(map[string]interface{}{
			"name":         table.Name,
			"capacity":     table.Capacity,
			"is_available": table.IsAvailable,
		})
	if result.Error != nil {
		if pkgerrors.IsUniqueViolation(result.Error) {
			return pkgerrors.ErrUniqueViolation
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *tableRepo) SetAvailability(ctx context.Context, id string, available bool) error {
	result := r.db.WithContext(ctx).
		Model(&model.Table{}).
		Where("table_id = ?", id).
		Update("is_available", available)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 软删除，历史预订仍可关联到该餐桌
func (r *tableRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("table_id = ?", id).
		Delete(&model.Table{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
