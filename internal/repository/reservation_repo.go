package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/OmPrakashMadasi/restaurant-reservation/internal/model"
	pkgerrors "github.com/OmPrakashMadasi/restaurant-reservation/pkg/errors"
)

// ReservationRepository 预订台账数据访问接口
//
// 时段唯一性完全由 uk_reservations_slot 部分唯一索引保证：
// Create / Update 违反索引时返回 pkgerrors.ErrUniqueViolation，
// 调用方不做“先查后写”的预检查。
type ReservationRepository interface {
	Create(ctx context.Context, r *model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetOwned(ctx context.Context, id, userID string) (*model.Reservation, error)
	FindBySlot(ctx context.Context, tableID string, date time.Time, timeSlot string) (*model.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]model.Reservation, error)
	List(ctx context.Context, day *time.Time) ([]model.Reservation, error)
	Update(ctx context.Context, r *model.Reservation) error
	Cancel(ctx context.Context, id, ownerID string) error
	Delete(ctx context.Context, id string) error
	DeleteOwned(ctx context.Context, id, userID string) error
	CountActiveByTable(ctx context.Context, tableID string, from time.Time) (int64, error)
}

type reservationRepo struct {
	db *gorm.DB
}

// NewReservationRepo 创建 ReservationRepository 实例
func NewReservationRepo(db *gorm.DB) ReservationRepository {
	return &reservationRepo{db: db}
}

// withAssociations 预加载餐桌（含已软删除）与用户
func withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Table", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Preload("User")
}

func (r *reservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	if err := r.db.WithContext(ctx).Omit("Table", "User").Create(res).Error; err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return pkgerrors.ErrUniqueViolation
		}
		return err
	}
	return nil
}

func (r *reservationRepo) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	var res model.Reservation
	err := withAssociations(r.db.WithContext(ctx)).
		Where("reservation_id = ?", id).
		First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepo) GetOwned(ctx context.Context, id, userID string) (*model.Reservation, error) {
	var res model.Reservation
	err := withAssociations(r.db.WithContext(ctx)).
		Where("reservation_id = ? AND user_id = ?", id, userID).
		First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepo) FindBySlot(ctx context.Context, tableID string, date time.Time, timeSlot string) (*model.Reservation, error) {
	var res model.Reservation
	err := r.db.WithContext(ctx).
		Where("table_id = ? AND date = ? AND time_slot = ? AND status = ?",
			tableID, model.CalendarDay(date), timeSlot, model.ReservationStatusConfirmed).
		First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepo) ListByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	var list []model.Reservation
	err := withAssociations(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("date DESC, time_slot ASC").
		Find(&list).Error
	return list, err
}

// List 列出全部预订；day 非空时仅返回该日历日 [00:00, 次日 00:00)
func (r *reservationRepo) List(ctx context.Context, day *time.Time) ([]model.Reservation, error) {
	var list []model.Reservation
	db := withAssociations(r.db.WithContext(ctx))

	if day != nil {
		start := model.CalendarDay(*day)
		db = db.Where("date >= ? AND date < ?", start, start.AddDate(0, 0, 1))
	}

	err := db.Order("date ASC, time_slot ASC").Find(&list).Error
	return list, err
}

// Update 乐观锁更新；写入同样受时段唯一索引约束
func (r *reservationRepo) Update(ctx context.Context, res *model.Reservation) error {
	oldVersion := res.Version
	result := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("reservation_id = ? AND version = ?", res.ReservationID, oldVersion).
		Updates(map[string]interface{}{
			"table_id":  res.TableID,
			"date":      model.CalendarDay(res.Date),
			"time_slot": res.TimeSlot,
			"guests":    res.Guests,
			"status":    res.Status,
			"notes":     res.Notes,
			"version":   oldVersion + 1,
		})
	if result.Error != nil {
		if pkgerrors.IsUniqueViolation(result.Error) {
			return pkgerrors.ErrUniqueViolation
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	res.Version = oldVersion + 1
	return nil
}

// Cancel 标记为已取消；ownerID 为空表示管理员（不限归属）
func (r *reservationRepo) Cancel(ctx context.Context, id, ownerID string) error {
	db := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("reservation_id = ?", id)
	if ownerID != "" {
		db = db.Where("user_id = ?", ownerID)
	}

	result := db.Updates(map[string]interface{}{
		"status":  model.ReservationStatusCancelled,
		"version": gorm.Expr("version + 1"),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reservationRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("reservation_id = ?", id).
		Delete(&model.Reservation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reservationRepo) DeleteOwned(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).
		Where("reservation_id = ? AND user_id = ?", id, userID).
		Delete(&model.Reservation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountActiveByTable 统计某餐桌自 from（含）起的 confirmed 预订数
func (r *reservationRepo) CountActiveByTable(ctx context.Context, tableID string, from time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("table_id = ? AND status = ? AND date >= ?",
			tableID, model.ReservationStatusConfirmed, model.CalendarDay(from)).
		Count(&count).Error
	return count, err
}
