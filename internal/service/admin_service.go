package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/OmPrakashMadasi/restaurant-reservation/internal/dto"
	"github.com/OmPrakashMadasi/restaurant-reservation/internal/model"
	"github.com/OmPrakashMadasi/restaurant-reservation/internal/repository"
	pkgerrors "github.com/OmPrakashMadasi/restaurant-reservation/pkg/errors"
)

// AdminService 管理员预订操作接口
//
// 管理员可越过归属限制，但不能越过容量规则与时段唯一性：
// 恢复与修改都会重新校验容量，写入仍经过唯一索引。
type AdminService interface {
	// ListAll date 为空时返回全部，否则只返回该日历日
	ListAll(ctx context.Context, date string) ([]dto.ReservationResponse, error)
	// CancelAny 硬删除任意预订
	CancelAny(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id, status string) (*dto.ReservationResponse, error)
	Patch(ctx context.Context, id string, req *dto.AdminPatchReservationRequest) (*dto.ReservationResponse, error)
}

type adminService struct {
	repo   *repository.Repository
	clock  Clock
	logger *zap.Logger
}

// NewAdminService 创建 AdminService 实例
func NewAdminService(repo *repository.Repository, clock Clock, logger *zap.Logger) AdminService {
	return &adminService{repo: repo, clock: clock, logger: logger}
}

// ────────────────────── ListAll ──────────────────────

func (s *adminService) ListAll(ctx context.Context, date string) ([]dto.ReservationResponse, error) {
	list, err := listReservations(ctx, s.repo, s.logger, date)
	if err != nil {
		return nil, err
	}
	return toReservationResponses(list), nil
}

// listReservations 按可选日期列出预订（管理员列表与导出共用）
func listReservations(ctx context.Context, repo *repository.Repository, logger *zap.Logger, date string) ([]model.Reservation, error) {
	var day *time.Time
	if date != "" {
		d, err := parseDate(date)
		if err != nil {
			return nil, err
		}
		day = &d
	}

	list, err := repo.Reservation.List(ctx, day)
	if err != nil {
		return nil, storageError(logger, "查询预订列表失败", err, zap.String("date", date))
	}
	return list, nil
}

// ────────────────────── CancelAny ──────────────────────

func (s *adminService) CancelAny(ctx context.Context, id string) error {
	if err := s.repo.Reservation.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservationNotFound
		}
		return storageError(s.logger, "删除预订失败", err, zap.String("reservation_id", id))
	}
	s.logger.Info("管理员删除预订", zap.String("reservation_id", id))
	return nil
}

// ────────────────────── SetStatus ──────────────────────

func (s *adminService) SetStatus(ctx context.Context, id, status string) (*dto.ReservationResponse, error) {
	if !model.ValidReservationStatus(status) {
		return nil, &ValidationError{Field: "status", Reason: "状态只能为 confirmed 或 cancelled"}
	}

	r, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status == status {
		return toReservationResponse(r), nil
	}

	// 取消：无条件
	if status == model.ReservationStatusCancelled {
		if err := s.repo.Reservation.Cancel(ctx, id, ""); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrReservationNotFound
			}
			return nil, storageError(s.logger, "取消预订失败", err, zap.String("reservation_id", id))
		}
		return s.reload(ctx, id)
	}

	// 恢复：重新校验容量，写入由唯一索引把关
	if err := checkRestorable(r); err != nil {
		return nil, err
	}
	r.Status = model.ReservationStatusConfirmed
	if err := s.update(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("管理员恢复预订", zap.String("reservation_id", id))
	return toReservationResponse(r), nil
}

// ────────────────────── Patch ──────────────────────

// Patch 部分更新。所有字段先独立校验，全部通过后才写入；
// 携带 guests 或 tableId 时按（可能更换后的）餐桌重新校验容量。
func (s *adminService) Patch(ctx context.Context, id string, req *dto.AdminPatchReservationRequest) (*dto.ReservationResponse, error) {
	r, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return toReservationResponse(r), nil
	}

	next := *r
	table := r.Table

	// 1. 字段校验
	if req.Status != nil {
		if !model.ValidReservationStatus(*req.Status) {
			return nil, &ValidationError{Field: "status", Reason: "状态只能为 confirmed 或 cancelled"}
		}
		next.Status = *req.Status
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		if !date.Equal(model.CalendarDay(r.Date)) && date.Before(s.clock.Today()) {
			return nil, ErrPastDate
		}
		next.Date = date
	}
	if req.TimeSlot != nil {
		if err := checkTimeSlot(*req.TimeSlot); err != nil {
			return nil, err
		}
		next.TimeSlot = *req.TimeSlot
	}
	if req.Guests != nil {
		if err := checkGuests(*req.Guests); err != nil {
			return nil, err
		}
		next.Guests = *req.Guests
	}
	if req.Notes != nil {
		notes, err := normalizeNotes(*req.Notes)
		if err != nil {
			return nil, err
		}
		next.Notes = notes
	}
	if req.TableID != nil && *req.TableID != r.TableID {
		t, err := s.repo.Table.GetByID(ctx, *req.TableID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTableNotFound
			}
			return nil, storageError(s.logger, "查询餐桌失败", err, zap.String("table_id", *req.TableID))
		}
		table = t
		next.TableID = t.TableID
	}

	// 2. 容量复核
	restoring := !r.IsConfirmed() && next.IsConfirmed()
	if req.Guests != nil || req.TableID != nil || restoring {
		// 已删除的餐桌不再参与容量复核
		if table == nil || table.DeletedAt.Valid {
			return nil, ErrTableNotFound
		}
		if err := CheckCapacity(table, next.Guests); err != nil {
			return nil, err
		}
	}

	// 3. 乐观锁写入
	next.Table = table
	if err := s.update(ctx, &next); err != nil {
		return nil, err
	}

	s.logger.Info("管理员修改预订", zap.String("reservation_id", id))
	return toReservationResponse(&next), nil
}

// ── 辅助函数 ──

func (s *adminService) getReservation(ctx context.Context, id string) (*model.Reservation, error) {
	r, err := s.repo.Reservation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, storageError(s.logger, "查询预订失败", err, zap.String("reservation_id", id))
	}
	return r, nil
}

func (s *adminService) reload(ctx context.Context, id string) (*dto.ReservationResponse, error) {
	r, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReservationResponse(r), nil
}

// update 版本化写入并映射台账错误
func (s *adminService) update(ctx context.Context, r *model.Reservation) error {
	err := s.repo.Reservation.Update(ctx, r)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pkgerrors.ErrUniqueViolation):
		return ErrSlotConflict
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		return ErrConcurrentUpdate
	default:
		return storageError(s.logger, "更新预订失败", err, zap.String("reservation_id", r.ReservationID))
	}
}

// checkRestorable 恢复前的容量复核；餐桌已删除视为不存在
func checkRestorable(r *model.Reservation) error {
	if r.Table == nil || r.Table.DeletedAt.Valid {
		return ErrTableNotFound
	}
	return CheckCapacity(r.Table, r.Guests)
}
