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

// ── 预订模块业务错误 ──

var (
	ErrReservationNotFound = errors.New("预订不存在")
	ErrSlotConflict        = errors.New("该餐桌此时段已被预订")
	ErrConcurrentUpdate    = errors.New("预订已被其他操作修改，请刷新后重试")
)

// ReservationService 顾客预订业务接口
// 所有操作都限定在调用者本人的预订范围内
type ReservationService interface {
	Create(ctx context.Context, userID string, req *dto.CreateReservationRequest) (*dto.ReservationResponse, error)
	ListMine(ctx context.Context, userID string) ([]dto.ReservationResponse, error)
	// Delete 硬删除本人预订
	Delete(ctx context.Context, userID, id string) error
	// Cancel 将本人预订标记为 cancelled，保留记录并释放时段
	Cancel(ctx context.Context, userID, id string) (*dto.ReservationResponse, error)
}

type reservationService struct {
	repo   *repository.Repository
	clock  Clock
	logger *zap.Logger
}

// NewReservationService 创建 ReservationService 实例
func NewReservationService(repo *repository.Repository, clock Clock, logger *zap.Logger) ReservationService {
	return &reservationService{repo: repo, clock: clock, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *reservationService) Create(ctx context.Context, userID string, req *dto.CreateReservationRequest) (*dto.ReservationResponse, error) {
	// 1. 餐桌快照（不存在时为 nil，由校验器给出 TableNotFound）
	table, err := s.repo.Table.GetByID(ctx, req.TableID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storageError(s.logger, "查询餐桌失败", err, zap.String("table_id", req.TableID))
		}
		table = nil
	}

	// 2. 纯校验
	draft, err := ValidateBooking(req, table, s.clock.Today())
	if err != nil {
		return nil, err
	}
	draft.UserID = userID

	// 3. 单条 INSERT，时段冲突由唯一索引判定
	if err := s.repo.Reservation.Create(ctx, draft); err != nil {
		if errors.Is(err, pkgerrors.ErrUniqueViolation) {
			return nil, ErrSlotConflict
		}
		return nil, storageError(s.logger, "创建预订失败", err,
			zap.String("table_id", draft.TableID),
			zap.String("date", draft.Date.Format(model.DateLayout)),
			zap.String("time_slot", draft.TimeSlot))
	}

	s.logger.Info("预订已创建",
		zap.String("reservation_id", draft.ReservationID),
		zap.String("user_id", userID),
		zap.String("table_id", draft.TableID),
		zap.String("date", draft.Date.Format(model.DateLayout)),
		zap.String("time_slot", draft.TimeSlot))

	draft.Table = table
	return toReservationResponse(draft), nil
}

// ────────────────────── ListMine ──────────────────────

func (s *reservationService) ListMine(ctx context.Context, userID string) ([]dto.ReservationResponse, error) {
	list, err := s.repo.Reservation.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageError(s.logger, "查询我的预订失败", err, zap.String("user_id", userID))
	}
	return toReservationResponses(list), nil
}

// ────────────────────── Delete ──────────────────────

func (s *reservationService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Reservation.DeleteOwned(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservationNotFound
		}
		return storageError(s.logger, "删除预订失败", err, zap.String("reservation_id", id))
	}
	return nil
}

// ────────────────────── Cancel ──────────────────────

func (s *reservationService) Cancel(ctx context.Context, userID, id string) (*dto.ReservationResponse, error) {
	if err := s.repo.Reservation.Cancel(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, storageError(s.logger, "取消预订失败", err, zap.String("reservation_id", id))
	}

	r, err := s.repo.Reservation.GetOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, storageError(s.logger, "查询预订失败", err, zap.String("reservation_id", id))
	}
	return toReservationResponse(r), nil
}

// ── 响应转换 ──

func toReservationResponse(r *model.Reservation) *dto.ReservationResponse {
	resp := &dto.ReservationResponse{
		ID:        r.ReservationID,
		UserID:    r.UserID,
		TableID:   r.TableID,
		Date:      r.Date.Format(model.DateLayout),
		TimeSlot:  r.TimeSlot,
		Guests:    r.Guests,
		Status:    r.Status,
		Notes:     r.Notes,
		Version:   r.Version,
		CreatedAt: formatTimestamp(r.CreatedAt),
		UpdatedAt: formatTimestamp(r.UpdatedAt),
	}
	if r.Table != nil {
		resp.Table = toTableResponse(r.Table)
	}
	if r.User != nil {
		resp.User = &dto.ReservationOwner{
			ID:    r.User.UserID,
			Name:  r.User.Name,
			Email: r.User.Email,
		}
	}
	return resp
}

func toReservationResponses(list []model.Reservation) []dto.ReservationResponse {
	out := make([]dto.ReservationResponse, 0, len(list))
	for i := range list {
		out = append(out, *toReservationResponse(&list[i]))
	}
	return out
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
