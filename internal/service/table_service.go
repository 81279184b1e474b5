package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/OmPrakashMadasi/restaurant-reservation/internal/dto"
	"github.com/OmPrakashMadasi/restaurant-reservation/internal/model"
	"github.com/OmPrakashMadasi/restaurant-reservation/internal/repository"
	pkgerrors "github.com/OmPrakashMadasi/restaurant-reservation/pkg/errors"
)

// ── 餐桌模块业务错误 ──

var (
	ErrDuplicateTableName    = errors.New("餐桌名称已存在")
	ErrInvalidCapacity       = errors.New("餐桌容量必须在 1 到 8 之间")
	ErrHasActiveReservations = errors.New("餐桌仍有有效预订")
)

const maxTableNameRunes = 100

// ActiveReservationsError 餐桌仍有今天及以后的 confirmed 预订
type ActiveReservationsError struct {
	Count int64
}

func (e *ActiveReservationsError) Error() string {
	return fmt.Sprintf("该餐桌仍有 %d 个今天及以后的有效预订，无法删除", e.Count)
}

func (e *ActiveReservationsError) Unwrap() error { return ErrHasActiveReservations }

// TableService 餐桌登记业务接口
type TableService interface {
	ListBookable(ctx context.Context) ([]dto.TableResponse, error)
	ListAll(ctx context.Context) ([]dto.TableResponse, error)
	Create(ctx context.Context, req *dto.CreateTableRequest) (*dto.TableResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTableRequest) (*dto.TableResponse, error)
	Delete(ctx context.Context, id string) error
	SetAvailability(ctx context.Context, id string, available bool) (*dto.TableResponse, error)
}

type tableService struct {
	repo   *repository.Repository
	clock  Clock
	logger *zap.Logger
}

// NewTableService 创建 TableService 实例
func NewTableService(repo *repository.Repository, clock Clock, logger *zap.Logger) TableService {
	return &tableService{repo: repo, clock: clock, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *tableService) ListBookable(ctx context.Context) ([]dto.TableResponse, error) {
	tables, err := s.repo.Table.ListBookable(ctx)
	if err != nil {
		return nil, storageError(s.logger, "列出可预订餐桌失败", err)
	}
	return toTableResponses(tables), nil
}

func (s *tableService) ListAll(ctx context.Context) ([]dto.TableResponse, error) {
	tables, err := s.repo.Table.ListAll(ctx)
	if err != nil {
		return nil, storageError(s.logger, "列出餐桌失败", err)
	}
	return toTableResponses(tables), nil
}

// ────────────────────── Create ──────────────────────

func (s *tableService) Create(ctx context.Context, req *dto.CreateTableRequest) (*dto.TableResponse, error) {
	name, err := normalizeTableName(req.Name)
	if err != nil {
		return nil, err
	}
	if !model.ValidCapacity(req.Capacity) {
		return nil, ErrInvalidCapacity
	}

	// 预检查只为给出友好提示，最终以唯一索引为准
	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	table := &model.Table{
		Name:        name,
		Capacity:    req.Capacity,
		IsAvailable: true,
	}
	if err := s.repo.Table.Create(ctx, table); err != nil {
		if errors.Is(err, pkgerrors.ErrUniqueViolation) {
			return nil, ErrDuplicateTableName
		}
		return nil, storageError(s.logger, "创建餐桌失败", err, zap.String("name", name))
	}

	s.logger.Info("餐桌已创建", zap.String("table_id", table.TableID), zap.String("name", name))
	return toTableResponse(table), nil
}

// ────────────────────── Update ──────────────────────

func (s *tableService) Update(ctx context.Context, id string, req *dto.UpdateTableRequest) (*dto.TableResponse, error) {
	table, err := s.getTable(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name, err := normalizeTableName(*req.Name)
		if err != nil {
			return nil, err
		}
		if name != table.Name {
			if err := s.ensureNameFree(ctx, name, table.TableID); err != nil {
				return nil, err
			}
		}
		table.Name = name
	}
	if req.Capacity != nil {
		if !model.ValidCapacity(*req.Capacity) {
			return nil, ErrInvalidCapacity
		}
		table.Capacity = *req.Capacity
	}
	if req.IsAvailable != nil {
		table.IsAvailable = *req.IsAvailable
	}

	if err := s.repo.Table.Update(ctx, table); err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrUniqueViolation):
			return nil, ErrDuplicateTableName
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrTableNotFound
		}
		return nil, storageError(s.logger, "更新餐桌失败", err, zap.String("table_id", id))
	}

	return toTableResponse(table), nil
}

// ────────────────────── Delete ──────────────────────

// Delete 软删除餐桌；今天及以后仍有 confirmed 预订时拒绝
//
// 计数与删除是两步操作，两者之间落下的新预订不会被拦截。
func (s *tableService) Delete(ctx context.Context, id string) error {
	if _, err := s.getTable(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.Reservation.CountActiveByTable(ctx, id, s.clock.Today())
	if err != nil {
		return storageError(s.logger, "统计餐桌有效预订失败", err, zap.String("table_id", id))
	}
	if count > 0 {
		return &ActiveReservationsError{Count: count}
	}

	if err := s.repo.Table.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTableNotFound
		}
		return storageError(s.logger, "删除餐桌失败", err, zap.String("table_id", id))
	}

	s.logger.Info("餐桌已删除", zap.String("table_id", id))
	return nil
}

// ────────────────────── SetAvailability ──────────────────────

// SetAvailability 只影响后续预订，不改动已有预订
func (s *tableService) SetAvailability(ctx context.Context, id string, available bool) (*dto.TableResponse, error) {
	if err := s.repo.Table.SetAvailability(ctx, id, available); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, storageError(s.logger, "设置餐桌可预订状态失败", err, zap.String("table_id", id))
	}
	return s.getTableResponse(ctx, id)
}

// ── 辅助函数 ──

func (s *tableService) getTable(ctx context.Context, id string) (*model.Table, error) {
	table, err := s.repo.Table.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, storageError(s.logger, "查询餐桌失败", err, zap.String("table_id", id))
	}
	return table, nil
}

func (s *tableService) getTableResponse(ctx context.Context, id string) (*dto.TableResponse, error) {
	table, err := s.getTable(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTableResponse(table), nil
}

// ensureNameFree 名称未被其他未删除餐桌占用；selfID 为当前餐桌（改名时）
func (s *tableService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.Table.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return storageError(s.logger, "查询餐桌名称失败", err, zap.String("name", name))
	}
	if existing.TableID != selfID {
		return ErrDuplicateTableName
	}
	return nil
}

func normalizeTableName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Field: "name", Reason: "餐桌名称不能为空"}
	}
	if utf8.RuneCountInString(name) > maxTableNameRunes {
		return "", &ValidationError{Field: "name", Reason: fmt.Sprintf("餐桌名称不能超过 %d 个字符", maxTableNameRunes)}
	}
	return name, nil
}

func toTableResponse(t *model.Table) *dto.TableResponse {
	return &dto.TableResponse{
		ID:          t.TableID,
		Name:        t.Name,
		Capacity:    t.Capacity,
		IsAvailable: t.IsAvailable,
	}
}

func toTableResponses(tables []model.Table) []dto.TableResponse {
	list := make([]dto.TableResponse, 0, len(tables))
	for i := range tables {
		list = append(list, *toTableResponse(&tables[i]))
	}
	return list
}
