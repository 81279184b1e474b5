package service

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/OmPrakashMadasi/restaurant-reservation/config"
	"github.com/OmPrakashMadasi/restaurant-reservation/internal/model"
	"github.com/OmPrakashMadasi/restaurant-reservation/internal/repository"
	"github.com/OmPrakashMadasi/restaurant-reservation/pkg/jwt"
	"github.com/OmPrakashMadasi/restaurant-reservation/pkg/redis"
)

// ErrStorageUnavailable 存储访问失败（含超时），对应 HTTP 503
var ErrStorageUnavailable = errors.New("存储服务暂不可用")

// Service 所有 Service 的聚合入口
type Service struct {
	Auth        AuthService
	Table       TableService
	Reservation ReservationService
	Admin       AdminService
	Export      ExportService
}

// NewService 创建 Service 聚合
// rdb 可为 nil（Redis 不可用时登出不写黑名单）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	clock Clock,
	logger *zap.Logger,
) *Service {
	var blacklist TokenBlacklist
	if rdb != nil {
		blacklist = rdb
	}

	return &Service{
		Auth:        NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		Table:       NewTableService(repo, clock, logger),
		Reservation: NewReservationService(repo, clock, logger),
		Admin:       NewAdminService(repo, clock, logger),
		Export:      NewExportService(repo, cfg.Booking.Location(), cfg.Booking.DiningDuration, logger),
	}
}

// ── 时钟 ──

// Clock 提供餐厅时区下的“今天”
type Clock interface {
	Today() time.Time
}

type zonedClock struct {
	now func() time.Time
	loc *time.Location
}

// NewClock 创建时钟；now 通常为 time.Now
func NewClock(now func() time.Time, loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &zonedClock{now: now, loc: loc}
}

// Today 返回餐厅时区当天的日历日（UTC 零点表示）
func (c *zonedClock) Today() time.Time {
	return model.CalendarDay(c.now().In(c.loc))
}

// ── 存储错误 ──

// storageError 记录日志并包装为 ErrStorageUnavailable
func storageError(logger *zap.Logger, msg string, err error, fields ...zap.Field) error {
	logger.Error(msg, append(fields, zap.Error(err))...)
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
