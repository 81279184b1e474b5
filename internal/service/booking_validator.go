package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/OmPrakashMadasi/restaurant-reservation/internal/dto"
	"github.com/OmPrakashMadasi/restaurant-reservation/internal/model"
)

// ── 预订校验业务错误 ──

var (
	ErrValidation       = errors.New("参数校验失败")
	ErrPastDate         = errors.New("不能预订过去的日期")
	ErrTableNotFound    = errors.New("餐桌不存在")
	ErrCapacityExceeded = errors.New("人数超过餐桌容量")
)

// ValidationError 字段级校验错误
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// CapacityError 人数超过餐桌容量，消息中包含容量与人数
type CapacityError struct {
	Capacity int
	Guests   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("该餐桌最多容纳 %d 位客人，当前选择了 %d 位", e.Capacity, e.Guests)
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }

// ═══════════════════════════════════════════════════════════
// ValidateBooking 纯函数，不访问存储
// ═══════════════════════════════════════════════════════════
//
// 校验顺序：
//  0. 字段格式（日期、时段、人数、备注）
//  1. 日期不早于 today
//  2. 餐桌存在（table 为 nil 表示不存在）
//  3. 人数不超过餐桌容量
//
// 不检查时段占用：冲突只由台账写入时的唯一索引判定。
// 成功时返回 status=confirmed 的预订草稿（UserID 由调用方填充）。

func ValidateBooking(req *dto.CreateReservationRequest, table *model.Table, today time.Time) (*model.Reservation, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if err := checkTimeSlot(req.TimeSlot); err != nil {
		return nil, err
	}
	if err := checkGuests(req.Guests); err != nil {
		return nil, err
	}
	notes, err := normalizeNotes(req.Notes)
	if err != nil {
		return nil, err
	}

	if date.Before(model.CalendarDay(today)) {
		return nil, ErrPastDate
	}

	if table == nil {
		return nil, ErrTableNotFound
	}

	if err := CheckCapacity(table, req.Guests); err != nil {
		return nil, err
	}

	r := &model.Reservation{
		TableID:  table.TableID,
		Date:     date,
		TimeSlot: req.TimeSlot,
		Guests:   req.Guests,
		Status:   model.ReservationStatusConfirmed,
		Notes:    notes,
	}
	r.Version = 1
	return r, nil
}

// CheckCapacity 人数是否在餐桌容量之内
func CheckCapacity(table *model.Table, guests int) error {
	if guests > table.Capacity {
		return &CapacityError{Capacity: table.Capacity, Guests: guests}
	}
	return nil
}

// ── 字段校验 ──

func parseDate(s string) (time.Time, error) {
	d, err := model.ParseCalendarDay(s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Reason: "日期格式应为 YYYY-MM-DD"}
	}
	return d, nil
}

func checkTimeSlot(slot string) error {
	if !model.ValidTimeSlot(slot) {
		return &ValidationError{Field: "timeSlot", Reason: "时段必须为 18:00 至 21:30 之间的半点"}
	}
	return nil
}

func checkGuests(guests int) error {
	if guests < model.MinGuests || guests > model.MaxGuests {
		return &ValidationError{
			Field:  "guests",
			Reason: fmt.Sprintf("人数必须在 %d 到 %d 之间", model.MinGuests, model.MaxGuests),
		}
	}
	return nil
}

func normalizeNotes(notes string) (string, error) {
	notes = strings.TrimSpace(notes)
	if utf8.RuneCountInString(notes) > model.MaxNotesRunes {
		return "", &ValidationError{
			Field:  "notes",
			Reason: fmt.Sprintf("备注不能超过 %d 个字符", model.MaxNotesRunes),
		}
	}
	return notes, nil
}
