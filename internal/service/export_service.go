package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/OmPrakashMadasi/restaurant-reservation/internal/model"
	"github.com/OmPrakashMadasi/restaurant-reservation/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
//   - 管理员按日导出预订表 (.xlsx)
//   - 顾客导出本人 confirmed 预订为日历 (.ics)
//
// 导出内容以内存缓冲返回，由 Handler 层设置响应头后写出。
type ExportService interface {
	ExportDailySheet(ctx context.Context, date string) (*bytes.Buffer, string, error)
	ExportCalendar(ctx context.Context, userID string) ([]byte, string, error)
}

type exportService struct {
	repo           *repository.Repository
	loc            *time.Location
	diningDuration time.Duration
	logger         *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, loc *time.Location, diningDuration time.Duration, logger *zap.Logger) ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &exportService{repo: repo, loc: loc, diningDuration: diningDuration, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportDailySheet 某日预订导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "预订"，第 1 行为标题（日期），第 2 行为表头
//   - 按时段、餐桌排列；已取消的预订保留并标注状态

var sheetHeaders = []string{"时段", "餐桌", "容量", "人数", "状态", "顾客", "邮箱", "备注"}

func (s *exportService) ExportDailySheet(ctx context.Context, date string) (*bytes.Buffer, string, error) {
	if date == "" {
		return nil, "", &ValidationError{Field: "date", Reason: "导出必须指定日期"}
	}
	list, err := listReservations(ctx, s.repo, s.logger, date)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "预订"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 16)
	f.SetColWidth(sheetName, "C", "E", 10)
	f.SetColWidth(sheetName, "F", "G", 22)
	f.SetColWidth(sheetName, "H", "H", 40)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s 预订一览（共 %d 条）", date, len(list)))
	f.MergeCell(sheetName, "A1", cell(colName(len(sheetHeaders)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	for i, h := range sheetHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", cell(colName(len(sheetHeaders)-1), 2), headerStyle)

	// 数据行
	row := 3
	for _, r := range list {
		tableName, capacity := "-", 0
		if r.Table != nil {
			tableName, capacity = r.Table.Name, r.Table.Capacity
		}
		customer, email := "-", "-"
		if r.User != nil {
			customer, email = r.User.Name, r.User.Email
		}

		values := []interface{}{r.TimeSlot, tableName, capacity, r.Guests, statusLabel(r.Status), customer, email, r.Notes}
		for i, v := range values {
			f.SetCellValue(sheetName, cell(colName(i), row), v)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, fmt.Sprintf("预订_%s.xlsx", date), nil
}

// ═══════════════════════════════════════════════════════════
// ExportCalendar 本人 confirmed 预订导出为 iCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportCalendar(ctx context.Context, userID string) ([]byte, string, error) {
	list, err := s.repo.Reservation.ListByUser(ctx, userID)
	if err != nil {
		return nil, "", storageError(s.logger, "查询我的预订失败", err, zap.String("user_id", userID))
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//restaurant-reservation//reservations//CN")

	now := time.Now().UTC()
	for _, r := range list {
		if !r.IsConfirmed() {
			continue
		}
		start, err := model.SlotStart(r.Date, r.TimeSlot, s.loc)
		if err != nil {
			s.logger.Warn("跳过时段无法解析的预订", zap.String("reservation_id", r.ReservationID), zap.Error(err))
			continue
		}

		event := cal.AddEvent(r.ReservationID + "@restaurant-reservation")
		event.SetDtStampTime(now)
		event.SetCreatedTime(r.CreatedAt)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(s.diningDuration))

		summary := fmt.Sprintf("餐厅预订 · %d 位", r.Guests)
		if r.Table != nil {
			summary = fmt.Sprintf("餐厅预订 · %s · %d 位", r.Table.Name, r.Guests)
		}
		event.SetSummary(summary)
		if r.Notes != "" {
			event.SetDescription(r.Notes)
		}
	}

	return []byte(cal.Serialize()), "reservations.ics", nil
}

// ── 辅助函数 ──

func statusLabel(status string) string {
	switch status {
	case model.ReservationStatusConfirmed:
		return "已确认"
	case model.ReservationStatusCancelled:
		return "已取消"
	default:
		return status
	}
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
