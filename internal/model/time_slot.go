package model

import "time"

// TimeSlots 可预订时段：18:00 至 21:30，每半小时一档
var TimeSlots = []string{"18:00", "18:30", "19:00", "19:30", "20:00", "20:30", "21:00", "21:30"}

var timeSlotSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(TimeSlots))
	for _, s := range TimeSlots {
		m[s] = struct{}{}
	}
	return m
}()

// ValidTimeSlot 是否为合法时段
func ValidTimeSlot(slot string) bool {
	_, ok := timeSlotSet[slot]
	return ok
}

// DateLayout 日历日期格式
const DateLayout = "2006-01-02"

// CalendarDay 将任意时间截断为当天零点（UTC 存储），丢弃时分秒与时区
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseCalendarDay 解析 YYYY-MM-DD
func ParseCalendarDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return CalendarDay(t), nil
}

// SlotStart 返回某日某时段在餐厅时区中的开始时刻
func SlotStart(day time.Time, slot string, loc *time.Location) (time.Time, error) {
	hm, err := time.Parse("15:04", slot)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, hm.Hour(), hm.Minute(), 0, 0, loc), nil
}
