package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/OmPrakashMadasi/restaurant-reservation/internal/model"
)

// RegisterValidators 注册预订相关的自定义 binding 标签
//   - timeslot:      18:00 至 21:30 的半小时档位
//   - calendar_date: YYYY-MM-DD
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("timeslot", isTimeSlot); err != nil {
		return err
	}
	return v.RegisterValidation("calendar_date", isCalendarDate)
}

func isTimeSlot(fl validator.FieldLevel) bool {
	return model.ValidTimeSlot(fl.Field().String())
}

func isCalendarDate(fl validator.FieldLevel) bool {
	_, err := model.ParseCalendarDay(fl.Field().String())
	return err == nil
}
