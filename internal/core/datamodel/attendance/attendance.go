package attendance

import (
	"time"

	"github.com/frahmantamala/hr-management/internal/core/datamodel/employee"
)

type Attendance struct {
	ID           int64              `gorm:"primaryKey"`
	EmployeeID   int64              `gorm:"column:employee_id;index;not null"`
	ClockInTime  time.Time          `gorm:"column:clock_in_time;not null"`
	ClockOutTime *time.Time         `gorm:"column:clock_out_time"`
	Employee     *employee.Employee `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
}

func (Attendance) TableName() string {
	return "attendance_logs"
}
