package leave

import (
	"time"

	"github.com/frahmantamala/hr-management/internal/core/datamodel/employee"
)

type LeaveRequest struct {
	ID         int64              `gorm:"primaryKey"`
	EmployeeID int64              `gorm:"column:employee_id;index;not null"`
	StartDate  time.Time          `gorm:"column:start_date;type:date;not null"`
	EndDate    time.Time          `gorm:"column:end_date;type:date;not null"`
	Reason     string             `gorm:"column:reason;type:text;not null"`
	Status     string             `gorm:"column:status;size:10;not null"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	Employee   *employee.Employee `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
}
