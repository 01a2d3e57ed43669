package reporting

import (
	"time"

	"github.com/frahmantamala/hr-management/internal/attendance"
	"github.com/frahmantamala/hr-management/internal/core/common/validation"
)

// EmptyDuration is reported for attendance logs that are still open.
const EmptyDuration = "Empty"

type EmployeeRow struct {
	EmployeeID  string    `db:"employee_id"`
	EmployeeNIN string    `db:"employee_nin"`
	FullName    string    `db:"full_name"`
	Email       string    `db:"email"`
	JobTitle    string    `db:"job_title"`
	PhoneNumber string    `db:"phone_number"`
	DateJoined  time.Time `db:"date_joined"`
}

type AttendanceRow struct {
	EmployeeName string     `db:"employee_name"`
	ClockInTime  time.Time  `db:"clock_in_time"`
	ClockOutTime *time.Time `db:"clock_out_time"`
}

type LeaveRow struct {
	EmployeeFullName string    `db:"employee__full_name"`
	StartDate        time.Time `db:"start_date"`
	EndDate          time.Time `db:"end_date"`
	Reason           string    `db:"reason"`
	Status           string    `db:"status"`
}

// NameCount is one bar of the attendance frequency chart.
type NameCount struct {
	Name  string `db:"name"`
	Count int64  `db:"count"`
}

type EmployeeReport struct {
	EmployeeID  string `json:"employee_id"`
	EmployeeNIN string `json:"employee_nin"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	JobTitle    string `json:"job_title"`
	PhoneNumber string `json:"phone_number"`
	DateJoined  string `json:"date_joined"`
}

type AttendanceReport struct {
	EmployeeName string     `json:"employee_name"`
	ClockInTime  time.Time  `json:"clock_in_time"`
	ClockOutTime *time.Time `json:"clock_out_time"`
	Duration     string     `json:"duration"`
}

type LeaveReport struct {
	EmployeeFullName string `json:"employee__full_name"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	Reason           string `json:"reason"`
	Status           string `json:"status"`
}

func (r EmployeeRow) ToReport() EmployeeReport {
	return EmployeeReport{
		EmployeeID:  r.EmployeeID,
		EmployeeNIN: r.EmployeeNIN,
		FullName:    r.FullName,
		Email:       r.Email,
		JobTitle:    r.JobTitle,
		PhoneNumber: r.PhoneNumber,
		DateJoined:  r.DateJoined.Format(validation.DateLayout),
	}
}

func (r AttendanceRow) ToReport() AttendanceReport {
	out := AttendanceReport{
		EmployeeName: r.EmployeeName,
		ClockInTime:  r.ClockInTime.UTC(),
		Duration:     EmptyDuration,
	}
	if r.ClockOutTime != nil {
		out.ClockOutTime = r.ClockOutTime
		out.Duration = attendance.FormatDuration(r.ClockOutTime.Sub(r.ClockInTime))
	}
	return out
}

func (r LeaveRow) ToReport() LeaveReport {
	return LeaveReport{
		EmployeeFullName: r.EmployeeFullName,
		StartDate:        r.StartDate.Format(validation.DateLayout),
		EndDate:          r.EndDate.Format(validation.DateLayout),
		Reason:           r.Reason,
		Status:           r.Status,
	}
}
