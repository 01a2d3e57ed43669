package attendance

import (
	"fmt"
	"time"

	attendanceDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/attendance"
)

type Attendance struct {
	ID           int64
	EmployeeID   int64
	ClockInTime  time.Time
	ClockOutTime *time.Time
}

// Duration is clock-out minus clock-in. ok is false while the log is open.
func (a *Attendance) Duration() (d time.Duration, ok bool) {
	if a.ClockOutTime == nil {
		return 0, false
	}
	return a.ClockOutTime.Sub(a.ClockInTime), true
}

type Response struct {
	ID              int64      `json:"id"`
	Employee        int64      `json:"employee"`
	ClockInTime     time.Time  `json:"clock_in_time"`
	ClockOutTime    *time.Time `json:"clock_out_time"`
	Duration        *string    `json:"duration"`
	DurationSeconds *int64     `json:"duration_seconds"`
}

func (a *Attendance) ToResponse() Response {
	resp := Response{
		ID:           a.ID,
		Employee:     a.EmployeeID,
		ClockInTime:  a.ClockInTime,
		ClockOutTime: a.ClockOutTime,
	}
	if d, ok := a.Duration(); ok {
		s := FormatDuration(d)
		secs := int64(d / time.Second)
		resp.Duration = &s
		resp.DurationSeconds = &secs
	}
	return resp
}

func ToResponses(list []*Attendance) []Response {
	out := make([]Response, 0, len(list))
	for _, a := range list {
		out = append(out, a.ToResponse())
	}
	return out
}

// FormatDuration renders d as "[D ]HH:MM:SS[.ffffff]". Negative durations
// borrow a whole day, so -1s is "-1 23:59:59".
func FormatDuration(d time.Duration) string {
	micros := d.Microseconds()
	const microsPerDay = int64(24 * time.Hour / time.Microsecond)

	days := micros / microsPerDay
	rem := micros % microsPerDay
	if rem < 0 {
		days--
		rem += microsPerDay
	}

	secs := rem / 1e6
	frac := rem % 1e6
	hours := secs / 3600
	minutes := (secs % 3600) / 60
	seconds := secs % 60

	s := fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	if days != 0 {
		s = fmt.Sprintf("%d %s", days, s)
	}
	if frac != 0 {
		s = fmt.Sprintf("%s.%06d", s, frac)
	}
	return s
}

func ToDataModel(a *Attendance) *attendanceDatamodel.Attendance {
	return &attendanceDatamodel.Attendance{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		ClockInTime:  a.ClockInTime,
		ClockOutTime: a.ClockOutTime,
	}
}

func FromDataModel(a *attendanceDatamodel.Attendance) *Attendance {
	return &Attendance{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		ClockInTime:  a.ClockInTime,
		ClockOutTime: a.ClockOutTime,
	}
}
