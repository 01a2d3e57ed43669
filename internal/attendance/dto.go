package attendance

import (
	"encoding/json"
	"time"

	"github.com/frahmantamala/hr-management/internal/core/common/validation"
)

// Datetime keeps the timestamp as sent so a malformed value is reported
// against its field instead of failing the whole body.
type Datetime struct {
	raw string
}

func (d *Datetime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// numbers, objects and the like fail the format check
		d.raw = string(b)
		return nil
	}
	d.raw = s
	return nil
}

func (d *Datetime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.raw)
}

// Raw is the value as received, empty for a nil Datetime.
func (d *Datetime) Raw() string {
	if d == nil {
		return ""
	}
	return d.raw
}

// Time returns the parsed UTC instant; call it only after Validate.
func (d *Datetime) Time() *time.Time {
	if d == nil || d.raw == "" {
		return nil
	}
	t, err := validation.ParseDateTime(d.raw)
	if err != nil {
		return nil
	}
	return &t
}

// AttendanceDTO is the body of create and full update requests.
type AttendanceDTO struct {
	Employee     int64     `json:"employee"`
	ClockInTime  *Datetime `json:"clock_in_time"`
	ClockOutTime *Datetime `json:"clock_out_time"`
}

// Validate checks presence and format only; clock-out before clock-in is accepted.
func (d AttendanceDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("employee", d.Employee).Required()
	v.Field("clock_in_time", d.ClockInTime.Raw()).Required().DateTime()
	v.Field("clock_out_time", d.ClockOutTime.Raw()).DateTime()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
