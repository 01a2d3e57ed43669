package leave

import (
	"github.com/frahmantamala/hr-management/internal/core/common/validation"
)

type CreateLeaveRequestDTO struct {
	Employee  int64  `json:"employee"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
}

// UpdateLeaveRequestDTO is a partial update; absent fields are kept.
type UpdateLeaveRequestDTO struct {
	Employee  *int64  `json:"employee"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Reason    *string `json:"reason"`
	Status    *string `json:"status"`
}

// Validate does not compare start and end dates.
func (d CreateLeaveRequestDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("employee", d.Employee).Required()
	v.Field("start_date", d.StartDate).Required().Date()
	v.Field("end_date", d.EndDate).Required().Date()
	v.Field("reason", d.Reason).Required()
	v.Field("status", d.Status).OneOf(Statuses()...)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d UpdateLeaveRequestDTO) Validate() error {
	v := validation.NewValidator()
	if d.Employee != nil {
		v.Field("employee", *d.Employee).Required()
	}
	if d.StartDate != nil {
		v.Field("start_date", d.StartDate).Required().Date()
	}
	if d.EndDate != nil {
		v.Field("end_date", d.EndDate).Required().Date()
	}
	if d.Reason != nil {
		v.Field("reason", d.Reason).Required()
	}
	if d.Status != nil {
		v.Field("status", d.Status).Required().OneOf(Statuses()...)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
