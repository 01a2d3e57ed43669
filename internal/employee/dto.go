package employee

import (
	"strings"

	"github.com/frahmantamala/hr-management/internal/core/common/validation"
)

// EmployeeDTO is the body of both create and full update requests.
type EmployeeDTO struct {
	EmployeeID  string `json:"employee_id"`
	EmployeeNIN string `json:"employee_nin"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	JobTitle    string `json:"job_title"`
	PhoneNumber string `json:"phone_number"`
}

func (d *EmployeeDTO) Normalize() {
	d.EmployeeID = strings.TrimSpace(d.EmployeeID)
	d.EmployeeNIN = strings.TrimSpace(d.EmployeeNIN)
	d.FullName = strings.TrimSpace(d.FullName)
	d.Email = strings.TrimSpace(d.Email)
	d.JobTitle = strings.TrimSpace(d.JobTitle)
	d.PhoneNumber = strings.TrimSpace(d.PhoneNumber)
}

func (d EmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("employee_id", d.EmployeeID).Required().MaxLength(15)
	v.Field("employee_nin", d.EmployeeNIN).Required().MaxLength(25)
	v.Field("full_name", d.FullName).Required().MaxLength(100)
	v.Field("email", d.Email).Required().MaxLength(254).Email()
	v.Field("job_title", d.JobTitle).Required().MaxLength(50)
	v.Field("phone_number", d.PhoneNumber).Required().MaxLength(15)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
