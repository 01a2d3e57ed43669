package employee

import (
	"errors"
	"time"

	"github.com/frahmantamala/hr-management/internal/core/common/validation"
	employeeDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/employee"
)

// ErrDuplicate is returned by repositories when a unique column collides.
var ErrDuplicate = errors.New("employee: duplicate unique field")

type Employee struct {
	ID          int64
	EmployeeID  string
	EmployeeNIN string
	FullName    string
	Email       string
	JobTitle    string
	PhoneNumber string
	DateJoined  time.Time
	DateCreated time.Time
}

type Response struct {
	ID          int64     `json:"id"`
	EmployeeID  string    `json:"employee_id"`
	EmployeeNIN string    `json:"employee_nin"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	JobTitle    string    `json:"job_title"`
	PhoneNumber string    `json:"phone_number"`
	DateJoined  string    `json:"date_joined"`
	DateCreated time.Time `json:"date_created"`
}

func (e *Employee) ToResponse() Response {
	return Response{
		ID:          e.ID,
		EmployeeID:  e.EmployeeID,
		EmployeeNIN: e.EmployeeNIN,
		FullName:    e.FullName,
		Email:       e.Email,
		JobTitle:    e.JobTitle,
		PhoneNumber: e.PhoneNumber,
		DateJoined:  e.DateJoined.Format(validation.DateLayout),
		DateCreated: e.DateCreated,
	}
}

func ToResponses(list []*Employee) []Response {
	out := make([]Response, 0, len(list))
	for _, e := range list {
		out = append(out, e.ToResponse())
	}
	return out
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:          e.ID,
		EmployeeID:  e.EmployeeID,
		EmployeeNIN: e.EmployeeNIN,
		FullName:    e.FullName,
		Email:       e.Email,
		JobTitle:    e.JobTitle,
		PhoneNumber: e.PhoneNumber,
		DateJoined:  e.DateJoined,
		DateCreated: e.DateCreated,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:          e.ID,
		EmployeeID:  e.EmployeeID,
		EmployeeNIN: e.EmployeeNIN,
		FullName:    e.FullName,
		Email:       e.Email,
		JobTitle:    e.JobTitle,
		PhoneNumber: e.PhoneNumber,
		DateJoined:  e.DateJoined,
		DateCreated: e.DateCreated,
	}
}
