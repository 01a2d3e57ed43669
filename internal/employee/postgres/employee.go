package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/hr-management/internal/core/common/dbutil"
	attendanceDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/employee"
	leaveDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/hr-management/internal/employee"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	var rows []employeeDatamodel.Employee
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*employee.Employee, 0, len(rows))
	for i := range rows {
		out = append(out, employee.FromDataModel(&rows[i]))
	}
	return out, nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*employee.Employee, error) {
	var row employeeDatamodel.Employee
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return employee.FromDataModel(&row), nil
}

func (r *EmployeeRepository) TakenFields(ctx context.Context, e *employee.Employee, excludeID int64) ([]string, error) {
	checks := []struct {
		field string
		value string
	}{
		{"employee_id", e.EmployeeID},
		{"employee_nin", e.EmployeeNIN},
		{"email", e.Email},
	}

	var taken []string
	for _, c := range checks {
		var count int64
		q := r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{}).Where(c.field+" = ?", c.value)
		if excludeID > 0 {
			q = q.Where("id <> ?", excludeID)
		}
		if err := q.Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			taken = append(taken, c.field)
		}
	}
	return taken, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	row := employee.ToDataModel(e)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if dbutil.IsUniqueViolation(err) {
			return employee.ErrDuplicate
		}
		return err
	}
	e.ID = row.ID
	e.DateCreated = row.DateCreated
	return nil
}

func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) error {
	row := employee.ToDataModel(e)
	if err := r.db.WithContext(ctx).Omit("date_joined").Save(row).Error; err != nil {
		if dbutil.IsUniqueViolation(err) {
			return employee.ErrDuplicate
		}
		return err
	}
	e.DateCreated = row.DateCreated
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&attendanceDatamodel.Attendance{}).Error; err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", id).Delete(&leaveDatamodel.LeaveRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&employeeDatamodel.Employee{}, id).Error
	})
}
