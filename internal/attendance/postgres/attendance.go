package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/hr-management/internal/attendance"
	attendanceDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/employee"
)

type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) attendance.RepositoryAPI {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) List(ctx context.Context) ([]*attendance.Attendance, error) {
	var rows []attendanceDatamodel.Attendance
	if err := r.db.WithContext(ctx).Order("clock_in_time DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*attendance.Attendance, 0, len(rows))
	for i := range rows {
		out = append(out, attendance.FromDataModel(&rows[i]))
	}
	return out, nil
}

func (r *AttendanceRepository) GetByID(ctx context.Context, id int64) (*attendance.Attendance, error) {
	var row attendanceDatamodel.Attendance
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return attendance.FromDataModel(&row), nil
}

func (r *AttendanceRepository) EmployeeExists(ctx context.Context, employeeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{}).Where("id = ?", employeeID).Count(&count).Error
	return count > 0, err
}

func (r *AttendanceRepository) Create(ctx context.Context, a *attendance.Attendance) error {
	row := attendance.ToDataModel(a)
	if err := r.db.WithContext(ctx).Omit("Employee").Create(row).Error; err != nil {
		return err
	}
	a.ID = row.ID
	return nil
}

func (r *AttendanceRepository) Update(ctx context.Context, a *attendance.Attendance) error {
	return r.db.WithContext(ctx).Model(&attendanceDatamodel.Attendance{}).Where("id = ?", a.ID).
		Updates(map[string]interface{}{
			"employee_id":    a.EmployeeID,
			"clock_in_time":  a.ClockInTime,
			"clock_out_time": a.ClockOutTime,
		}).Error
}

func (r *AttendanceRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&attendanceDatamodel.Attendance{}, id).Error
}
