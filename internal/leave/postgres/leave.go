package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	employeeDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/employee"
	leaveDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/hr-management/internal/leave"
)

type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) leave.RepositoryAPI {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) List(ctx context.Context) ([]*leave.LeaveRequest, error) {
	var rows []leaveDatamodel.LeaveRequest
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*leave.LeaveRequest, 0, len(rows))
	for i := range rows {
		out = append(out, leave.FromDataModel(&rows[i]))
	}
	return out, nil
}

func (r *LeaveRepository) GetByID(ctx context.Context, id int64) (*leave.LeaveRequest, error) {
	var row leaveDatamodel.LeaveRequest
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return leave.FromDataModel(&row), nil
}

func (r *LeaveRepository) EmployeeExists(ctx context.Context, employeeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{}).Where("id = ?", employeeID).Count(&count).Error
	return count > 0, err
}

func (r *LeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	row := leave.ToDataModel(l)
	if err := r.db.WithContext(ctx).Omit("Employee").Create(row).Error; err != nil {
		return err
	}
	l.ID = row.ID
	l.CreatedAt = row.CreatedAt
	return nil
}

func (r *LeaveRepository) Update(ctx context.Context, l *leave.LeaveRequest) error {
	return r.db.WithContext(ctx).Model(&leaveDatamodel.LeaveRequest{}).Where("id = ?", l.ID).
		Updates(map[string]interface{}{
			"employee_id": l.EmployeeID,
			"start_date":  l.StartDate,
			"end_date":    l.EndDate,
			"reason":      l.Reason,
			"status":      l.Status,
		}).Error
}

func (r *LeaveRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&leaveDatamodel.LeaveRequest{}, id).Error
}
