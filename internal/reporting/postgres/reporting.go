package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/hr-management/internal/reporting"
)

const (
	employeeRowsQuery = `
SELECT employee_id, employee_nin, full_name, email, job_title, phone_number, date_joined
FROM employees
ORDER BY id`

	attendanceRowsQuery = `
SELECT e.full_name AS employee_name, a.clock_in_time, a.clock_out_time
FROM attendance_logs a
JOIN employees e ON e.id = a.employee_id
ORDER BY a.clock_in_time DESC, a.id DESC`

	leaveRowsQuery = `
SELECT e.full_name AS employee__full_name, l.start_date, l.end_date, l.reason, l.status
FROM leave_requests l
JOIN employees e ON e.id = l.employee_id
ORDER BY l.created_at DESC, l.id DESC`

	attendanceCountsQuery = `
SELECT e.full_name AS name, COUNT(a.id) AS count
FROM attendance_logs a
JOIN employees e ON e.id = a.employee_id
GROUP BY e.full_name
ORDER BY e.full_name`

	leaveStatusCountsQuery = `
SELECT status AS name, COUNT(id) AS count
FROM leave_requests
GROUP BY status`
)

// ReportRepository runs the read-only report projections with sqlx.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) reporting.RepositoryAPI {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) EmployeeRows(ctx context.Context) ([]reporting.EmployeeRow, error) {
	var rows []reporting.EmployeeRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(employeeRowsQuery)); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) AttendanceRows(ctx context.Context) ([]reporting.AttendanceRow, error) {
	var rows []reporting.AttendanceRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(attendanceRowsQuery)); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) LeaveRows(ctx context.Context) ([]reporting.LeaveRow, error) {
	var rows []reporting.LeaveRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(leaveRowsQuery)); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) AttendanceCounts(ctx context.Context) ([]reporting.NameCount, error) {
	var rows []reporting.NameCount
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(attendanceCountsQuery)); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) LeaveStatusCounts(ctx context.Context) (map[string]int64, error) {
	var rows []reporting.NameCount
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(leaveStatusCountsQuery)); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Name] = row.Count
	}
	return out, nil
}
