package reporting

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/leave"
)

type RepositoryAPI interface {
	EmployeeRows(ctx context.Context) ([]EmployeeRow, error)
	AttendanceRows(ctx context.Context) ([]AttendanceRow, error)
	LeaveRows(ctx context.Context) ([]LeaveRow, error)
	AttendanceCounts(ctx context.Context) ([]NameCount, error)
	// LeaveStatusCounts maps status to number of requests; absent statuses have no key.
	LeaveStatusCounts(ctx context.Context) (map[string]int64, error)
}

type Service struct {
	repo    RepositoryAPI
	archive Archive
	logger  *slog.Logger
}

type Option func(*Service)

// WithArchive enables ArchiveEmployeeCSV.
func WithArchive(a Archive) Option {
	return func(s *Service) {
		s.archive = a
	}
}

func NewService(repo RepositoryAPI, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{repo: repo, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) EmployeeReport(ctx context.Context) ([]EmployeeReport, error) {
	rows, err := s.employeeRows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]EmployeeReport, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToReport())
	}
	return out, nil
}

func (s *Service) AttendanceReport(ctx context.Context) ([]AttendanceReport, error) {
	rows, err := s.repo.AttendanceRows(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to load attendance report", err)
	}
	if len(rows) == 0 {
		return nil, internal.NewNoRecordsError("attendance logs")
	}
	out := make([]AttendanceReport, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToReport())
	}
	return out, nil
}

func (s *Service) LeaveReport(ctx context.Context) ([]LeaveReport, error) {
	rows, err := s.repo.LeaveRows(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to load leave report", err)
	}
	if len(rows) == 0 {
		return nil, internal.NewNoRecordsError("leave requests")
	}
	out := make([]LeaveReport, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToReport())
	}
	return out, nil
}

func (s *Service) EmployeesCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.employeeRows(ctx)
	if err != nil {
		return nil, err
	}
	data, err := WriteEmployeesCSV(rows)
	if err != nil {
		return nil, internal.NewInternalError("failed to write employee csv", err)
	}
	return data, nil
}

func (s *Service) EmployeesXLSX(ctx context.Context) ([]byte, error) {
	rows, err := s.employeeRows(ctx)
	if err != nil {
		return nil, err
	}
	data, err := WriteEmployeesXLSX(rows)
	if err != nil {
		return nil, internal.NewInternalError("failed to write employee workbook", err)
	}
	return data, nil
}

func (s *Service) AttendanceChart(ctx context.Context) ([]byte, error) {
	counts, err := s.repo.AttendanceCounts(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to count attendance", err)
	}
	png, err := RenderAttendanceChart(counts)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeRender {
			s.logger.Error("attendance chart render failed", "error", err)
		}
		return nil, err
	}
	return png, nil
}

// LeaveStatusChart counts requests per Pending, Approved and Rejected.
func (s *Service) LeaveStatusChart(ctx context.Context) ([]byte, error) {
	byStatus, err := s.repo.LeaveStatusCounts(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to count leave requests", err)
	}

	labels := leave.Statuses()
	counts := make([]float64, len(labels))
	for i, l := range labels {
		counts[i] = float64(byStatus[l])
	}

	png, err := RenderPieChart(labels, counts)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeRender {
			s.logger.Error("leave chart render failed", "error", err)
		}
		return nil, err
	}
	return png, nil
}

// ArchiveEmployeeCSV uploads the current employee export and returns its key.
func (s *Service) ArchiveEmployeeCSV(ctx context.Context) (string, error) {
	if s.archive == nil {
		return "", internal.ErrArchiveDisabled
	}
	data, err := s.EmployeesCSV(ctx)
	if err != nil {
		return "", err
	}

	key := ArchiveKey("employees", "csv")
	if err := s.archive.Put(ctx, key, CSVContentType, data); err != nil {
		return "", internal.NewInternalError("failed to archive employee csv", err)
	}
	s.logger.Info("employee report archived", "bucket", s.archive.Bucket(), "key", key, "bytes", len(data))
	return key, nil
}

func (s *Service) employeeRows(ctx context.Context) ([]EmployeeRow, error) {
	rows, err := s.repo.EmployeeRows(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to load employees", err)
	}
	if len(rows) == 0 {
		return nil, internal.NewNoRecordsError("employees")
	}
	return rows, nil
}
