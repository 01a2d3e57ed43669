package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/events"
)

type RepositoryAPI interface {
	List(ctx context.Context) ([]*Attendance, error)
	// GetByID returns nil, nil when the log does not exist.
	GetByID(ctx context.Context, id int64) (*Attendance, error)
	EmployeeExists(ctx context.Context, employeeID int64) (bool, error)
	Create(ctx context.Context, a *Attendance) error
	Update(ctx context.Context, a *Attendance) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) List(ctx context.Context) ([]*Attendance, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list attendance logs", err)
	}
	if len(list) == 0 {
		return nil, internal.NewNoRecordsError("attendance logs")
	}
	return list, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Attendance, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get attendance log", err)
	}
	if a == nil {
		return nil, internal.ErrAttendanceNotFound
	}
	return a, nil
}

// Create records a clock-in, optionally already closed by a clock-out.
func (s *Service) Create(ctx context.Context, dto AttendanceDTO) (*Attendance, error) {
	if err := s.validate(ctx, dto); err != nil {
		return nil, err
	}

	a := &Attendance{
		EmployeeID:   dto.Employee,
		ClockInTime:  *dto.ClockInTime.Time(),
		ClockOutTime: dto.ClockOutTime.Time(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, internal.NewInternalError("failed to create attendance log", err)
	}

	s.publish(ctx, events.NewAttendanceClockedInEvent(a.ID, a.EmployeeID, a.ClockInTime))
	if d, ok := a.Duration(); ok {
		s.publish(ctx, events.NewAttendanceClockedOutEvent(a.ID, a.EmployeeID, *a.ClockOutTime, d))
	}
	return a, nil
}

// Update replaces the log. Sending no clock_out_time reopens it.
func (s *Service) Update(ctx context.Context, id int64, dto AttendanceDTO) (*Attendance, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, dto); err != nil {
		return nil, err
	}

	wasOpen := a.ClockOutTime == nil
	a.EmployeeID = dto.Employee
	a.ClockInTime = *dto.ClockInTime.Time()
	a.ClockOutTime = dto.ClockOutTime.Time()

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, internal.NewInternalError("failed to update attendance log", err)
	}

	if d, ok := a.Duration(); ok && wasOpen {
		s.publish(ctx, events.NewAttendanceClockedOutEvent(a.ID, a.EmployeeID, *a.ClockOutTime, d))
	}
	return a, nil
}

// ClockOut closes an open log at the current time.
func (s *Service) ClockOut(ctx context.Context, id int64) (*Attendance, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.ClockOutTime != nil {
		return nil, internal.NewValidationError("Attendance log is already clocked out", internal.ErrCodeAlreadyClockedOut)
	}

	now := s.now().UTC()
	a.ClockOutTime = &now
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, internal.NewInternalError("failed to clock out", err)
	}

	d, _ := a.Duration()
	s.publish(ctx, events.NewAttendanceClockedOutEvent(a.ID, a.EmployeeID, now, d))
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internal.NewInternalError("failed to delete attendance log", err)
	}
	return nil
}

func (s *Service) validate(ctx context.Context, dto AttendanceDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	exists, err := s.repo.EmployeeExists(ctx, dto.Employee)
	if err != nil {
		return internal.NewInternalError("failed to check employee", err)
	}
	if !exists {
		msg := fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", dto.Employee)
		return internal.NewValidationFieldError("employee", msg, internal.ErrCodeInvalidReference)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
