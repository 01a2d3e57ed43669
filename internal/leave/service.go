package leave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/common/validation"
	"github.com/frahmantamala/hr-management/internal/core/events"
)

type RepositoryAPI interface {
	List(ctx context.Context) ([]*LeaveRequest, error)
	// GetByID returns nil, nil when the request does not exist.
	GetByID(ctx context.Context, id int64) (*LeaveRequest, error)
	EmployeeExists(ctx context.Context, employeeID int64) (bool, error)
	Create(ctx context.Context, l *LeaveRequest) error
	Update(ctx context.Context, l *LeaveRequest) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) List(ctx context.Context) ([]*LeaveRequest, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list leave requests", err)
	}
	if len(list) == 0 {
		return nil, internal.NewNoRecordsError("leave requests")
	}
	return list, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*LeaveRequest, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get leave request", err)
	}
	if l == nil {
		return nil, internal.ErrLeaveRequestNotFound
	}
	return l, nil
}

// Create files a leave request. Without an explicit status it is Pending.
func (s *Service) Create(ctx context.Context, dto CreateLeaveRequestDTO) (*LeaveRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkEmployee(ctx, dto.Employee); err != nil {
		return nil, err
	}

	start, _ := validation.ParseDate(dto.StartDate)
	end, _ := validation.ParseDate(dto.EndDate)
	status := dto.Status
	if status == "" {
		status = StatusPending
	}

	l := &LeaveRequest{
		EmployeeID: dto.Employee,
		StartDate:  start,
		EndDate:    end,
		Reason:     dto.Reason,
		Status:     status,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, internal.NewInternalError("failed to create leave request", err)
	}

	s.publish(ctx, events.NewLeaveRequestedEvent(l.ID, l.EmployeeID, dto.StartDate, dto.EndDate))
	return l, nil
}

// Update applies a partial update. Any status may follow any other.
func (s *Service) Update(ctx context.Context, id int64, dto UpdateLeaveRequestDTO) (*LeaveRequest, error) {
	l, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.Employee != nil && *dto.Employee != l.EmployeeID {
		if err := s.checkEmployee(ctx, *dto.Employee); err != nil {
			return nil, err
		}
		l.EmployeeID = *dto.Employee
	}
	if dto.StartDate != nil {
		l.StartDate, _ = validation.ParseDate(*dto.StartDate)
	}
	if dto.EndDate != nil {
		l.EndDate, _ = validation.ParseDate(*dto.EndDate)
	}
	if dto.Reason != nil {
		l.Reason = *dto.Reason
	}
	previous := l.Status
	if dto.Status != nil {
		l.Status = *dto.Status
	}

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, internal.NewInternalError("failed to update leave request", err)
	}

	if previous != l.Status {
		s.publish(ctx, events.NewLeaveStatusChangedEvent(l.ID, l.EmployeeID, previous, l.Status))
		s.logger.Info("leave request status changed", "id", l.ID, "from", previous, "to", l.Status)
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internal.NewInternalError("failed to delete leave request", err)
	}
	return nil
}

func (s *Service) checkEmployee(ctx context.Context, employeeID int64) error {
	exists, err := s.repo.EmployeeExists(ctx, employeeID)
	if err != nil {
		return internal.NewInternalError("failed to check employee", err)
	}
	if !exists {
		msg := fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", employeeID)
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
