package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/events"
)

type RepositoryAPI interface {
	List(ctx context.Context) ([]*Employee, error)
	// GetByID returns nil, nil when the employee does not exist.
	GetByID(ctx context.Context, id int64) (*Employee, error)
	// TakenFields reports which of employee_id, employee_nin and email are
	// already used by an employee other than excludeID.
	TakenFields(ctx context.Context, e *Employee, excludeID int64) ([]string, error)
	Create(ctx context.Context, e *Employee) error
	Update(ctx context.Context, e *Employee) error
	// Delete removes the employee with its attendance and leave rows.
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

var uniqueMessages = map[string]string{
	"employee_id":  "employee with this employee id already exists.",
	"employee_nin": "employee with this employee nin already exists.",
	"email":        "employee with this email already exists.",
}

func (s *Service) List(ctx context.Context) ([]*Employee, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list employees", err)
	}
	if len(list) == 0 {
		return nil, internal.NewNoRecordsError("employees")
	}
	return list, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Employee, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get employee", err)
	}
	if e == nil {
		return nil, internal.ErrEmployeeNotFound
	}
	return e, nil
}

// Create onboards an employee. date_joined is the current day.
func (s *Service) Create(ctx context.Context, dto EmployeeDTO) (*Employee, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	e := &Employee{
		EmployeeID:  dto.EmployeeID,
		EmployeeNIN: dto.EmployeeNIN,
		FullName:    dto.FullName,
		Email:       dto.Email,
		JobTitle:    dto.JobTitle,
		PhoneNumber: dto.PhoneNumber,
		DateJoined:  time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}

	if err := s.checkUnique(ctx, e, 0); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, s.writeError("create", err)
	}

	s.publish(ctx, events.NewEmployeeOnboardedEvent(e.ID, e.EmployeeID, e.FullName, e.Email))
	s.logger.Info("employee onboarded", "id", e.ID, "employee_id", e.EmployeeID)
	return e, nil
}

// Update replaces every writable field of the employee.
func (s *Service) Update(ctx context.Context, id int64, dto EmployeeDTO) (*Employee, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e.EmployeeID = dto.EmployeeID
	e.EmployeeNIN = dto.EmployeeNIN
	e.FullName = dto.FullName
	e.Email = dto.Email
	e.JobTitle = dto.JobTitle
	e.PhoneNumber = dto.PhoneNumber

	if err := s.checkUnique(ctx, e, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, s.writeError("update", err)
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internal.NewInternalError("failed to delete employee", err)
	}
	s.publish(ctx, events.NewEmployeeDeletedEvent(id))
	s.logger.Info("employee deleted", "id", id)
	return nil
}

func (s *Service) checkUnique(ctx context.Context, e *Employee, excludeID int64) error {
	taken, err := s.repo.TakenFields(ctx, e, excludeID)
	if err != nil {
		return internal.NewInternalError("failed to check employee uniqueness", err)
	}
	if len(taken) == 0 {
		return nil
	}
	errs := make([]error, 0, len(taken))
	for _, field := range taken {
		errs = append(errs, internal.NewValidationFieldError(field, uniqueMessages[field], internal.ErrCodeNotUnique))
	}
	return internal.MergeValidationErrors(errs...)
}

// writeError turns a unique violation that slipped past checkUnique (a
// concurrent insert) into a validation failure.
func (s *Service) writeError(op string, err error) error {
	if errors.Is(err, ErrDuplicate) {
		return internal.NewValidationError("employee with these unique fields already exists.", internal.ErrCodeNotUnique)
	}
	return internal.NewInternalError(fmt.Sprintf("failed to %s employee", op), err)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
