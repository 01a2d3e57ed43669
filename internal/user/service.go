package user

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/events"
)

type RepositoryAPI interface {
	List(ctx context.Context) ([]*User, error)
	// GetByID returns nil, nil when the user does not exist.
	GetByID(ctx context.Context, id int64) (*User, error)
	UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error)
	// CreateUserWithProfile writes the user and its profile atomically.
	CreateUserWithProfile(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	Deactivate(ctx context.Context, id int64) error
}

type Service struct {
	repo       RepositoryAPI
	publisher  events.Publisher
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, bcryptCost int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		publisher:  publisher,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.UsernameTaken(ctx, dto.Username, 0)
	if err != nil {
		return nil, internal.NewInternalError("failed to check username", err)
	}
	if taken {
		return nil, internal.NewValidationFieldError("username", "A user with that username already exists.", internal.ErrCodeNotUnique)
	}

	hash, err := s.hash(dto.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username:     dto.Username,
		Email:        dto.Email,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      dto.Role() == internal.RoleAdmin,
		Profile:      Profile{Role: dto.Role()},
	}
	if err := s.repo.CreateUserWithProfile(ctx, u); err != nil {
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.publish(ctx, events.NewUserCreatedEvent(u.ID, u.Username, u.Profile.Role))
	s.logger.Info("user created", "user_id", u.ID, "role", u.Profile.Role)
	return u, nil
}

// Update applies a partial update. A role change takes effect on the user's
// next login, tokens already issued keep their role claim.
func (s *Service) Update(ctx context.Context, id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Username != nil && *dto.Username != u.Username {
		taken, err := s.repo.UsernameTaken(ctx, *dto.Username, id)
		if err != nil {
			return nil, internal.NewInternalError("failed to check username", err)
		}
		if taken {
			return nil, internal.NewValidationFieldError("username", "A user with that username already exists.", internal.ErrCodeNotUnique)
		}
		u.Username = *dto.Username
	}
	if dto.Email != nil {
		u.Email = *dto.Email
	}
	if dto.FirstName != nil {
		u.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		u.LastName = *dto.LastName
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}
	if dto.Password != nil {
		hash, err := s.hash(*dto.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if dto.Profile != nil {
		u.Profile.Role = dto.Profile.Role
		u.IsStaff = dto.Profile.Role == internal.RoleAdmin
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, internal.NewInternalError("failed to update user", err)
	}
	return u, nil
}

// Delete deactivates the account; users are never removed.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return internal.NewInternalError("failed to deactivate user", err)
	}
	s.logger.Info("user deactivated", "user_id", id)
	return nil
}

func (s *Service) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", internal.NewInternalError("failed to hash password", err)
	}
	return string(h), nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
