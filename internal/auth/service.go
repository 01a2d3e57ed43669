package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/events"
)

type RepositoryAPI interface {
	// Account lookups return nil, nil when nothing matches.
	GetAccountByUsername(ctx context.Context, username string) (*Account, error)
	GetAccountByID(ctx context.Context, id int64) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	TouchLastLogin(ctx context.Context, userID int64, at time.Time) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error

	CreateDevice(ctx context.Context, device *Device) error
	GetDevice(ctx context.Context, id, userID int64) (*Device, error)
	ListDevices(ctx context.Context, userID int64) ([]*Device, error)
	DeleteDevice(ctx context.Context, id int64) error
	DeleteDevicesByTokenID(ctx context.Context, tokenID string) error
}

// ResetMailer delivers password reset links.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}

// Service is the main auth service with dependencies
type Service struct {
	repo        RepositoryAPI
	tokens      TokenGenerator
	blacklist   TokenBlacklist
	resetTokens *PasswordResetTokens
	limiter     LoginLimiter
	mailer      ResetMailer
	publisher   events.Publisher
	resetURL    string
	bcryptCost  int
	logger      *slog.Logger
}

type Option func(*Service)

func WithLoginLimiter(l LoginLimiter) Option {
	return func(s *Service) { s.limiter = l }
}

func WithMailer(m ResetMailer) Option {
	return func(s *Service) { s.mailer = m }
}

func WithEventPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithResetURL(url string) Option {
	return func(s *Service) { s.resetURL = url }
}

func WithBCryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

// NewService creates a new auth service
func NewService(repo RepositoryAPI, tokens TokenGenerator, blacklist TokenBlacklist, resetTokens *PasswordResetTokens, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:        repo,
		tokens:      tokens,
		blacklist:   blacklist,
		resetTokens: resetTokens,
		resetURL:    "http://localhost:8000/reset-password",
		bcryptCost:  bcrypt.DefaultCost,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks credentials, issues a token pair and records the session as
// a device.
func (s *Service) Login(ctx context.Context, dto LoginDTO, clientIP string) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	key := loginKey(dto.Username, clientIP)
	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, key)
		if err != nil {
			s.logger.Warn("login limiter unavailable", "error", err)
		} else if !allowed {
			s.logger.Warn("login throttled", "username", dto.Username, "client_ip", clientIP)
			return AuthTokens{}, internal.ErrTooManyAttempts
		}
	}

	acc, err := s.repo.GetAccountByUsername(ctx, dto.Username)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to load account", err)
	}
	if acc == nil || bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(dto.Password)) != nil {
		s.recordFailure(ctx, key)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}
	if !acc.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	access, err := s.tokens.GenerateAccessToken(acc.ID, acc.Role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue access token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(acc.ID, acc.Role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue refresh token", err)
	}

	deviceName := strings.TrimSpace(dto.DeviceName)
	if deviceName == "" {
		deviceName = defaultDeviceName
	}
	device := &Device{
		UserID:       acc.ID,
		DeviceName:   deviceName,
		RefreshToken: refresh.Token,
		TokenID:      refresh.TokenID,
		ExpiresAt:    refresh.ExpiresAt,
	}
	if err := s.repo.CreateDevice(ctx, device); err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to record device", err)
	}

	if err := s.repo.TouchLastLogin(ctx, acc.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to update last login", "user_id", acc.ID, "error", err)
	}
	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, key); err != nil {
			s.logger.Warn("failed to reset login attempts", "error", err)
		}
	}

	s.logger.Info("user logged in", "user_id", acc.ID, "device_id", device.ID, "role", acc.Role)

	return AuthTokens{Access: access.Token, Refresh: refresh.Token}, nil
}

func (s *Service) recordFailure(ctx context.Context, key string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, key); err != nil {
		s.logger.Warn("failed to record login failure", "error", err)
	}
}

// Refresh exchanges a valid, non-revoked refresh token for a new access token.
// The role claim is carried over from the refresh token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (AccessToken, error) {
	if err := (RefreshTokenDTO{Refresh: refreshToken}).Validate(); err != nil {
		return AccessToken{}, err
	}

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AccessToken{}, err
	}

	revoked, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return AccessToken{}, internal.NewInternalError("failed to check token blacklist", err)
	}
	if revoked {
		s.logger.Warn("refresh with blacklisted token", "user_id", claims.UserID, "jti", claims.ID)
		return AccessToken{}, internal.ErrInvalidToken
	}

	access, err := s.tokens.GenerateAccessToken(claims.UserID, claims.Role)
	if err != nil {
		return AccessToken{}, internal.NewInternalError("failed to issue access token", err)
	}

	return AccessToken{Access: access.Token}, nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateAccessToken(tokenString)
}

// Logout revokes one refresh token owned by the caller and drops the device
// that held it.
func (s *Service) Logout(ctx context.Context, principal internal.Principal, refreshToken string) error {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil || claims.UserID != principal.UserID {
		return internal.NewValidationError("Invalid refresh token", internal.ErrCodeInvalidToken)
	}

	if err := s.blacklist.Add(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return internal.NewInternalError("failed to blacklist token", err)
	}
	if err := s.repo.DeleteDevicesByTokenID(ctx, claims.ID); err != nil {
		return internal.NewInternalError("failed to remove device", err)
	}

	s.logger.Info("user logged out", "user_id", principal.UserID, "jti", claims.ID)
	return nil
}

// LogoutDevice ends the session of one of the caller's devices.
func (s *Service) LogoutDevice(ctx context.Context, principal internal.Principal, deviceID int64) error {
	device, err := s.repo.GetDevice(ctx, deviceID, principal.UserID)
	if err != nil {
		return internal.NewInternalError("failed to load device", err)
	}
	if device == nil {
		return internal.ErrDeviceNotFound
	}

	if err := s.blacklist.Add(ctx, device.TokenID, device.ExpiresAt); err != nil {
		return internal.NewInternalError("failed to blacklist token", err)
	}
	if err := s.repo.DeleteDevice(ctx, device.ID); err != nil {
		return internal.NewInternalError("failed to remove device", err)
	}

	s.publish(ctx, events.NewDeviceLoggedOutEvent(principal.UserID, device.ID))
	s.logger.Info("device logged out", "user_id", principal.UserID, "device_id", device.ID)
	return nil
}

func (s *Service) ActiveDevices(ctx context.Context, principal internal.Principal) ([]ActiveDevice, error) {
	devices, err := s.repo.ListDevices(ctx, principal.UserID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list devices", err)
	}
	out := make([]ActiveDevice, 0, len(devices))
	for _, d := range devices {
		out = append(out, d.ToActive())
	}
	return out, nil
}

// RequestPasswordReset mails a reset link to the account holding email.
// Delivery runs in the background; its failure is only logged.
func (s *Service) RequestPasswordReset(ctx context.Context, dto PasswordResetRequestDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	acc, err := s.repo.GetAccountByEmail(ctx, dto.Email)
	if err != nil {
		return internal.NewInternalError("failed to load account", err)
	}
	if acc == nil {
		return internal.ErrUserNotFound
	}

	link := ResetLink(s.resetURL, EncodeUID(acc.ID), s.resetTokens.Make(acc))

	if s.mailer != nil {
		mailCtx := context.WithoutCancel(ctx)
		go func(to string) {
			if err := s.mailer.SendPasswordReset(mailCtx, to, link); err != nil {
				s.logger.Error("password reset mail failed", "user_id", acc.ID, "error", err)
			}
		}(acc.Email)
	} else {
		s.logger.Warn("no mailer configured, password reset link not delivered", "user_id", acc.ID)
	}

	s.publish(ctx, events.NewPasswordResetRequestedEvent(acc.ID))
	return nil
}

func (s *Service) ConfirmPasswordReset(ctx context.Context, uid, token string, dto PasswordResetConfirmDTO) error {
	userID, err := DecodeUID(uid)
	if err != nil {
		return internal.ErrInvalidOrExpiredReset
	}

	acc, err := s.repo.GetAccountByID(ctx, userID)
	if err != nil {
		return internal.NewInternalError("failed to load account", err)
	}
	if acc == nil || !s.resetTokens.Check(acc, token) {
		return internal.ErrInvalidOrExpiredReset
	}

	if err := dto.Validate(); err != nil {
		return err
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}
	if err := s.repo.UpdatePassword(ctx, acc.ID, hash); err != nil {
		return internal.NewInternalError("failed to update password", err)
	}

	s.logger.Info("password reset completed", "user_id", acc.ID)
	return nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
