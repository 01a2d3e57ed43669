package auth

import (
	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	DeviceName string `json:"device_name"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	Refresh string `json:"refresh"`
}

// LogoutDTO selects which session to end: a device by id, or the session
// holding the given refresh token.
type LogoutDTO struct {
	DeviceID *int64 `json:"device_id"`
	Refresh  string `json:"refresh"`
}

type PasswordResetRequestDTO struct {
	Email string `json:"email"`
}

type PasswordResetConfirmDTO struct {
	Password string `json:"password"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MaxLength(150)
	v.Field("password", d.Password).Required()
	v.Field("device_name", d.DeviceName).MaxLength(255)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d RefreshTokenDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("refresh", d.Refresh).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d LogoutDTO) Validate() error {
	if d.DeviceID == nil && d.Refresh == "" {
		return internal.NewValidationFieldError("device_id", "Either device_id or refresh is required.", internal.ErrCodeRequired)
	}
	if d.DeviceID != nil && *d.DeviceID <= 0 {
		return internal.NewValidationFieldError("device_id", "A valid integer is required.", internal.ErrCodeInvalidID)
	}
	return nil
}

func (d PasswordResetRequestDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d PasswordResetConfirmDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("password", d.Password).Required().MinLength(8).MaxLength(72)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
