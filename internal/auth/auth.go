package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	userDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/user"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	defaultDeviceName = "Unknown device"
)

// Account is the credential view of a user the auth service works with.
type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	Role         string
	LastLogin    *time.Time
}

// Device is one login session of a user.
type Device struct {
	ID           int64
	UserID       int64
	DeviceName   string
	RefreshToken string
	TokenID      string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

type ActiveDevice struct {
	ID         int64     `json:"id"`
	DeviceName string    `json:"device_name"`
	CreatedAt  time.Time `json:"created_at"`
}

type AuthTokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type AccessToken struct {
	Access string `json:"access"`
}

// Claims represents JWT token claims. Role is copied from the user's profile
// when the token is issued.
type Claims struct {
	UserID    int64  `json:"user_id"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// IssuedToken is a signed token together with the claims it carries.
type IssuedToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

func ToDeviceDataModel(d *Device) *userDatamodel.Device {
	return &userDatamodel.Device{
		ID:           d.ID,
		UserID:       d.UserID,
		DeviceName:   d.DeviceName,
		RefreshToken: d.RefreshToken,
		TokenID:      d.TokenID,
		ExpiresAt:    d.ExpiresAt,
		CreatedAt:    d.CreatedAt,
	}
}

func FromDeviceDataModel(d *userDatamodel.Device) *Device {
	return &Device{
		ID:           d.ID,
		UserID:       d.UserID,
		DeviceName:   d.DeviceName,
		RefreshToken: d.RefreshToken,
		TokenID:      d.TokenID,
		ExpiresAt:    d.ExpiresAt,
		CreatedAt:    d.CreatedAt,
	}
}

func (d *Device) ToActive() ActiveDevice {
	return ActiveDevice{ID: d.ID, DeviceName: d.DeviceName, CreatedAt: d.CreatedAt}
}
