package user

import "time"

type User struct {
	ID           int64      `gorm:"primaryKey"`
	Username     string     `gorm:"column:username;size:150;uniqueIndex;not null"`
	Email        string     `gorm:"column:email;size:254;index"`
	FirstName    string     `gorm:"column:first_name;size:150"`
	LastName     string     `gorm:"column:last_name;size:150"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	IsActive     bool       `gorm:"column:is_active;not null"`
	IsStaff      bool       `gorm:"column:is_staff;not null"`
	LastLogin    *time.Time `gorm:"column:last_login"`
	DateJoined   time.Time  `gorm:"column:date_joined;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
	Profile      *Profile   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

type Profile struct {
	ID     int64  `gorm:"primaryKey"`
	UserID int64  `gorm:"column:user_id;uniqueIndex;not null"`
	Role   string `gorm:"column:role;size:10;not null"`
}

// Device is one login session holding the refresh token issued to it.
type Device struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       int64     `gorm:"column:user_id;index;not null"`
	DeviceName   string    `gorm:"column:device_name;size:255;not null"`
	RefreshToken string    `gorm:"column:refresh_token;type:text;not null"`
	TokenID      string    `gorm:"column:token_id;size:64;index"`
	ExpiresAt    time.Time `gorm:"column:expires_at;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	User         *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

type BlacklistedToken struct {
	ID        int64     `gorm:"primaryKey"`
	TokenID   string    `gorm:"column:token_id;size:64;uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;index;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
