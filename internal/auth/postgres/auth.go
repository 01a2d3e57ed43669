package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/auth"
	userDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.RepositoryAPI {
	return &Repository{
		db: db,
	}
}

func (r *Repository) findAccount(ctx context.Context, query string, args ...interface{}) (*auth.Account, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Preload("Profile").Where(query, args...).Order("id").First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toAccount(&u), nil
}

func (r *Repository) GetAccountByUsername(ctx context.Context, username string) (*auth.Account, error) {
	return r.findAccount(ctx, "username = ?", username)
}

func (r *Repository) GetAccountByID(ctx context.Context, id int64) (*auth.Account, error) {
	return r.findAccount(ctx, "id = ?", id)
}

func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*auth.Account, error) {
	return r.findAccount(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *Repository) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Update("last_login", at).Error
}

func (r *Repository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash).Error
}

func (r *Repository) CreateDevice(ctx context.Context, device *auth.Device) error {
	model := auth.ToDeviceDataModel(device)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	device.ID = model.ID
	device.CreatedAt = model.CreatedAt
	return nil
}

func (r *Repository) GetDevice(ctx context.Context, id, userID int64) (*auth.Device, error) {
	var d userDatamodel.Device
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return auth.FromDeviceDataModel(&d), nil
}

func (r *Repository) ListDevices(ctx context.Context, userID int64) ([]*auth.Device, error) {
	var rows []userDatamodel.Device
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*auth.Device, 0, len(rows))
	for i := range rows {
		out = append(out, auth.FromDeviceDataModel(&rows[i]))
	}
	return out, nil
}

func (r *Repository) DeleteDevice(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&userDatamodel.Device{}, id).Error
}

func (r *Repository) DeleteDevicesByTokenID(ctx context.Context, tokenID string) error {
	return r.db.WithContext(ctx).Where("token_id = ?", tokenID).Delete(&userDatamodel.Device{}).Error
}

func toAccount(u *userDatamodel.User) *auth.Account {
	role := internal.RoleEmployee
	if u.Profile != nil && u.Profile.Role != "" {
		role = u.Profile.Role
	}
	return &auth.Account{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		Role:         role,
		LastLogin:    u.LastLogin,
	}
}

// DatabaseBlacklist keeps revoked token ids in the blacklisted_tokens table.
type DatabaseBlacklist struct {
	db *gorm.DB
}

func NewDatabaseBlacklist(db *gorm.DB) *DatabaseBlacklist {
	return &DatabaseBlacklist{db: db}
}

func (b *DatabaseBlacklist) Add(ctx context.Context, tokenID string, expiresAt time.Time) error {
	row := &userDatamodel.BlacklistedToken{TokenID: tokenID, ExpiresAt: expiresAt}
	return b.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token_id"}}, DoNothing: true}).
		Create(row).Error
}

func (b *DatabaseBlacklist) Contains(ctx context.Context, tokenID string) (bool, error) {
	var count int64
	err := b.db.WithContext(ctx).Model(&userDatamodel.BlacklistedToken{}).
		Where("token_id = ?", tokenID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PurgeExpired drops entries whose tokens can no longer be presented.
func (b *DatabaseBlacklist) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := b.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&userDatamodel.BlacklistedToken{})
	return res.RowsAffected, res.Error
}
