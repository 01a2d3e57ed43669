package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	userDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/user"
	"github.com/frahmantamala/hr-management/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	var rows []userDatamodel.User
	if err := r.db.WithContext(ctx).Preload("Profile").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*user.User, 0, len(rows))
	for i := range rows {
		out = append(out, user.FromDataModel(&rows[i]))
	}
	return out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).Preload("Profile").First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *UserRepository) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("username = ?", username)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) CreateUserWithProfile(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := user.ToDataModel(u)
		if err := tx.Omit("Profile").Create(row).Error; err != nil {
			return err
		}
		profile := &userDatamodel.Profile{UserID: row.ID, Role: u.Profile.Role}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		u.ID = row.ID
		u.DateJoined = row.DateJoined
		return nil
	})
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&userDatamodel.User{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
			"username":      u.Username,
			"email":         u.Email,
			"first_name":    u.FirstName,
			"last_name":     u.LastName,
			"password_hash": u.PasswordHash,
			"is_active":     u.IsActive,
			"is_staff":      u.IsStaff,
		}).Error
		if err != nil {
			return err
		}

		var profile userDatamodel.Profile
		err = tx.Where("user_id = ?", u.ID).First(&profile).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&userDatamodel.Profile{UserID: u.ID, Role: u.Profile.Role}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&profile).Update("role", u.Profile.Role).Error
	})
}

func (r *UserRepository) Deactivate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
