package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mbelyaev/taskboard/internal/models"
)

var ErrUserAlreadyExist = errors.New("user already exist")

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("reset_password_token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("email = ?", u.Email).FirstOrCreate(u)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrUserAlreadyExist
	}
	return nil
}

// SetRefreshToken overwrites the stored refresh token. A previous token
// becomes unusable as soon as this write commits.
func (r *GormRepo) SetRefreshToken(ctx context.Context, id uint, token string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("refresh_token", token).Error
}

func (r *GormRepo) ClearRefreshToken(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("refresh_token", nil).Error
}

func (r *GormRepo) SetRole(ctx context.Context, id uint, role string) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) SetPassword(ctx context.Context, id uint, passwordHash string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (r *GormRepo) SetResetToken(ctx context.Context, id uint, token string, expires time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reset_password_token":   token,
			"reset_password_expires": expires,
		}).Error
}

// ResetPassword sets the new hash and clears the reset pair in a single
// row update, so a half-applied reset is never observable.
func (r *GormRepo) ResetPassword(ctx context.Context, id uint, passwordHash string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash":          passwordHash,
			"reset_password_token":   nil,
			"reset_password_expires": nil,
		}).Error
}
