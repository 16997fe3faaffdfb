package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CoderHarshaVardhan/playX/internal/models"
	appErr "github.com/CoderHarshaVardhan/playX/pkg/errors"
)

type UserRepository interface {
	BaseRepository[models.User]
	GetByEmail(ctx context.Context, email string, dest *models.User) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
	// UpdateProfile writes only the profile columns of u.
	UpdateProfile(ctx context.Context, u *models.User) error
}

type userRepository struct {
	BaseRepository[models.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository[models.User](db, "user"), db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(dest).Error; err != nil {
		return notFoundOr(err, "user", "get user by email failed")
	}
	return nil
}

func (r *userRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_verified", true)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "verify user failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "user not found")
	}
	return nil
}

var profileColumns = []string{
	"gender", "age", "preferred_sports", "skill_level", "bio",
	"location_lng", "location_lat", "location_address", "profile_completed",
}

func (r *userRepository) UpdateProfile(ctx context.Context, u *models.User) error {
	res := r.db.WithContext(ctx).Model(u).Select(profileColumns).Updates(u)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "update profile failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "user not found")
	}
	return nil
}
