package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CoderHarshaVardhan/playX/internal/models"
	appErr "github.com/CoderHarshaVardhan/playX/pkg/errors"
)

type VenueRepository interface {
	BaseRepository[models.Venue]
	List(ctx context.Context, limit int) ([]models.Venue, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// ReplaceAll deletes every venue and inserts vs in one transaction.
	ReplaceAll(ctx context.Context, vs []models.Venue) error
	DeleteAll(ctx context.Context) (int64, error)
}

type venueRepository struct {
	BaseRepository[models.Venue]
	db *gorm.DB
}

func NewVenueRepository(db *gorm.DB) VenueRepository {
	return &venueRepository{BaseRepository: NewBaseRepository[models.Venue](db, "venue"), db: db}
}

func (r *venueRepository) List(ctx context.Context, limit int) ([]models.Venue, error) {
	var out []models.Venue
	if err := r.db.WithContext(ctx).Order("name ASC").Limit(limit).Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list venues failed")
	}
	return out, nil
}

func (r *venueRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Venue{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, appErr.Wrap(err, appErr.CodeInternal, "lookup venue failed")
	}
	return n > 0, nil
}

func (r *venueRepository) ReplaceAll(ctx context.Context, vs []models.Venue) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteAllVenues(tx); err != nil {
			return err
		}
		if len(vs) == 0 {
			return nil
		}
		if err := tx.Create(&vs).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "insert venues failed")
		}
		return nil
	})
}

func (r *venueRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Venue{})
	if res.Error != nil {
		return 0, appErr.Wrap(res.Error, appErr.CodeInternal, "delete venues failed")
	}
	return res.RowsAffected, nil
}

func deleteAllVenues(tx *gorm.DB) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Venue{}).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "delete venues failed")
	}
	return nil
}
