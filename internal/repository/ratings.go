package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cryptidwatch/internal/models"
	"cryptidwatch/pkg/logger"
	"cryptidwatch/pkg/utils"
)

// RatingRepo stores per-user 1-5 ratings of sightings.
type RatingRepo struct {
	DB  *gorm.DB
	Log *logger.Logger
}

func NewRatingRepo(db *gorm.DB, log *logger.Logger) *RatingRepo {
	return &RatingRepo{DB: db, Log: log}
}

// Get returns the caller's rating of a sighting, or nil when unrated.
func (r *RatingRepo) Get(ctx context.Context, sightingID, userID uint) (*models.Rating, error) {
	var rating models.Rating
	err := r.DB.WithContext(ctx).
		Where("sighting_id = ? AND user_id = ?", sightingID, userID).
		First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.InternalError("Failed to fetch rating").WithCause(err)
	}
	return &rating, nil
}

// Upsert writes the caller's rating, replacing any earlier value so one
// row per (sighting, user) always holds. The sighting owner's average
// rating stat is recomputed afterwards.
func (r *RatingRepo) Upsert(ctx context.Context, sightingID, userID uint, value int) (*models.Rating, error) {
	if value < 1 || value > 5 {
		return nil, utils.ValidationError("Rating must be between 1 and 5")
	}

	var sighting models.Sighting
	err := r.DB.WithContext(ctx).First(&sighting, sightingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFoundError("Sighting not found")
	}
	if err != nil {
		return nil, utils.InternalError("Failed to fetch sighting").WithCause(err)
	}

	rating := models.Rating{SightingID: sightingID, UserID: userID, Value: value}
	err = r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sighting_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rating).Error
	if err != nil {
		return nil, utils.InternalError("Failed to save rating").WithCause(err)
	}

	if err := r.refreshOwnerAverage(ctx, sighting.UserID); err != nil {
		r.Log.Warn(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to refresh owner average rating")
	}
	return &rating, nil
}

// AverageForSighting returns the mean rating of one sighting and how many
// ratings it has. Zero ratings yields (0, 0).
func (r *RatingRepo) AverageForSighting(ctx context.Context, sightingID uint) (float64, int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Rating{}).
		Where("sighting_id = ?", sightingID).
		Count(&count).Error
	if err != nil {
		return 0, 0, utils.InternalError("Failed to count ratings").WithCause(err)
	}
	if count == 0 {
		return 0, 0, nil
	}

	var avg *float64
	err = r.DB.WithContext(ctx).Model(&models.Rating{}).
		Where("sighting_id = ?", sightingID).
		Select("AVG(value)").
		Scan(&avg).Error
	if err != nil {
		return 0, 0, utils.InternalError("Failed to average ratings").WithCause(err)
	}
	if avg == nil {
		return 0, count, nil
	}
	return *avg, count, nil
}

// refreshOwnerAverage recomputes the mean rating across all of one user's
// sightings and stores it on their stats row.
func (r *RatingRepo) refreshOwnerAverage(ctx context.Context, ownerID uint) error {
	var avg *float64
	err := r.DB.WithContext(ctx).
		Table("ratings").
		Joins("JOIN sightings ON sightings.id = ratings.sighting_id").
		Where("sightings.user_id = ?", ownerID).
		Select("AVG(ratings.value)").
		Scan(&avg).Error
	if err != nil {
		return err
	}

	value := 0.0
	if avg != nil {
		value = *avg
	}
	return r.DB.WithContext(ctx).Model(&models.UserStats{}).
		Where("user_id = ?", ownerID).
		UpdateColumn("user_avg_rating", value).Error
}
