package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"cryptidwatch/internal/models"
	"cryptidwatch/pkg/logger"
	"cryptidwatch/pkg/utils"
)

// SightingRepo ingests and reads sighting reports.
type SightingRepo struct {
	DB    *gorm.DB
	Flags *FlagRepo
	Log   *logger.Logger
}

func NewSightingRepo(db *gorm.DB, flags *FlagRepo, log *logger.Logger) *SightingRepo {
	return &SightingRepo{DB: db, Flags: flags, Log: log}
}

// CreateSightingInput carries a validated sighting submission. ImageKeys
// are object-storage keys already uploaded, in display order.
type CreateSightingInput struct {
	UserID       uint
	CreatureID   int
	LocationName string
	Description  string
	HeightInch   float64
	WeightLb     *float64
	SightingDate time.Time
	Latitude     float64
	Longitude    float64
	ImageKeys    []string
}

var creatureStatColumns = map[int]string{
	models.CreatureGhost:   "ghost_count",
	models.CreatureBigfoot: "bigfoot_count",
	models.CreatureDragon:  "dragon_count",
	models.CreatureAlien:   "alien_count",
	models.CreatureVampire: "vampire_count",
}

// Create inserts the sighting, its image rows, and the reporter's stat
// bumps in one transaction.
func (r *SightingRepo) Create(ctx context.Context, in CreateSightingInput) (*models.Sighting, error) {
	sighting := models.Sighting{
		UserID:       in.UserID,
		CreatureID:   in.CreatureID,
		LocationName: in.LocationName,
		Description:  in.Description,
		HeightInch:   in.HeightInch,
		WeightLb:     in.WeightLb,
		SightingDate: in.SightingDate,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sighting).Error; err != nil {
			return utils.InternalError("Failed to create sighting").WithCause(err)
		}

		for i, key := range in.ImageKeys {
			img := models.SightingImage{SightingID: sighting.ID, ObjectKey: key, Position: i}
			if err := tx.Create(&img).Error; err != nil {
				return utils.InternalError("Failed to attach sighting image").WithCause(err)
			}
			sighting.Images = append(sighting.Images, img)
		}

		if err := bumpStat(tx, in.UserID, "total_sightings_count", 1); err != nil {
			return err
		}
		if col, ok := creatureStatColumns[in.CreatureID]; ok {
			var prior int64
			if err := tx.Model(&models.Sighting{}).
				Where("user_id = ? AND creature_id = ? AND id <> ?", in.UserID, in.CreatureID, sighting.ID).
				Count(&prior).Error; err != nil {
				return utils.InternalError("Failed to update stats").WithCause(err)
			}
			if prior == 0 {
				if err := bumpStat(tx, in.UserID, "unique_creature_count", 1); err != nil {
					return err
				}
			}
			if err := bumpStat(tx, in.UserID, col, 1); err != nil {
				return err
			}
		}
		if len(in.ImageKeys) > 0 {
			if err := bumpStat(tx, in.UserID, "pictures_count", len(in.ImageKeys)); err != nil {
				return err
			}
		}
		return bumpStat(tx, in.UserID, "locations_count", 1)
	})
	if err != nil {
		return nil, err
	}

	r.Log.Info(ctx).
		WithMeta(utils.Map{"sighting_id": itoa(sighting.ID), "creature": models.CreatureName(in.CreatureID)}).
		Logs("Sighting recorded")
	return &sighting, nil
}

// Get fetches one sighting with its images in position order.
func (r *SightingRepo) Get(ctx context.Context, id uint) (*models.Sighting, error) {
	var sighting models.Sighting
	err := r.DB.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&sighting, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFoundError("Sighting not found")
	}
	if err != nil {
		return nil, utils.InternalError("Failed to fetch sighting").WithCause(err)
	}
	return &sighting, nil
}

// ListByUser returns one user's sightings newest first.
func (r *SightingRepo) ListByUser(ctx context.Context, userID uint) ([]models.Sighting, error) {
	var sightings []models.Sighting
	err := r.DB.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sightings).Error
	if err != nil {
		return nil, utils.InternalError("Failed to list sightings").WithCause(err)
	}
	return sightings, nil
}

// ListVisible returns all sightings except suppressed ones, newest first.
func (r *SightingRepo) ListVisible(ctx context.Context) ([]models.Sighting, error) {
	suppressed, err := r.Flags.SuppressedSightingIDs(ctx)
	if err != nil {
		return nil, err
	}

	q := r.DB.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("created_at DESC")
	if len(suppressed) > 0 {
		q = q.Where("id NOT IN ?", suppressed)
	}

	var sightings []models.Sighting
	if err := q.Find(&sightings).Error; err != nil {
		return nil, utils.InternalError("Failed to list sightings").WithCause(err)
	}
	return sightings, nil
}

// FilterByCreatureSeason returns visible sightings of one creature whose
// sighting date falls in the given season bucket. The month bucketing runs
// in Go so it behaves identically on every database.
func (r *SightingRepo) FilterByCreatureSeason(ctx context.Context, creatureID int, season string) ([]models.Sighting, error) {
	suppressed, err := r.Flags.SuppressedSightingIDs(ctx)
	if err != nil {
		return nil, err
	}

	q := r.DB.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("creature_id = ?", creatureID).
		Order("sighting_date DESC")
	if len(suppressed) > 0 {
		q = q.Where("id NOT IN ?", suppressed)
	}

	var all []models.Sighting
	if err := q.Find(&all).Error; err != nil {
		return nil, utils.InternalError("Failed to filter sightings").WithCause(err)
	}

	season = lower(season)
	out := make([]models.Sighting, 0, len(all))
	for _, s := range all {
		if models.SeasonOf(s.SightingDate) == season {
			out = append(out, s)
		}
	}
	return out, nil
}

// CreatureAverages is the aggregate size summary for one creature.
type CreatureAverages struct {
	CreatureID    int      `json:"creature_id"`
	CreatureName  string   `json:"creature_name"`
	SightingCount int64    `json:"sighting_count"`
	AvgHeightInch float64  `json:"avg_height_inch"`
	AvgWeightLb   *float64 `json:"avg_weight_lb,omitempty"`
}

// Averages computes mean height and weight across all sightings of a
// creature. Weight is averaged over the rows that reported it.
func (r *SightingRepo) Averages(ctx context.Context, creatureID int) (*CreatureAverages, error) {
	out := CreatureAverages{
		CreatureID:   creatureID,
		CreatureName: models.CreatureName(creatureID),
	}

	err := r.DB.WithContext(ctx).Model(&models.Sighting{}).
		Where("creature_id = ?", creatureID).
		Count(&out.SightingCount).Error
	if err != nil {
		return nil, utils.InternalError("Failed to count sightings").WithCause(err)
	}
	if out.SightingCount == 0 {
		return &out, nil
	}

	var avgHeight *float64
	err = r.DB.WithContext(ctx).Model(&models.Sighting{}).
		Where("creature_id = ?", creatureID).
		Select("AVG(height_inch)").
		Scan(&avgHeight).Error
	if err != nil {
		return nil, utils.InternalError("Failed to average height").WithCause(err)
	}
	if avgHeight != nil {
		out.AvgHeightInch = *avgHeight
	}

	var avgWeight *float64
	err = r.DB.WithContext(ctx).Model(&models.Sighting{}).
		Where("creature_id = ? AND weight_lb IS NOT NULL", creatureID).
		Select("AVG(weight_lb)").
		Scan(&avgWeight).Error
	if err != nil {
		return nil, utils.InternalError("Failed to average weight").WithCause(err)
	}
	out.AvgWeightLb = avgWeight

	return &out, nil
}
