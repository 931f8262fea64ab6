package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"cryptidwatch/internal/models"
	"cryptidwatch/pkg/logger"
	rdb "cryptidwatch/pkg/redis"
	"cryptidwatch/pkg/utils"
)

const (
	suppressedCacheKey = "suppressed_sightings"
	suppressedCacheTTL = time.Minute
)

// FlagRepo stores moderation flags and computes the suppression set.
type FlagRepo struct {
	DB    *gorm.DB
	Cache *rdb.RedisClient
	Log   *logger.Logger
}

func NewFlagRepo(db *gorm.DB, cache *rdb.RedisClient, log *logger.Logger) *FlagRepo {
	return &FlagRepo{DB: db, Cache: cache, Log: log}
}

// FlagInput carries a validated flag submission.
type FlagInput struct {
	ContentID    uint
	ContentType  string
	FlaggedBy    uint
	ReasonCode   string
	CustomReason string
}

// Create records a flag in pending status. The flagged content must exist
// for its declared type.
func (r *FlagRepo) Create(ctx context.Context, in FlagInput) (*models.ContentFlag, error) {
	var err error
	switch in.ContentType {
	case models.FlagContentSighting:
		err = r.DB.WithContext(ctx).First(&models.Sighting{}, in.ContentID).Error
	case models.FlagContentComment:
		err = r.DB.WithContext(ctx).First(&models.Comment{}, in.ContentID).Error
	default:
		return nil, utils.ValidationError("Unknown content type")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFoundError("Flagged content not found")
	}
	if err != nil {
		return nil, utils.InternalError("Failed to check flagged content").WithCause(err)
	}

	flag := models.ContentFlag{
		ContentID:       in.ContentID,
		ContentType:     in.ContentType,
		FlaggedByUserID: in.FlaggedBy,
		ReasonCode:      in.ReasonCode,
		CustomReason:    in.CustomReason,
		Status:          models.FlagStatusPending,
	}
	if err := r.DB.WithContext(ctx).Create(&flag).Error; err != nil {
		return nil, utils.InternalError("Failed to create flag").WithCause(err)
	}

	// A new flag can push a sighting over the threshold; drop the cached set.
	if r.Cache != nil && in.ContentType == models.FlagContentSighting {
		if err := r.Cache.Del(ctx, suppressedCacheKey).Err(); err != nil {
			r.Log.Warn(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Suppression cache invalidation failed")
		}
	}

	r.Log.Info(ctx).
		WithMeta(utils.Map{"content_type": in.ContentType, "content_id": itoa(in.ContentID)}).
		Logs("Content flagged")
	return &flag, nil
}

// List returns every flag, newest first.
func (r *FlagRepo) List(ctx context.Context) ([]models.ContentFlag, error) {
	var flags []models.ContentFlag
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&flags).Error
	if err != nil {
		return nil, utils.InternalError("Failed to list flags").WithCause(err)
	}
	return flags, nil
}

// SuppressedSightingIDs returns the ids of sightings whose flag count has
// reached the suppression threshold. The set is cached briefly since every
// listing read needs it.
func (r *FlagRepo) SuppressedSightingIDs(ctx context.Context) ([]uint, error) {
	if ids, ok := r.cachedSuppressed(ctx); ok {
		return ids, nil
	}

	var ids []uint
	err := r.DB.WithContext(ctx).
		Model(&models.ContentFlag{}).
		Select("content_id").
		Where("content_type = ?", models.FlagContentSighting).
		Group("content_id").
		Having("COUNT(*) >= ?", models.SuppressionThreshold).
		Scan(&ids).Error
	if err != nil {
		return nil, utils.InternalError("Failed to compute suppressed sightings").WithCause(err)
	}

	r.cacheSuppressed(ctx, ids)
	return ids, nil
}

func (r *FlagRepo) cachedSuppressed(ctx context.Context) ([]uint, bool) {
	if r.Cache == nil {
		return nil, false
	}
	raw, err := r.Cache.Get(ctx, suppressedCacheKey).Result()
	if err != nil {
		return nil, false
	}
	var ids []uint
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, false
	}
	return ids, true
}

func (r *FlagRepo) cacheSuppressed(ctx context.Context, ids []uint) {
	if r.Cache == nil {
		return
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, suppressedCacheKey, raw, suppressedCacheTTL).Err(); err != nil {
		r.Log.Warn(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Suppression cache write failed")
	}
}
