package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cryptidwatch/internal/models"
	"cryptidwatch/pkg/logger"
	rdb "cryptidwatch/pkg/redis"
	"cryptidwatch/pkg/utils"
)

const profileCacheTTL = 5 * time.Minute

// ProfileRepo assembles and updates the public profile view.
type ProfileRepo struct {
	DB    *gorm.DB
	Cache *rdb.RedisClient
	Log   *logger.Logger
}

func NewProfileRepo(db *gorm.DB, cache *rdb.RedisClient, log *logger.Logger) *ProfileRepo {
	return &ProfileRepo{DB: db, Cache: cache, Log: log}
}

// PublicProfile is the aggregate a profile read returns. Missing profile,
// badge, or stats rows degrade to placeholders instead of errors; only a
// missing user row is a 404.
type PublicProfile struct {
	UserID     uint              `json:"user_id"`
	Username   string            `json:"username"`
	FullName   string            `json:"full_name"`
	AboutMe    string            `json:"about_me"`
	Birthday   *time.Time        `json:"birthday,omitempty"`
	Hometown   string            `json:"hometown"`
	ProfilePic string            `json:"profile_pic"`
	Badges     models.UserBadges `json:"badges"`
	Stats      models.UserStats  `json:"stats"`
}

// Public builds the profile view for a user id.
func (r *ProfileRepo) Public(ctx context.Context, userID uint) (*PublicProfile, error) {
	if cached := r.cacheGet(ctx, userID); cached != nil {
		return cached, nil
	}

	var user models.User
	err := r.DB.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFoundError("User not found")
	}
	if err != nil {
		return nil, utils.InternalError("Failed to fetch user").WithCause(err)
	}

	out := PublicProfile{
		UserID:   user.ID,
		Username: user.Username,
		FullName: fmt.Sprintf("User %d", user.ID),
		Badges:   models.UserBadges{UserID: user.ID},
		Stats:    models.UserStats{UserID: user.ID},
	}

	var profile models.Profile
	if err := r.DB.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err == nil {
		if profile.FullName != "" {
			out.FullName = profile.FullName
		}
		out.AboutMe = profile.AboutMe
		out.Birthday = profile.Birthday
		out.Hometown = profile.Hometown
		out.ProfilePic = profile.ProfilePic
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.InternalError("Failed to fetch profile").WithCause(err)
	}

	var badges models.UserBadges
	if err := r.DB.WithContext(ctx).First(&badges, "user_id = ?", userID).Error; err == nil {
		out.Badges = badges
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.InternalError("Failed to fetch badges").WithCause(err)
	}

	var stats models.UserStats
	if err := r.DB.WithContext(ctx).First(&stats, "user_id = ?", userID).Error; err == nil {
		out.Stats = stats
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.InternalError("Failed to fetch stats").WithCause(err)
	}

	r.cacheSet(ctx, userID, &out)
	return &out, nil
}

// UpdateProfileInput carries the editable profile fields.
type UpdateProfileInput struct {
	FullName   string
	AboutMe    string
	Birthday   *time.Time
	Hometown   string
	ProfilePic string
}

// Upsert writes the profile row for a user, creating it if absent.
func (r *ProfileRepo) Upsert(ctx context.Context, userID uint, in UpdateProfileInput) error {
	profile := models.Profile{
		UserID:     userID,
		FullName:   in.FullName,
		AboutMe:    in.AboutMe,
		Birthday:   in.Birthday,
		Hometown:   in.Hometown,
		ProfilePic: in.ProfilePic,
	}
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"full_name", "about_me", "birthday", "hometown", "profile_pic", "updated_at",
		}),
	}).Create(&profile).Error
	if err != nil {
		return utils.InternalError("Failed to update profile").WithCause(err)
	}

	r.cacheInvalidate(ctx, userID)
	return nil
}

func profileCacheKey(userID uint) string {
	return "profile:" + itoa(userID)
}

func (r *ProfileRepo) cacheGet(ctx context.Context, userID uint) *PublicProfile {
	if r.Cache == nil {
		return nil
	}
	raw, err := r.Cache.Get(ctx, profileCacheKey(userID)).Result()
	if err != nil {
		return nil
	}
	var out PublicProfile
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return &out
}

func (r *ProfileRepo) cacheSet(ctx context.Context, userID uint, p *PublicProfile) {
	if r.Cache == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, profileCacheKey(userID), raw, profileCacheTTL).Err(); err != nil {
		r.Log.Warn(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Profile cache write failed")
	}
}

func (r *ProfileRepo) cacheInvalidate(ctx context.Context, userID uint) {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.Del(ctx, profileCacheKey(userID)).Err(); err != nil {
		r.Log.Warn(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Profile cache invalidation failed")
	}
}
