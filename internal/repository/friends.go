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

// Toggle outcomes.
const (
	FriendAdded   = "added"
	FriendRemoved = "removed"
)

// FriendRepo manages the directed friendship edges.
type FriendRepo struct {
	DB  *gorm.DB
	Log *logger.Logger
}

func NewFriendRepo(db *gorm.DB, log *logger.Logger) *FriendRepo {
	return &FriendRepo{DB: db, Log: log}
}

// FriendEntry is one outbound edge with the friend's username resolved.
type FriendEntry struct {
	FriendID uint   `json:"friend_id"`
	Username string `json:"username"`
}

// List returns the outbound friends of a user.
func (r *FriendRepo) List(ctx context.Context, userID uint) ([]FriendEntry, error) {
	var out []FriendEntry
	err := r.DB.WithContext(ctx).
		Table("friendships").
		Select("friendships.friend_id, users.username").
		Joins("JOIN users ON users.id = friendships.friend_id").
		Where("friendships.user_id = ?", userID).
		Order("friendships.created_at").
		Scan(&out).Error
	if err != nil {
		return nil, utils.InternalError("Failed to list friends").WithCause(err)
	}
	return out, nil
}

// Toggle flips the edge from userID to friendID: removes it when present,
// creates it otherwise. Self-edges are rejected and the target must exist.
// The stats counter moves in the same transaction as the edge.
func (r *FriendRepo) Toggle(ctx context.Context, userID, friendID uint) (string, error) {
	if userID == friendID {
		return "", utils.ValidationError("Cannot friend yourself")
	}

	var friend models.User
	err := r.DB.WithContext(ctx).First(&friend, friendID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", utils.NotFoundError("User not found")
	}
	if err != nil {
		return "", utils.InternalError("Failed to fetch user").WithCause(err)
	}

	var action string
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND friend_id = ?", userID, friendID).
			Delete(&models.Friendship{})
		if res.Error != nil {
			return utils.InternalError("Failed to toggle friendship").WithCause(res.Error)
		}
		if res.RowsAffected > 0 {
			action = FriendRemoved
			return bumpStat(tx, userID, "total_friends", -1)
		}

		edge := models.Friendship{UserID: userID, FriendID: friendID}
		res = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge)
		if res.Error != nil {
			return utils.InternalError("Failed to toggle friendship").WithCause(res.Error)
		}
		action = FriendAdded
		if res.RowsAffected > 0 {
			return bumpStat(tx, userID, "total_friends", 1)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	r.Log.Info(ctx).
		WithMeta(utils.Map{"user_id": itoa(userID), "friend_id": itoa(friendID), "action": action}).
		Logs("Friendship toggled")
	return action, nil
}

// bumpStat adjusts one counter column on user_stats, clamping at zero.
func bumpStat(tx *gorm.DB, userID uint, column string, delta int) error {
	expr := column + " + ?"
	if delta < 0 {
		expr = "CASE WHEN " + column + " + ? < 0 THEN 0 ELSE " + column + " + ? END"
	}
	var err error
	if delta < 0 {
		err = tx.Model(&models.UserStats{}).Where("user_id = ?", userID).
			UpdateColumn(column, gorm.Expr(expr, delta, delta)).Error
	} else {
		err = tx.Model(&models.UserStats{}).Where("user_id = ?", userID).
			UpdateColumn(column, gorm.Expr(expr, delta)).Error
	}
	if err != nil {
		return utils.InternalError("Failed to update stats").WithCause(err)
	}
	return nil
}
