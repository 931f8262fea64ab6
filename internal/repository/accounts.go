// Package repository contains the persistence layer. Each repo wraps a
// gorm handle and exposes typed operations; handlers never touch SQL.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"cryptidwatch/internal/models"
	"cryptidwatch/pkg/logger"
	"cryptidwatch/pkg/utils"
)

// AccountRepo handles registration, authentication, and credential
// recovery.
type AccountRepo struct {
	DB  *gorm.DB
	Log *logger.Logger
}

func NewAccountRepo(db *gorm.DB, log *logger.Logger) *AccountRepo {
	return &AccountRepo{DB: db, Log: log}
}

// RegisterInput carries the validated registration payload. Password is
// the plaintext; hashing happens here so no caller can skip it.
type RegisterInput struct {
	Username         string
	Email            string
	Password         string
	FullName         string
	AboutMe          string
	Birthday         *time.Time
	SecurityQuestion string
	SecurityAnswer   string
}

// Register creates the user plus its profile, badge, and stats rows in one
// transaction. Either all four rows exist afterwards or none do.
func (r *AccountRepo) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, utils.InternalError("Failed to hash password").WithCause(err)
	}

	user := models.User{
		Username:         in.Username,
		Email:            strings.ToLower(in.Email),
		PasswordHash:     hash,
		SecurityQuestion: in.SecurityQuestion,
		SecurityAnswer:   strings.ToLower(strings.TrimSpace(in.SecurityAnswer)),
	}

	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("username = ? OR email = ?", user.Username, user.Email).
			Count(&count).Error; err != nil {
			return utils.InternalError("Failed to check existing users").WithCause(err)
		}
		if count > 0 {
			return utils.ConflictError("Username or email already taken")
		}

		if err := tx.Create(&user).Error; err != nil {
			if isUniqueViolation(err) {
				return utils.ConflictError("Username or email already taken")
			}
			return utils.InternalError("Failed to create user").WithCause(err)
		}

		profile := models.Profile{
			UserID:   user.ID,
			FullName: in.FullName,
			AboutMe:  in.AboutMe,
			Birthday: in.Birthday,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return utils.InternalError("Failed to create profile").WithCause(err)
		}
		if err := tx.Create(&models.UserBadges{UserID: user.ID}).Error; err != nil {
			return utils.InternalError("Failed to create badges").WithCause(err)
		}
		if err := tx.Create(&models.UserStats{UserID: user.ID}).Error; err != nil {
			return utils.InternalError("Failed to create stats").WithCause(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.Log.Info(ctx).WithMeta(utils.Map{"username": user.Username}).Logs("User registered")
	return &user, nil
}

// GetByEmail fetches a user by email, case-insensitively.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFoundError("User not found")
	}
	if err != nil {
		return nil, utils.InternalError("Failed to fetch user").WithCause(err)
	}
	return &user, nil
}

// GetByID fetches a user by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFoundError("User not found")
	}
	if err != nil {
		return nil, utils.InternalError("Failed to fetch user").WithCause(err)
	}
	return &user, nil
}

// Authenticate verifies credentials. Failed attempts bump a counter on the
// row; a success resets it and stamps the login time. Missing user and bad
// password are indistinguishable to the caller.
func (r *AccountRepo) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.AuthError("Invalid email or password")
	}
	if err != nil {
		return nil, utils.InternalError("Failed to fetch user").WithCause(err)
	}

	if utils.ComparePasswords(user.PasswordHash, password) != nil {
		if err := r.DB.WithContext(ctx).Model(&user).
			UpdateColumn("failed_attempts", gorm.Expr("failed_attempts + 1")).Error; err != nil {
			r.Log.Warn(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to record login attempt")
		}
		return nil, utils.AuthError("Invalid email or password")
	}

	now := time.Now()
	if err := r.DB.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"failed_attempts": 0,
		"last_login_at":   now,
	}).Error; err != nil {
		r.Log.Warn(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to stamp login time")
	}
	user.FailedAttempts = 0
	user.LastLoginAt = &now
	return &user, nil
}

// SecurityQuestion returns the recovery question for an account.
func (r *AccountRepo) SecurityQuestion(ctx context.Context, email string) (string, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user.SecurityQuestion == "" {
		return "", utils.NotFoundError("User not found")
	}
	return user.SecurityQuestion, nil
}

// VerifySecurityAnswer checks the recovery answer, case-insensitively.
func (r *AccountRepo) VerifySecurityAnswer(ctx context.Context, email, answer string) (*models.User, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.SecurityAnswer == "" ||
		user.SecurityAnswer != strings.ToLower(strings.TrimSpace(answer)) {
		return nil, utils.AuthError("Incorrect answer")
	}
	return user, nil
}

// UpdatePassword overwrites the stored hash for a user.
func (r *AccountRepo) UpdatePassword(ctx context.Context, userID uint, newPassword string) error {
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return utils.InternalError("Failed to hash password").WithCause(err)
	}
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("password_hash", hash)
	if res.Error != nil {
		return utils.InternalError("Failed to update password").WithCause(res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.NotFoundError("User not found")
	}
	r.Log.Info(ctx).WithMeta(utils.Map{"user_id": itoa(userID)}).Logs("Password updated")
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
