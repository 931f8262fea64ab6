package repository

import (
	"context"
	"testing"
	"time"

	"cryptidwatch/internal/models"
	"cryptidwatch/pkg/utils"
)

func TestRegisterCreatesAllRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepo(db, newTestLogger(t))

	user := seedUser(t, repo, "mothman_fan")
	if user.ID == 0 {
		t.Fatal("expected a generated user id")
	}

	var profile models.Profile
	if err := db.First(&profile, "user_id = ?", user.ID).Error; err != nil {
		t.Fatalf("profile row missing: %v", err)
	}
	var badges models.UserBadges
	if err := db.First(&badges, "user_id = ?", user.ID).Error; err != nil {
		t.Fatalf("badges row missing: %v", err)
	}
	if badges.EliteHunter || badges.BigfootAmateur {
		t.Fatal("badges should start false")
	}
	var stats models.UserStats
	if err := db.First(&stats, "user_id = ?", user.ID).Error; err != nil {
		t.Fatalf("stats row missing: %v", err)
	}
	if stats.TotalSightingsCount != 0 {
		t.Fatal("stats should start at zero")
	}
}

func TestRegisterStoresProfileFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepo(db, newTestLogger(t))

	birthday := time.Date(1988, time.February, 29, 0, 0, 0, 0, time.UTC)
	user, err := repo.Register(context.Background(), RegisterInput{
		Username: "named_user",
		Email:    "named@example.com",
		Password: "hunter2hunter2",
		FullName: "Pat Named",
		AboutMe:  "Chasing lights in the sky",
		Birthday: &birthday,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// The profile data lands in the same transaction as the user row.
	var profile models.Profile
	if err := db.First(&profile, "user_id = ?", user.ID).Error; err != nil {
		t.Fatalf("profile row missing: %v", err)
	}
	if profile.FullName != "Pat Named" || profile.AboutMe != "Chasing lights in the sky" {
		t.Fatalf("profile fields not stored: %+v", profile)
	}
	if profile.Birthday == nil || !profile.Birthday.Equal(birthday) {
		t.Fatalf("birthday not stored: %+v", profile.Birthday)
	}
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepo(db, newTestLogger(t))
	seedUser(t, repo, "mothman_fan")

	cases := []RegisterInput{
		{Username: "mothman_fan", Email: "other@example.com", Password: "hunter2hunter2"},
		{Username: "other_user", Email: "mothman_fan@example.com", Password: "hunter2hunter2"},
	}
	for _, in := range cases {
		_, err := repo.Register(context.Background(), in)
		var appErr *utils.CustomError
		if !utils.As(err, &appErr) || appErr.Code != 400 {
			t.Fatalf("expected conflict for %q/%q, got %v", in.Username, in.Email, err)
		}
	}

	// The failed attempts must not leave partial rows behind.
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 user, got %d", count)
	}
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepo(db, newTestLogger(t))
	seedUser(t, repo, "mothman_fan")

	user, err := repo.Authenticate(context.Background(), "Mothman_Fan@Example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.LastLoginAt == nil {
		t.Fatal("expected last login to be stamped")
	}

	if _, err := repo.Authenticate(context.Background(), "mothman_fan@example.com", "wrong-password"); err == nil {
		t.Fatal("expected auth error for bad password")
	}
	var fresh models.User
	db.First(&fresh, "username = ?", "mothman_fan")
	if fresh.FailedAttempts != 1 {
		t.Fatalf("expected 1 failed attempt, got %d", fresh.FailedAttempts)
	}

	// A later success resets the counter.
	if _, err := repo.Authenticate(context.Background(), "mothman_fan@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("authenticate after failure: %v", err)
	}
	db.First(&fresh, "username = ?", "mothman_fan")
	if fresh.FailedAttempts != 0 {
		t.Fatalf("expected reset counter, got %d", fresh.FailedAttempts)
	}
}

func TestSecurityAnswerFlow(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepo(db, newTestLogger(t))
	seedUser(t, repo, "mothman_fan")

	question, err := repo.SecurityQuestion(context.Background(), "mothman_fan@example.com")
	if err != nil {
		t.Fatalf("security question: %v", err)
	}
	if question != "First pet?" {
		t.Fatalf("unexpected question %q", question)
	}

	// Case-insensitive answer match.
	if _, err := repo.VerifySecurityAnswer(context.Background(), "mothman_fan@example.com", "  MOTHMAN "); err != nil {
		t.Fatalf("verify answer: %v", err)
	}
	if _, err := repo.VerifySecurityAnswer(context.Background(), "mothman_fan@example.com", "chupacabra"); err == nil {
		t.Fatal("expected auth error for wrong answer")
	}
}

func TestUpdatePassword(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepo(db, newTestLogger(t))
	user := seedUser(t, repo, "mothman_fan")

	if err := repo.UpdatePassword(context.Background(), user.ID, "newpassword123"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	if _, err := repo.Authenticate(context.Background(), user.Email, "newpassword123"); err != nil {
		t.Fatalf("authenticate with new password: %v", err)
	}
	if _, err := repo.Authenticate(context.Background(), user.Email, "hunter2hunter2"); err == nil {
		t.Fatal("old password should no longer work")
	}

	if err := repo.UpdatePassword(context.Background(), 9999, "whatever12345"); err == nil {
		t.Fatal("expected not found for unknown user")
	}
}
