package repository

import (
	"context"
	"testing"
	"time"

	"cryptidwatch/internal/models"
)

func TestPublicProfileDefaults(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	profiles := NewProfileRepo(db, nil, log)
	ctx := context.Background()

	// An old account with only a user row still resolves.
	user := models.User{Username: "legacy", Email: "legacy@example.com", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create bare user: %v", err)
	}

	got, err := profiles.Public(ctx, user.ID)
	if err != nil {
		t.Fatalf("public: %v", err)
	}
	if got.Username != "legacy" {
		t.Fatalf("unexpected username %q", got.Username)
	}
	wantName := "User " + itoa(user.ID)
	if got.FullName != wantName {
		t.Fatalf("expected fallback name %q, got %q", wantName, got.FullName)
	}
	if got.Badges.EliteHunter || got.Stats.TotalSightingsCount != 0 {
		t.Fatal("satellite defaults should be zeroed")
	}
}

func TestPublicProfileNotFound(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileRepo(db, nil, newTestLogger(t))
	if _, err := profiles.Public(context.Background(), 9999); err == nil {
		t.Fatal("expected not found for missing user")
	}
}

func TestProfileUpsert(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	accounts := NewAccountRepo(db, log)
	profiles := NewProfileRepo(db, nil, log)
	ctx := context.Background()

	user := seedUser(t, accounts, "editor")

	birthday := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)
	err := profiles.Upsert(ctx, user.ID, UpdateProfileInput{
		FullName: "Jess Editor",
		AboutMe:  "I chase dragons",
		Birthday: &birthday,
		Hometown: "Roswell, NM",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := profiles.Public(ctx, user.ID)
	if err != nil {
		t.Fatalf("public: %v", err)
	}
	if got.FullName != "Jess Editor" || got.Hometown != "Roswell, NM" {
		t.Fatalf("profile fields not stored: %+v", got)
	}
	if got.Birthday == nil || !got.Birthday.Equal(birthday) {
		t.Fatalf("birthday not stored: %+v", got.Birthday)
	}

	// A second upsert replaces, never duplicates.
	if err := profiles.Upsert(ctx, user.ID, UpdateProfileInput{FullName: "J. Editor"}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	var count int64
	db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected one profile row, got %d", count)
	}
}
