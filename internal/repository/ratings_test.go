package repository

import (
	"context"
	"testing"
	"time"

	"cryptidwatch/internal/models"
)

func TestRatingUpsertKeepsOneRow(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	accounts := NewAccountRepo(db, log)
	sightings := NewSightingRepo(db, NewFlagRepo(db, nil, log), log)
	ratings := NewRatingRepo(db, log)
	ctx := context.Background()

	reporter := seedUser(t, accounts, "reporter")
	rater := seedUser(t, accounts, "rater")
	s := seedSighting(t, sightings, reporter.ID, models.CreatureGhost, time.Now())

	first, err := ratings.Upsert(ctx, s.ID, rater.ID, 3)
	if err != nil {
		t.Fatalf("first rating: %v", err)
	}
	if first.Value != 3 {
		t.Fatalf("expected value 3, got %d", first.Value)
	}

	if _, err := ratings.Upsert(ctx, s.ID, rater.ID, 5); err != nil {
		t.Fatalf("second rating: %v", err)
	}

	var count int64
	db.Model(&models.Rating{}).Where("sighting_id = ? AND user_id = ?", s.ID, rater.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected a single rating row, got %d", count)
	}

	got, err := ratings.Get(ctx, s.ID, rater.ID)
	if err != nil {
		t.Fatalf("get rating: %v", err)
	}
	if got == nil || got.Value != 5 {
		t.Fatalf("expected replaced value 5, got %+v", got)
	}

	// The owner's average stat follows the latest values.
	var stats models.UserStats
	db.First(&stats, "user_id = ?", reporter.ID)
	if stats.UserAvgRating != 5 {
		t.Fatalf("expected owner avg 5, got %v", stats.UserAvgRating)
	}
}

func TestRatingBounds(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	accounts := NewAccountRepo(db, log)
	sightings := NewSightingRepo(db, NewFlagRepo(db, nil, log), log)
	ratings := NewRatingRepo(db, log)
	ctx := context.Background()

	reporter := seedUser(t, accounts, "reporter")
	s := seedSighting(t, sightings, reporter.ID, models.CreatureGhost, time.Now())

	for _, v := range []int{0, 6, -1} {
		if _, err := ratings.Upsert(ctx, s.ID, reporter.ID, v); err == nil {
			t.Fatalf("expected validation error for value %d", v)
		}
	}
	if _, err := ratings.Upsert(ctx, 9999, reporter.ID, 3); err == nil {
		t.Fatal("expected not found for unknown sighting")
	}
}

func TestRatingGetUnrated(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	accounts := NewAccountRepo(db, log)
	sightings := NewSightingRepo(db, NewFlagRepo(db, nil, log), log)
	ratings := NewRatingRepo(db, log)

	reporter := seedUser(t, accounts, "reporter")
	s := seedSighting(t, sightings, reporter.ID, models.CreatureGhost, time.Now())

	got, err := ratings.Get(context.Background(), s.ID, reporter.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unrated, got %+v", got)
	}
}
