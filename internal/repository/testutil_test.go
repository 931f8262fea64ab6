package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"cryptidwatch/internal/models"
	"cryptidwatch/pkg/logger"
)

// newTestDB opens a fresh in-memory database migrated with the full
// schema. Each test gets its own named memory DB so they cannot see each
// other's rows.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(models.RegisterModels()...); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(logger.WithOutputDir(t.TempDir()))
	if err != nil {
		t.Fatalf("new test logger: %v", err)
	}
	t.Cleanup(log.Close)
	return log
}

// seedUser registers a full account and returns it.
func seedUser(t *testing.T, repo *AccountRepo, username string) *models.User {
	t.Helper()
	user, err := repo.Register(context.Background(), RegisterInput{
		Username:         username,
		Email:            username + "@example.com",
		Password:         "hunter2hunter2",
		SecurityQuestion: "First pet?",
		SecurityAnswer:   "Mothman",
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

// seedSighting inserts one sighting for a user and returns it.
func seedSighting(t *testing.T, repo *SightingRepo, userID uint, creatureID int, date time.Time) *models.Sighting {
	t.Helper()
	s, err := repo.Create(context.Background(), CreateSightingInput{
		UserID:       userID,
		CreatureID:   creatureID,
		LocationName: "Point Pleasant, WV",
		Description:  "It was huge",
		HeightInch:   84,
		SightingDate: date,
		Latitude:     38.85,
		Longitude:    -82.13,
	})
	if err != nil {
		t.Fatalf("seed sighting: %v", err)
	}
	return s
}
