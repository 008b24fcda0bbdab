package repository_test

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"wakili/internal/domain"
	"wakili/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var userSeq atomic.Uint64

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.User{},
		&models.ProfileMark{},
		&models.Relationship{},
		&models.Activity{},
		&models.SystemSetting{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, plan string, coins int64) *models.User {
	t.Helper()
	n := userSeq.Add(1)
	u := &models.User{
		Username:  fmt.Sprintf("repo-user%d", n),
		Email:     fmt.Sprintf("repo-user%d@example.com", n),
		Role:      domain.RoleClient,
		Plan:      plan,
		IsPremium: plan != domain.PlanFree,
		Coins:     coins,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}
