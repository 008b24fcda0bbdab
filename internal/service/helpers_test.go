package service_test

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"wakili/internal/domain"
	"wakili/internal/models"
	"wakili/internal/repository"
	"wakili/internal/service"

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
	// a single connection keeps every session on the same :memory: database
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.User{},
		&models.AdvocateProfile{},
		&models.ClientProfile{},
		&models.ProfileMark{},
		&models.Relationship{},
		&models.Activity{},
		&models.Notification{},
		&models.SystemSetting{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role, plan string, coins int64) *models.User {
	t.Helper()
	n := userSeq.Add(1)
	u := &models.User{
		Username:  fmt.Sprintf("user%d", n),
		Email:     fmt.Sprintf("user%d@example.com", n),
		Role:      role,
		Plan:      plan,
		IsPremium: plan != domain.PlanFree,
		Coins:     coins,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

func seedAdvocateProfile(t *testing.T, db *gorm.DB, u *models.User) *models.AdvocateProfile {
	t.Helper()
	p := &models.AdvocateProfile{
		UserID:      u.ID,
		DisplayName: u.Username,
		RoutingCode: fmt.Sprintf("AD-%06d", u.ID),
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to seed advocate profile: %v", err)
	}
	return p
}

func seedClientProfile(t *testing.T, db *gorm.DB, u *models.User) *models.ClientProfile {
	t.Helper()
	p := &models.ClientProfile{
		UserID:      u.ID,
		DisplayName: u.Username,
		RoutingCode: fmt.Sprintf("CL-%06d", u.ID),
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to seed client profile: %v", err)
	}
	return p
}

func seedActivity(t *testing.T, db *gorm.DB, senderID, receiverID uint, actType, status string) *models.Activity {
	t.Helper()
	a := &models.Activity{SenderID: senderID, ReceiverID: receiverID, Type: actType, Status: status}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("failed to seed activity: %v", err)
	}
	return a
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGate(db *gorm.DB) *service.EconomyGate {
	costs := service.NewCostProvider(repository.NewSettingRepository(db))
	return service.NewEconomyGate(costs, 90*24*time.Hour, 3)
}

func newTestService(t *testing.T, db *gorm.DB) *service.InteractionService {
	t.Helper()
	return service.NewInteractionService(
		db,
		repository.NewUserRepository(db),
		repository.NewProfileRepository(db),
		repository.NewRelationshipRepository(db),
		repository.NewActivityRepository(db),
		repository.NewMarkRepository(db),
		newTestGate(db),
		service.NewSynchronizer(),
		service.NewPairLocker(),
		nil, nil, nil,
		discardLogger(),
		10*time.Second,
	)
}
