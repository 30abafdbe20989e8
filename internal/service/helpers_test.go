package service

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/entity"
)

type nopLogger struct{}

func (nopLogger) Logf(format string, v ...any) {}

// newTestDB opens a fresh in-memory database with the full schema, so
// service tests run against the real repositories.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&entity.User{},
		&entity.ChatGroup{},
		&entity.GroupMembership{},
		&entity.Message{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) *entity.User {
	t.Helper()
	user := &entity.User{Name: name, Email: email, Password: "x", Role: "user"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return user
}

func seedGroup(t *testing.T, db *gorm.DB, title string, private bool, code string) *entity.ChatGroup {
	t.Helper()
	group := &entity.ChatGroup{Title: title, Description: "d", IsPrivate: private}
	if private {
		group.AccessCode = &code
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("seed group %s: %v", title, err)
	}
	return group
}
