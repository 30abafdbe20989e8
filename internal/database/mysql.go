// Package database opens the MySQL connection and keeps the schema
// migrated to the entity set.
package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/entity"
)

// ConnectMySQL opens a gorm handle on the given DSN.
func ConnectMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the tables touched by the chat service.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entity.User{},
		&entity.ChatGroup{},
		&entity.GroupMembership{},
		&entity.Message{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
