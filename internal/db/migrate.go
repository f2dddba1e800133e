package db

import (
	"blog_system/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging
	"gorm.io/gorm"               // GORM ORM library
)

// Models lists every table in creation order
var Models = []any{&domain.User{}, &domain.Post{}}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(Models...); err != nil {
		logrus.WithField("error", err.Error()).Error("Migration failed")
		return err
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}

// Reset drops every table and migrates again
func Reset(db *gorm.DB) error {
	if err := db.Migrator().DropTable(&domain.Post{}, &domain.User{}); err != nil { // Posts first, they reference users
		return err
	}
	return Migrate(db)
}
