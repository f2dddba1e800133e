package main

import (
	"context" // Context for seeding
	"flag"    // Command line flags

	"blog_system/internal/config"     // Custom import path (Config)
	"blog_system/internal/db"         // Custom import path (Database)
	"blog_system/internal/domain"     // Password hashing cost
	"blog_system/internal/repository" // Repositories used for seeding
	"blog_system/internal/store"      // GORM store

	"github.com/sirupsen/logrus" // Logging
)

// Main entry point for migration
func main() {
	seed := flag.Bool("seed", false, "drop all tables, recreate them and insert sample data")
	flag.Parse()

	cfg := config.LoadConfig() // Load configuration
	domain.PasswordCost = cfg.BcryptCost
	conn, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	if !*seed {
		if err := db.Migrate(conn); err != nil {
			logrus.Fatalf("migration failed: %v", err)
		}
		return
	}
	if err := db.Reset(conn); err != nil {
		logrus.Fatalf("reset failed: %v", err)
	}
	st := store.NewGormStore(conn)
	users := repository.NewUserRepository(st, nil, 0)
	posts := repository.NewPostRepository(st, nil, 0)
	if err := db.Seed(context.Background(), users, posts); err != nil {
		logrus.Fatalf("seeding failed: %v", err)
	}
}
