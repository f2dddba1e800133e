package db

import (
	"fmt" // DSN formatting

	"blog_system/internal/config" // Configuration
	"blog_system/internal/store"  // Persistence implementations

	"gorm.io/driver/mysql"    // MySQL driver for GORM
	"gorm.io/driver/postgres" // PostgreSQL driver for GORM
	"gorm.io/gorm"            // GORM ORM library
	"gorm.io/gorm/logger"     // GORM log levels
)

// DSN builds the data source name for the configured driver
func DSN(cfg *config.Config) (string, error) {
	switch cfg.DBDriver {
	case "mysql":
		return cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true", nil
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode), nil
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Open connects GORM to the configured database
func Open(cfg *config.Config) (*gorm.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	var dialector gorm.Dialector
	if cfg.DBDriver == "postgres" {
		dialector = postgres.Open(dsn)
	} else {
		dialector = mysql.Open(dsn)
	}
	gormCfg := &gorm.Config{}
	if cfg.IsProd() {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent) // Queries are not logged in production
	}
	return gorm.Open(dialector, gormCfg)
}

// OpenStore returns the store selected by DB_DRIVER. The memory store keeps
// data only for the life of the process.
func OpenStore(cfg *config.Config) (store.Store, error) {
	if cfg.DBDriver == "memory" {
		return store.NewMemoryStore(), nil
	}
	conn, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := Migrate(conn); err != nil {
			return nil, err
		}
	}
	return store.NewGormStore(conn), nil
}
