package database

import (
	"fmt"
	"log/slog"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"collections-backend/config"
	"collections-backend/models"
)

// Connect opens the sqlite database and migrates the schema.
func Connect(cfg config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", cfg.DatabasePath, err)
	}

	// Single-writer model: one connection keeps sqlite happy and makes
	// in-memory databases behave.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.PaymentRecord{},
		&models.PaymentProof{},
		&models.Dispute{},
		&models.ExportHistory{},
	); err != nil {
		return nil, fmt.Errorf("database: migrate: %w", err)
	}

	return db, nil
}

// Seed provisions the two default operator accounts when the users table is
// empty. Passwords should be rotated after first login on a real deployment.
func Seed(db *gorm.DB, log *slog.Logger) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("database: count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	defaults := []struct {
		username string
		password string
		role     models.Role
	}{
		{"teamleader", "password123", models.RoleTeamLeader},
		{"analyst", "password123", models.RoleDataAnalyst},
	}

	for _, d := range defaults {
		hash, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("database: hash seed password: %w", err)
		}
		user := models.User{Username: d.username, Password: string(hash), Role: d.role}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("database: seed user %s: %w", d.username, err)
		}
		log.Info("seeded default user", "username", d.username, "role", d.role)
	}

	return nil
}
