package config

import (
	"fmt"

	"online-canteen-api/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedRoles creates the static role rows once
func SeedRoles(db *gorm.DB) error {
	for _, name := range models.AllRoles {
		if err := db.FirstOrCreate(&models.Role{}, models.Role{Name: name}).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}

// SeedAdmin creates the bootstrap admin when ADMIN_EMAIL/ADMIN_PASSWORD are set
func SeedAdmin(db *gorm.DB, cfg SeedConfig, log *zap.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Warn("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", cfg.AdminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("admin already exists", zap.String("email", cfg.AdminEmail))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	var roles []models.Role
	if err := db.Where("name IN ?", []models.RoleName{models.RoleAdmin, models.RoleCustomer}).Find(&roles).Error; err != nil {
		return err
	}

	admin := models.User{
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		FirstName:    "System",
		LastName:     "Administrator",
		Roles:        roles,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Info("seeded admin account", zap.String("email", admin.Email))
	return nil
}
