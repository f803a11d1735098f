package config

import (
	"errors"
	"log"

	"mfi-backoffice/internal/adapters/persistence/models"
	"mfi-backoffice/internal/core/domain"
	"mfi-backoffice/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg SeedConfig
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg SeedConfig) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	if err := SeedMasterData(s.db); err != nil {
		return err
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser creates the first admin from SEED_ADMIN_* when no admin exists
func (s *Seeder) seedAdminUser() error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		log.Println("⚠️ Skipping admin seed: SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD not set")
		return nil
	}
	if !password.ValidatePassword(s.cfg.AdminPassword) {
		return errors.New("SEED_ADMIN_PASSWORD is too short")
	}

	hashed, err := password.Hash(s.cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:    s.cfg.AdminEmail,
		Name:     s.cfg.AdminName,
		Password: hashed,
		Role:     domain.RoleAdmin,
		IsActive: true,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}
