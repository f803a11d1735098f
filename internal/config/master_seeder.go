package config

import (
	"log"

	"mfi-backoffice/internal/adapters/persistence/models"
	"mfi-backoffice/internal/core/domain"

	"gorm.io/gorm"
)

// SeedMasterData seeds a starter loan product catalog when it is empty
func SeedMasterData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.LoanProduct{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []models.LoanProduct{
		{
			Name:          "Micro Business Loan",
			Description:   "Working capital for small traders and market vendors",
			MinAmount:     1_000_000,
			MaxAmount:     10_000_000,
			MinTenure:     6,
			MaxTenure:     24,
			MinInterest:   18,
			MaxInterest:   24,
			ProcessingFee: 2,
			Status:        domain.ProductActive,
		},
		{
			Name:          "SME Growth Loan",
			Description:   "Equipment and expansion finance for registered businesses",
			MinAmount:     10_000_000,
			MaxAmount:     50_000_000,
			MinTenure:     12,
			MaxTenure:     36,
			MinInterest:   15,
			MaxInterest:   20,
			ProcessingFee: 1.5,
			Status:        domain.ProductActive,
		},
		{
			Name:          "Agricultural Loan",
			Description:   "Seasonal input finance repaid after harvest",
			MinAmount:     500_000,
			MaxAmount:     5_000_000,
			MinTenure:     3,
			MaxTenure:     12,
			MinInterest:   12,
			MaxInterest:   16,
			ProcessingFee: 1,
			Status:        domain.ProductActive,
		},
		{
			Name:          "Salary Advance",
			Description:   "Short-term advance for salaried employees",
			MinAmount:     200_000,
			MaxAmount:     3_000_000,
			MinTenure:     1,
			MaxTenure:     6,
			MinInterest:   10,
			MaxInterest:   12,
			ProcessingFee: 1,
			Status:        domain.ProductActive,
		},
	}

	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			return err
		}
		log.Printf("   Created loan product: %s", products[i].Name)
	}

	log.Println("✅ Master data seeded successfully")
	return nil
}
