package testutil

import (
	"testing"
	"time"

	"mfi-backoffice/internal/adapters/persistence/models"
	"mfi-backoffice/internal/core/domain"

	"gorm.io/gorm"
)

// SeedProduct inserts a product with the 1M-10M / 6-24 month ranges
func SeedProduct(t *testing.T, db *gorm.DB, name string) *models.LoanProduct {
	t.Helper()
	p := &models.LoanProduct{
		Name:          name,
		MinAmount:     1_000_000,
		MaxAmount:     10_000_000,
		MinTenure:     6,
		MaxTenure:     24,
		MinInterest:   10,
		MaxInterest:   18,
		ProcessingFee: 1.5,
		Status:        domain.ProductActive,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

// SeedApplication inserts an application with explicit timestamps
func SeedApplication(t *testing.T, db *gorm.DB, product *models.LoanProduct, name string, amount float64, status domain.ApplicationStatus, createdAt time.Time) *models.LoanApplication {
	t.Helper()
	app := &models.LoanApplication{
		FullName:   name,
		Email:      "applicant@example.com",
		Phone:      "0800000000",
		DOB:        time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		Gender:     "Female",
		IDNumber:   "ID-" + name,
		Address:    "1 Market Road",
		Product:    models.ProductSnapshot{ProductID: product.ID, ProductName: product.Name},
		LoanAmount: amount,
		Tenure:     12,
		Purpose:    "Working capital",
		Employment: "Self-employed",
		Income:     900_000,
		Status:     status,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	if err := db.Create(app).Error; err != nil {
		t.Fatalf("seed application: %v", err)
	}
	return app
}
