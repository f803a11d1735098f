package repositories

import (
	"context"
	"strings"
	"time"

	"mfi-backoffice/internal/adapters/persistence/models"
	"mfi-backoffice/internal/core/domain"

	"gorm.io/gorm"
)

// applicationRepository implements ApplicationRepository interface
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new loan application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create creates a new loan application
func (r *applicationRepository) Create(ctx context.Context, app *models.LoanApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByID gets a loan application by ID
func (r *applicationRepository) GetByID(ctx context.Context, id uint) (*models.LoanApplication, error) {
	var app models.LoanApplication
	if err := r.db.WithContext(ctx).First(&app, id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// List lists applications newest first, filtered by status and a free-text
// search over applicant name, email, phone and id number.
func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]*models.LoanApplication, int64, error) {
	var apps []*models.LoanApplication
	var total int64

	q := r.db.WithContext(ctx).Model(&models.LoanApplication{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ? OR LOWER(id_number) LIKE ?",
			like, like, like, like,
		)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("created_at DESC").Order("id DESC")
	if filter.Limit > 0 {
		q = q.Offset(filter.Offset).Limit(filter.Limit)
	}
	if err := q.Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// ListCreatedBetween loads every application created within [from, to].
// Nil bounds are open.
func (r *applicationRepository) ListCreatedBetween(ctx context.Context, from, to *time.Time) ([]*models.LoanApplication, error) {
	var apps []*models.LoanApplication
	q := r.db.WithContext(ctx)
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}
	err := q.Order("created_at ASC").Find(&apps).Error
	return apps, err
}

// Update saves every field of a loan application
func (r *applicationRepository) Update(ctx context.Context, app *models.LoanApplication) error {
	// Save stamps updated_at with the wall clock; keep the caller's value instead
	at := app.UpdatedAt
	if at.IsZero() {
		return r.db.WithContext(ctx).Save(app).Error
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(app).Error; err != nil {
			return err
		}
		app.UpdatedAt = at
		return tx.Model(app).UpdateColumn("updated_at", at).Error
	})
}

// UpdateStatus sets only the status column and bumps updated_at
func (r *applicationRepository) UpdateStatus(ctx context.Context, id uint, status domain.ApplicationStatus, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": at}).Error
}

// Delete hard deletes an application together with its history rows.
// Attached documents are left alone.
func (r *applicationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.LoanApplication{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("application_id = ?", id).Delete(&models.ApplicationHistory{}).Error
	})
}

// CountByStatus counts applications grouped by status
func (r *applicationRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

// SumAmount sums loan_amount, optionally restricted to one status
func (r *applicationRepository) SumAmount(ctx context.Context, status domain.ApplicationStatus) (float64, error) {
	var sum float64
	q := r.db.WithContext(ctx).Model(&models.LoanApplication{}).Select("COALESCE(SUM(loan_amount), 0)")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Scan(&sum).Error
	return sum, err
}

// AverageAmount averages loan_amount over all applications
func (r *applicationRepository) AverageAmount(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Select("COALESCE(AVG(loan_amount), 0)").
		Scan(&avg).Error
	return avg, err
}
