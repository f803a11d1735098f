package repositories

import (
	"context"

	"mfi-backoffice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// historyRepository implements HistoryRepository interface
type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new application history repository
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

// Create appends a history row
func (r *historyRepository) Create(ctx context.Context, entry *models.ApplicationHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByApplication lists an application's history, oldest first
func (r *historyRepository) ListByApplication(ctx context.Context, applicationID uint) ([]*models.ApplicationHistory, error) {
	var entries []*models.ApplicationHistory
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}
