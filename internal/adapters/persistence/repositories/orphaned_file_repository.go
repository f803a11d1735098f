package repositories

import (
	"context"

	"mfi-backoffice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// orphanedFileRepository implements OrphanedFileRepository interface
type orphanedFileRepository struct {
	db *gorm.DB
}

// NewOrphanedFileRepository creates a new orphaned file repository
func NewOrphanedFileRepository(db *gorm.DB) OrphanedFileRepository {
	return &orphanedFileRepository{db: db}
}

// Create records a file that could not be removed
func (r *orphanedFileRepository) Create(ctx context.Context, orphan *models.OrphanedFile) error {
	return r.db.WithContext(ctx).Create(orphan).Error
}

// List returns the least-retried orphans first
func (r *orphanedFileRepository) List(ctx context.Context, limit int) ([]*models.OrphanedFile, error) {
	var orphans []*models.OrphanedFile
	q := r.db.WithContext(ctx).Order("attempts ASC").Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&orphans).Error
	return orphans, err
}

// RecordFailure increments the attempt counter and stores the latest error
func (r *orphanedFileRepository) RecordFailure(ctx context.Context, id uint, reason string) error {
	return r.db.WithContext(ctx).
		Model(&models.OrphanedFile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": reason,
		}).Error
}

// Delete forgets an orphan once its file is gone
func (r *orphanedFileRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.OrphanedFile{}, id).Error
}
