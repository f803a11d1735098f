package repositories

import (
	"context"

	"mfi-backoffice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// documentRepository implements DocumentRepository interface
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document metadata repository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Create creates a document metadata row
func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// GetByID gets a document by ID
func (r *documentRepository) GetByID(ctx context.Context, id uint) (*models.Document, error) {
	var doc models.Document
	if err := r.db.WithContext(ctx).First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// List lists documents newest first
func (r *documentRepository) List(ctx context.Context, filter DocumentFilter) ([]*models.Document, error) {
	var docs []*models.Document
	q := r.db.WithContext(ctx)
	if filter.RelatedTo != "" {
		q = q.Where("related_to = ?", filter.RelatedTo)
	}
	if filter.RelatedID != "" {
		q = q.Where("related_id = ?", filter.RelatedID)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	err := q.Order("created_at DESC").Order("id DESC").Find(&docs).Error
	return docs, err
}

// Update saves every field of a document
func (r *documentRepository) Update(ctx context.Context, doc *models.Document) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

// Delete hard deletes a document metadata row
func (r *documentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Document{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
