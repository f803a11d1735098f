package repositories

import (
	"context"
	"strings"

	"mfi-backoffice/internal/adapters/persistence/models"
	"mfi-backoffice/internal/core/domain"

	"gorm.io/gorm"
)

// productRepository implements ProductRepository interface
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new loan product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create creates a new loan product
func (r *productRepository) Create(ctx context.Context, product *models.LoanProduct) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// GetByID gets a loan product by ID
func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.LoanProduct, error) {
	var product models.LoanProduct
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List lists loan products ordered by name; an empty status lists all
func (r *productRepository) List(ctx context.Context, status domain.ProductStatus) ([]*models.LoanProduct, error) {
	var products []*models.LoanProduct
	q := r.db.WithContext(ctx).Order("name ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&products).Error
	return products, err
}

// ExistsByName checks whether another product already uses name (case-insensitive)
func (r *productRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.LoanProduct{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// Count counts all loan products
func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LoanProduct{}).Count(&count).Error
	return count, err
}

// Update saves every field of a loan product
func (r *productRepository) Update(ctx context.Context, product *models.LoanProduct) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete hard deletes a loan product. Applications keep their snapshot.
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.LoanProduct{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
